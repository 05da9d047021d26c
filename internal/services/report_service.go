package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"image/png"
	"io"
	"strconv"
	"time"

	"hgl-backend/internal/models"
	"hgl-backend/internal/repositories"
	"hgl-backend/internal/timeutil"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf/v2"
)

const (
	ContentTypeCSV = "text/csv; charset=utf-8"
	ContentTypePDF = "application/pdf"
	ContentTypeZIP = "application/zip"
)

// Document is a rendered export ready to be served or shared.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	// Degraded is set when the source collection could not be read and the
	// document was rendered from an empty list.
	Degraded bool
}

// ReportService renders record exports: CSV sheets, PDF reports, single
// certificate PDFs and a ZIP bundle of everything.
type ReportService struct {
	Repo  *repositories.RecordRepository
	Lab   models.LabProfile
	Clock timeutil.Clock

	uncompressed bool // tests read the content streams
}

// NewReportService creates a new report service
func NewReportService(repo *repositories.RecordRepository, lab models.LabProfile) *ReportService {
	return &ReportService{Repo: repo, Lab: lab, Clock: timeutil.Now}
}

// CSV exports the filtered collection, newest first.
func (s *ReportService) CSV(ctx context.Context, kind Kind, query string) (*Document, error) {
	var buf bytes.Buffer
	doc := &Document{ContentType: ContentTypeCSV}
	day := reportDay(s.Clock())

	switch kind {
	case KindIntake:
		list, st := s.Repo.ListIntake(ctx)
		if err := WriteIntakeCSV(&buf, FilterIntake(list, query)); err != nil {
			return nil, err
		}
		doc.Filename = fmt.Sprintf("%s_Customers_%s.csv", s.Lab.ShortName, day)
		doc.Degraded = st.Degraded
	case KindCertificates:
		list, st := s.Repo.ListCertificates(ctx)
		if err := s.WriteCertificatesCSV(&buf, FilterCertificates(list, query)); err != nil {
			return nil, err
		}
		doc.Filename = fmt.Sprintf("%s_Cards_%s.csv", s.Lab.ShortName, day)
		doc.Degraded = st.Degraded
	default:
		return nil, fmt.Errorf("%w: unknown collection %q", ErrNotFound, kind)
	}

	doc.Data = buf.Bytes()
	return doc, nil
}

// PDF renders the filtered collection as a landscape table report.
func (s *ReportService) PDF(ctx context.Context, kind Kind, query string) (*Document, error) {
	doc := &Document{ContentType: ContentTypePDF}
	stamp := timeutil.FileStamp(s.Clock())

	var err error
	switch kind {
	case KindIntake:
		list, st := s.Repo.ListIntake(ctx)
		doc.Data, err = s.IntakePDF(FilterIntake(list, query))
		doc.Filename = fmt.Sprintf("%s_Customers_%s.pdf", s.Lab.ShortName, stamp)
		doc.Degraded = st.Degraded
	case KindCertificates:
		list, st := s.Repo.ListCertificates(ctx)
		doc.Data, err = s.CertificatesPDF(FilterCertificates(list, query))
		doc.Filename = fmt.Sprintf("%s_Cards_%s.pdf", s.Lab.ShortName, stamp)
		doc.Degraded = st.Degraded
	default:
		return nil, fmt.Errorf("%w: unknown collection %q", ErrNotFound, kind)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Certificate renders the hallmark certificate for one stored job.
func (s *ReportService) Certificate(ctx context.Context, jobNo int) (*Document, error) {
	list, st := s.Repo.ListCertificates(ctx)
	if st.Degraded {
		return nil, st.Cause
	}
	for _, c := range list {
		if c.JobNo != jobNo {
			continue
		}
		data, err := s.CertificatePDF(s.Lab.View(c))
		if err != nil {
			return nil, err
		}
		return &Document{
			Filename:    fmt.Sprintf("%s_Certificate_%s.pdf", s.Lab.ShortName, s.Lab.DisplayID(jobNo)),
			ContentType: ContentTypePDF,
			Data:        data,
		}, nil
	}
	return nil, fmt.Errorf("%w: job %d", ErrNotFound, jobNo)
}

// Bundle packs both CSV sheets and both PDF reports into one ZIP.
func (s *ReportService) Bundle(ctx context.Context, query string) (*Document, error) {
	var docs []*Document
	for _, kind := range []Kind{KindIntake, KindCertificates} {
		c, err := s.CSV(ctx, kind, query)
		if err != nil {
			return nil, err
		}
		p, err := s.PDF(ctx, kind, query)
		if err != nil {
			return nil, err
		}
		docs = append(docs, c, p)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	degraded := false
	for _, d := range docs {
		fw, err := zw.Create(d.Filename)
		if err != nil {
			return nil, fmt.Errorf("bundle %s: %w", d.Filename, err)
		}
		if _, err := fw.Write(d.Data); err != nil {
			return nil, fmt.Errorf("bundle %s: %w", d.Filename, err)
		}
		degraded = degraded || d.Degraded
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return &Document{
		Filename:    fmt.Sprintf("%s_Records_%s.zip", s.Lab.ShortName, timeutil.FileStamp(s.Clock())),
		ContentType: ContentTypeZIP,
		Data:        buf.Bytes(),
		Degraded:    degraded,
	}, nil
}

// WriteIntakeCSV writes the customer sheet. Fields are quoted by
// encoding/csv, so embedded quotes and commas survive.
func WriteIntakeCSV(out io.Writer, list []models.IntakeRecord) error {
	w := csv.NewWriter(out)
	w.Write([]string{"Date", "Time", "Customer Name", "Mobile", "Items", "Total Pieces", "Status"})
	for _, r := range list {
		w.Write([]string{
			r.Date,
			models.OrPlaceholder(r.Time),
			r.Name,
			r.Mobile,
			r.Items.Summary(),
			fmt.Sprintf("%d", r.Total),
			string(r.DisplayStatus()),
		})
	}
	w.Flush()
	return w.Error()
}

func (s *ReportService) WriteCertificatesCSV(out io.Writer, list []models.CertificateRecord) error {
	w := csv.NewWriter(out)
	w.Write([]string{"Job No", "Date", "Article", "Purity", "Weight (g)", "Pieces", "Marking Type", "Description", "Status"})
	for _, c := range list {
		w.Write([]string{
			s.Lab.DisplayID(c.JobNo),
			c.Date,
			c.Item,
			c.Karat,
			c.Weight,
			c.Pieces,
			c.Type,
			models.OrPlaceholder(c.Desc),
			c.DisplayStatus(),
		})
	}
	w.Flush()
	return w.Error()
}

func (s *ReportService) IntakePDF(list []models.IntakeRecord) ([]byte, error) {
	pdf := s.newPDF("L", 10) // Landscape for more columns
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	s.letterhead(pdf, "Customer Records Report")

	widths := []float64{28, 22, 55, 32, 90, 22, 28}
	headers := []string{"Date", "Time", "Customer Name", "Mobile", "Items", "Total Pcs", "Status"}
	tableHeader(pdf, widths, headers)

	aligns := []string{"C", "C", "L", "C", "L", "C", "C"}
	pdf.SetFont("Arial", "", 9)
	for i, r := range list {
		zebra(pdf, i)
		tableRow(pdf, tr, widths, aligns, intakeCells(r))
	}
	if len(list) == 0 {
		emptyRow(pdf, widths)
	}

	s.footer(pdf)
	return output(pdf)
}

func (s *ReportService) CertificatesPDF(list []models.CertificateRecord) ([]byte, error) {
	pdf := s.newPDF("L", 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	s.letterhead(pdf, "Hallmark Cards Report")

	widths := []float64{32, 28, 50, 35, 28, 22, 40, 42}
	headers := []string{"Job No", "Date", "Article", "Purity", "Weight", "Pieces", "Marking", "Status"}
	tableHeader(pdf, widths, headers)

	aligns := []string{"C", "C", "L", "C", "C", "C", "C", "C"}
	pdf.SetFont("Arial", "", 9)
	for i, c := range list {
		zebra(pdf, i)
		tableRow(pdf, tr, widths, aligns, s.certificateCells(c))
	}
	if len(list) == 0 {
		emptyRow(pdf, widths)
	}

	s.footer(pdf)
	return output(pdf)
}

// CertificatePDF renders a single hallmark certificate with a QR code that
// encodes the verification URL.
func (s *ReportService) CertificatePDF(c models.CertificateView) ([]byte, error) {
	pdf := s.newPDF("P", 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header band
	pdf.SetFillColor(184, 134, 11)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(170, 12, tr(s.Lab.Name), "", 1, "C", true, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(170, 8, "Certificate of Hallmarking", "", 1, "C", true, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(170, 8, tr(s.Lab.ShortName+" HALLMARKED"), "", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	rows := [][2]string{
		{"Job Number:", c.DisplayID},
		{"Date of Issue:", c.Date},
		{"Article:", c.Item},
		{"Purity (Karat):", c.Karat},
		{"Gross Weight:", weightText(c.Weight)},
		{"No. of Pieces:", c.Pieces},
		{"Marking Type:", c.Type},
	}
	if c.Desc != "" && c.Desc != models.Placeholder {
		rows = append(rows, [2]string{"Description:", c.Desc})
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(60, 9, tr(row[0]), "B", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.SetTextColor(51, 51, 51)
		pdf.CellFormat(110, 9, tr(row[1]), "B", 1, "R", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(8)

	img, err := QRCode(c.QRPayload, 300)
	if err != nil {
		return nil, err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(img))
	pdf.ImageOptions("verify-qr", 80, pdf.GetY(), 50, 50, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 52)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(170, 6, "Scan QR code to verify authenticity", "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 102, 179)
	pdf.CellFormat(170, 6, tr(c.QRPayload), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	s.footer(pdf)
	return output(pdf)
}

// QRCode renders payload as a square PNG of the given pixel size.
func QRCode(payload string, size int) ([]byte, error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportService) letterhead(pdf *gofpdf.Fpdf, title string) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := w - left - right

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(width, 10, tr(s.Lab.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 102, 179)
	pdf.CellFormat(width, 7, tr(s.Lab.ShortName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(width, 6, tr(s.Lab.Tagline), "", 1, "C", false, 0, "")

	pdf.SetDrawColor(184, 134, 11)
	pdf.SetLineWidth(0.8)
	y := pdf.GetY() + 2
	pdf.Line(left, y, w-right, y)
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(136, 136, 136)
	pdf.CellFormat(width, 5, "Generated: "+s.Clock().In(timeutil.IST).Format(timeutil.ReportStampLayout), "", 1, "R", false, 0, "")
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(width, 8, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
}

func (s *ReportService) footer(pdf *gofpdf.Fpdf) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := w - left - right

	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(width, 5, tr(s.Lab.ContactLine()), "T", 1, "C", false, 0, "")
	pdf.CellFormat(width, 5, tr(s.Lab.City), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func (s *ReportService) newPDF(orientation string, margin float64) *gofpdf.Fpdf {
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetCompression(!s.uncompressed)
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()
	return pdf
}

func intakeCells(r models.IntakeRecord) []string {
	return []string{
		r.Date,
		models.OrPlaceholder(r.Time),
		truncate(r.Name, 30),
		r.Mobile,
		truncate(r.Items.Summary(), 55),
		strconv.Itoa(r.Total),
		string(r.DisplayStatus()),
	}
}

func (s *ReportService) certificateCells(c models.CertificateRecord) []string {
	weight := c.Weight
	if weight != models.Placeholder {
		weight += " g"
	}
	return []string{
		s.Lab.DisplayID(c.JobNo),
		c.Date,
		truncate(c.Item, 28),
		c.Karat,
		weight,
		c.Pieces,
		c.Type,
		c.DisplayStatus(),
	}
}

// tableRow writes one zebra row. Every cell goes through tr so stored text
// outside ASCII is encoded for the core fonts.
func tableRow(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, aligns, cells []string) {
	for i, cell := range cells {
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 6, tr(cell), "1", ln, aligns[i], true, 0, "")
	}
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, headers []string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(184, 134, 11)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 8, h, "1", ln, "C", true, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

// Alternate row colors
func zebra(pdf *gofpdf.Fpdf, i int) {
	if i%2 == 0 {
		pdf.SetFillColor(255, 255, 255)
	} else {
		pdf.SetFillColor(249, 249, 249)
	}
}

func emptyRow(pdf *gofpdf.Fpdf, widths []float64) {
	total := 0.0
	for _, w := range widths {
		total += w
	}
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(total, 8, "No records", "1", 1, "C", false, 0, "")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func weightText(w string) string {
	if w == "" || w == models.Placeholder {
		return models.Placeholder
	}
	return w + " grams"
}

// reportDay is the date used in export file names.
func reportDay(t time.Time) string {
	return t.In(timeutil.IST).Format("2006-01-02")
}
