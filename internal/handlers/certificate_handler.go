package handlers

import (
	"net/http"

	"hgl-backend/internal/models"
	"hgl-backend/internal/services"
	"hgl-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type CertificateHandler struct {
	Service *services.CertificateService
	Records *services.RecordService
	Reports *services.ReportService
}

func NewCertificateHandler(s *services.CertificateService, records *services.RecordService, reports *services.ReportService) *CertificateHandler {
	return &CertificateHandler{Service: s, Records: records, Reports: reports}
}

// NextJob handles GET /api/certificates/next
func (h *CertificateHandler) NextJob(w http.ResponseWriter, r *http.Request) {
	next := h.Service.NextJob(r.Context())
	utils.MarkDegraded(w, next.Degraded)
	utils.JSON(w, http.StatusOK, next)
}

// IssueCertificate handles POST /api/certificates
func (h *CertificateHandler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCertificateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	issued, err := h.Service.Issue(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, issued)
}

// ListCertificates handles GET /api/certificates?q=
func (h *CertificateHandler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	page := h.Records.BrowseCertificates(r.Context(), r.URL.Query().Get("q"))
	utils.MarkDegraded(w, page.Degraded)
	utils.JSON(w, http.StatusOK, page)
}

// GetCertificatePDF handles GET /api/certificates/{jobNo}/pdf
func (h *CertificateHandler) GetCertificatePDF(w http.ResponseWriter, r *http.Request) {
	jobNo, ok := parseJobNo(mux.Vars(r)["jobNo"], h.Service.Lab.JobPrefix)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid job number")
		return
	}

	doc, err := h.Reports.Certificate(r.Context(), jobNo)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.File(w, doc.Filename, doc.ContentType, doc.Data)
}

// GetCertificateQR handles GET /api/certificates/{jobNo}/qr
func (h *CertificateHandler) GetCertificateQR(w http.ResponseWriter, r *http.Request) {
	jobNo, ok := parseJobNo(mux.Vars(r)["jobNo"], h.Service.Lab.JobPrefix)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid job number")
		return
	}

	img, err := services.QRCode(models.VerifyPayload(h.Service.Lab.VerifyURL, jobNo), 256)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(img)
}

// Verify handles GET /verify/{jobNo}, the target of the certificate QR code.
func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	jobNo, ok := parseJobNo(mux.Vars(r)["jobNo"], h.Service.Lab.JobPrefix)
	if !ok {
		utils.JSON(w, http.StatusNotFound, map[string]interface{}{"verified": false})
		return
	}

	cert, err := h.Records.FindCertificate(r.Context(), jobNo)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"verified":    true,
		"lab":         h.Service.Lab.Name,
		"certificate": cert,
	})
}
