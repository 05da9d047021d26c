package services

import (
	"strconv"
	"strings"
	"time"

	"hgl-backend/internal/models"
	"hgl-backend/internal/timeutil"
)

// customItemFallback names an intake row marked Other with no custom text.
const customItemFallback = "Custom"

// AssembleIntake validates an intake form and builds the record to store.
//
// Rows without an item, or whose quantity does not start with a positive
// integer, are dropped rather than rejected. "2 pcs" and "2.5" count as 2. The form fails only when the name is blank
// or no row survives.
func AssembleIntake(req *models.CreateIntakeRequest, now time.Time) (models.IntakeRecord, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.IntakeRecord{}, invalid("name", "customer name is required")
	}

	var lines models.ItemLines
	for _, row := range req.Items {
		item := strings.TrimSpace(row.Item)
		if item == "" {
			continue
		}
		qty, ok := leadingInt(row.Qty.String())
		if !ok || qty <= 0 {
			continue
		}
		if item == models.ItemOther {
			item = strings.TrimSpace(row.CustomItem)
			if item == "" {
				item = customItemFallback
			}
		}
		lines = append(lines, models.ItemLine{Name: item, Qty: qty})
	}
	if len(lines) == 0 {
		return models.IntakeRecord{}, invalid("items", "add at least one item with a quantity")
	}

	status := models.StatusReceived
	if s := strings.TrimSpace(req.Status); s != "" {
		parsed, ok := models.ParseIntakeStatus(s)
		if !ok {
			return models.IntakeRecord{}, invalid("status", "unknown status "+strconv.Quote(s))
		}
		status = parsed
	}

	return models.IntakeRecord{
		Date:    timeutil.DisplayDate(now),
		Time:    timeutil.DisplayTime(now),
		Name:    name,
		Mobile:  models.OrPlaceholder(req.Mobile),
		Address: models.OrPlaceholder(req.Address),
		Items:   lines,
		Total:   lines.TotalPieces(),
		Status:  status,
		Remarks: models.OrPlaceholder(req.Remarks),
	}, nil
}

// AssembleCertificate validates a certificate form. The job number is left
// zero; it is assigned only after validation passes.
func AssembleCertificate(req *models.CreateCertificateRequest, now time.Time) (models.CertificateRecord, error) {
	item := strings.TrimSpace(req.Item)
	switch {
	case item == "":
		return models.CertificateRecord{}, invalid("item", "select an article")
	case item == models.ItemOther:
		item = strings.TrimSpace(req.CustomItem)
		if item == "" {
			return models.CertificateRecord{}, invalid("customItem", "enter the article name")
		}
	case !models.IsCatalogItem(item):
		return models.CertificateRecord{}, invalid("item", "unknown article "+strconv.Quote(item))
	}

	purityText := strings.TrimSpace(req.Purity)
	if purityText == "" {
		return models.CertificateRecord{}, invalid("purity", "select a purity")
	}
	purity, ok := models.ParsePurity(purityText)
	if !ok {
		return models.CertificateRecord{}, invalid("purity", "unknown purity "+strconv.Quote(purityText))
	}

	marking := models.DefaultMarkingType
	if t := strings.TrimSpace(req.Type); t != "" {
		if marking, ok = models.ParseMarkingType(t); !ok {
			return models.CertificateRecord{}, invalid("type", "unknown marking type "+strconv.Quote(t))
		}
	}

	pieces := strings.TrimSpace(req.Pieces.String())
	if pieces == "" {
		pieces = "1"
	}

	return models.CertificateRecord{
		Date:   timeutil.DisplayDate(now),
		Item:   item,
		Karat:  string(purity),
		Weight: models.OrPlaceholder(req.Weight.String()),
		Pieces: pieces,
		Type:   string(marking),
		Desc:   models.OrPlaceholder(req.Description),
		Status: models.CertificateStatusIssued,
	}, nil
}

// leadingInt reads the optionally signed integer at the start of s, after
// leading spaces. ok is false when no digit follows the sign.
func leadingInt(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
