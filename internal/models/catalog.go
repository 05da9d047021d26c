package models

import "strings"

// Placeholder is stored for every optional field left blank. Exports and
// display code rely on it being present.
const Placeholder = "-"

// OrPlaceholder trims s and substitutes Placeholder when nothing is left.
func OrPlaceholder(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	return s
}

// ItemOther asks for a free-text article name.
const ItemOther = "Other"

// Items is the article catalogue offered on both intake and certificate forms.
var Items = []string{
	"Ring", "Earring", "Tops", "Necklace", "Chain", "Bangle",
	"Pendant", "Bracelet", "Nose Pin", "Anklet", "Mangalsutra", "Coin", ItemOther,
}

// IsCatalogItem reports whether name is one of Items.
func IsCatalogItem(name string) bool {
	for _, it := range Items {
		if it == name {
			return true
		}
	}
	return false
}

// Purity is a gold or silver fineness grade.
type Purity string

const (
	Purity24K       Purity = "24K (999)"
	Purity22K       Purity = "22K (916)"
	Purity18K       Purity = "18K (750)"
	Purity14K       Purity = "14K (585)"
	PuritySilver999 Purity = "Silver 999"
	PuritySilver925 Purity = "Silver 925"
)

var Purities = []Purity{Purity24K, Purity22K, Purity18K, Purity14K, PuritySilver999, PuritySilver925}

func ParsePurity(s string) (Purity, bool) {
	for _, p := range Purities {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// MarkingType is the hallmark stamp variant applied (laser stamp, furnace stamp).
type MarkingType string

const (
	MarkingLSFS   MarkingType = "LS / FS"
	MarkingLSOnly MarkingType = "LS Only"
	MarkingFSOnly MarkingType = "FS Only"
	MarkingBoth   MarkingType = "Both"
)

var MarkingTypes = []MarkingType{MarkingLSFS, MarkingLSOnly, MarkingFSOnly, MarkingBoth}

// DefaultMarkingType is preselected on the certificate form.
const DefaultMarkingType = MarkingLSFS

func ParseMarkingType(s string) (MarkingType, bool) {
	for _, m := range MarkingTypes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// IntakeStatus tracks an intake through the lab.
type IntakeStatus string

const (
	StatusReceived  IntakeStatus = "Received"
	StatusTesting   IntakeStatus = "Testing"
	StatusMarking   IntakeStatus = "Marking"
	StatusReady     IntakeStatus = "Ready"
	StatusDelivered IntakeStatus = "Delivered"
)

var IntakeStatuses = []IntakeStatus{StatusReceived, StatusTesting, StatusMarking, StatusReady, StatusDelivered}

func ParseIntakeStatus(s string) (IntakeStatus, bool) {
	for _, st := range IntakeStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// CertificateStatusIssued is the only status a new certificate carries.
const CertificateStatusIssued = "Issued"

// Catalog is served to clients so forms offer the same closed sets the
// server validates against.
type Catalog struct {
	Items        []string       `json:"items"`
	Purities     []Purity       `json:"purities"`
	MarkingTypes []MarkingType  `json:"markingTypes"`
	Statuses     []IntakeStatus `json:"statuses"`
}

func NewCatalog() Catalog {
	return Catalog{
		Items:        Items,
		Purities:     Purities,
		MarkingTypes: MarkingTypes,
		Statuses:     IntakeStatuses,
	}
}
