package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemLine is one article kind handed in at intake.
type ItemLine struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Label renders the line the way intake slips show it: "Ring x2", or just
// "Ring" for a single piece.
func (l ItemLine) Label() string {
	if l.Qty > 1 {
		return fmt.Sprintf("%s x%d", l.Name, l.Qty)
	}
	return l.Name
}

// ItemLines is persisted as a structured array. It also decodes the
// comma-joined summary string older stores contain.
type ItemLines []ItemLine

func (ls ItemLines) Summary() string {
	labels := make([]string, 0, len(ls))
	for _, l := range ls {
		labels = append(labels, l.Label())
	}
	return strings.Join(labels, ", ")
}

func (ls ItemLines) TotalPieces() int {
	total := 0
	for _, l := range ls {
		total += l.Qty
	}
	return total
}

func (ls *ItemLines) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ls = nil
		return nil
	}
	if data[0] == '"' {
		var summary string
		if err := json.Unmarshal(data, &summary); err != nil {
			return err
		}
		*ls = ParseItemsSummary(summary)
		return nil
	}
	var lines []ItemLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*ls = lines
	return nil
}

// ParseItemsSummary reverses ItemLines.Summary for legacy records.
func ParseItemsSummary(summary string) ItemLines {
	var lines ItemLines
	for _, part := range strings.Split(summary, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == Placeholder {
			continue
		}
		line := ItemLine{Name: part, Qty: 1}
		if idx := strings.LastIndex(part, " x"); idx > 0 {
			if n, err := strconv.Atoi(part[idx+2:]); err == nil && n > 0 {
				line = ItemLine{Name: strings.TrimSpace(part[:idx]), Qty: n}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// IntakeRecord is one customer visit. Records are append-only.
type IntakeRecord struct {
	Date    string       `json:"date"`
	Time    string       `json:"time"`
	Name    string       `json:"name"`
	Mobile  string       `json:"mobile"`
	Address string       `json:"address,omitempty"`
	Items   ItemLines    `json:"items"`
	Total   int          `json:"total"`
	Status  IntakeStatus `json:"status,omitempty"`
	Remarks string       `json:"remarks,omitempty"`
}

// DisplayStatus falls back to Received for records written without one.
func (r IntakeRecord) DisplayStatus() IntakeStatus {
	if r.Status == "" {
		return StatusReceived
	}
	return r.Status
}

// IntakeItemRow is one row of the intake form. Rows are transient and never
// persisted as-is.
type IntakeItemRow struct {
	Item       string    `json:"item"`
	CustomItem string    `json:"customItem"`
	Qty        FieldText `json:"qty"`
}

// CreateIntakeRequest represents the request body for recording an intake
type CreateIntakeRequest struct {
	Name    string          `json:"name"`
	Mobile  string          `json:"mobile"`
	Address string          `json:"address"`
	Items   []IntakeItemRow `json:"items"`
	Status  string          `json:"status"`
	Remarks string          `json:"remarks"`
}

// IntakeView is the API shape: the stored record plus its rendered summary.
type IntakeView struct {
	IntakeRecord
	ItemsSummary string `json:"itemsSummary"`
}

func NewIntakeView(r IntakeRecord) IntakeView {
	r.Status = r.DisplayStatus()
	return IntakeView{IntakeRecord: r, ItemsSummary: r.Items.Summary()}
}
