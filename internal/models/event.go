package models

import "time"

const (
	EventIntakeCreated     = "intake.created"
	EventCertificateIssued = "certificate.issued"
	EventRecordsCleared    = "records.cleared"
)

// RecordEvent is pushed to live feed subscribers whenever the store changes.
type RecordEvent struct {
	Type   string    `json:"type"`
	Record any       `json:"record,omitempty"`
	At     time.Time `json:"at"`
}
