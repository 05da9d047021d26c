package models

import (
	"fmt"
	"strconv"
)

// JobID renders the certificate identifier: prefix plus the job number
// zero-padded to five digits. Longer numbers are never truncated.
func JobID(prefix string, jobNo int) string {
	return fmt.Sprintf("%s%05d", prefix, jobNo)
}

// VerifyPayload is the text encoded in the certificate QR code: the verify
// URL followed by the raw job number.
func VerifyPayload(baseURL string, jobNo int) string {
	return baseURL + strconv.Itoa(jobNo)
}

// CertificateRecord is one issued hallmark card.
type CertificateRecord struct {
	JobNo  int    `json:"jobNo"`
	Date   string `json:"date"`
	Item   string `json:"item"`
	Karat  string `json:"karat"`
	Weight string `json:"weight"`
	Pieces string `json:"pieces"`
	Type   string `json:"type"`
	Desc   string `json:"desc"`
	Status string `json:"status,omitempty"`
}

// DisplayStatus falls back to Issued for records written without one.
func (c CertificateRecord) DisplayStatus() string {
	if c.Status == "" {
		return CertificateStatusIssued
	}
	return c.Status
}

// CreateCertificateRequest represents the request body for issuing a certificate
type CreateCertificateRequest struct {
	Item        string    `json:"item"`
	CustomItem  string    `json:"customItem"`
	Purity      string    `json:"purity"`
	Weight      FieldText `json:"weight"`
	Pieces      FieldText `json:"pieces"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
}

// CertificateView is the API shape of a stored certificate.
type CertificateView struct {
	CertificateRecord
	DisplayID string `json:"displayId"`
	QRPayload string `json:"qrPayload"`
}

// NextJob previews the number the next certificate will receive. It is not
// a reservation.
type NextJob struct {
	JobNo     int    `json:"jobNo"`
	DisplayID string `json:"displayId"`
	Degraded  bool   `json:"degraded"`
}
