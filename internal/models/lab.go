package models

// LabProfile carries the letterhead and numbering settings of the lab.
type LabProfile struct {
	Name      string
	ShortName string
	Tagline   string
	JobPrefix string
	VerifyURL string
	Website   string
	Email     string
	Phone     string
	City      string
}

// DisplayID formats jobNo with the lab's prefix.
func (p LabProfile) DisplayID(jobNo int) string {
	return JobID(p.JobPrefix, jobNo)
}

func (p LabProfile) View(c CertificateRecord) CertificateView {
	c.Status = c.DisplayStatus()
	return CertificateView{
		CertificateRecord: c,
		DisplayID:         p.DisplayID(c.JobNo),
		QRPayload:         VerifyPayload(p.VerifyURL, c.JobNo),
	}
}

// ContactLine is the footer printed on every document.
func (p LabProfile) ContactLine() string {
	return p.Website + " | " + p.Email + " | " + p.Phone
}
