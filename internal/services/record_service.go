package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"hgl-backend/internal/models"
	"hgl-backend/internal/repositories"
	"hgl-backend/internal/timeutil"
)

// Kind selects one of the two record collections.
type Kind string

const (
	KindIntake       Kind = "intake"
	KindCertificates Kind = "certificates"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindIntake, KindCertificates:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: unknown collection %q", ErrNotFound, s)
}

type IntakePage struct {
	Records  []models.IntakeView `json:"records"`
	Total    int                 `json:"total"`
	Degraded bool                `json:"degraded"`
}

type CertificatePage struct {
	Records  []models.CertificateView `json:"records"`
	Total    int                      `json:"total"`
	Degraded bool                     `json:"degraded"`
}

type Dashboard struct {
	Today             string `json:"today"`
	TotalIntake       int    `json:"totalIntake"`
	TotalCertificates int    `json:"totalCertificates"`
	TodayIntake       int    `json:"todayIntake"`
	TodayCertificates int    `json:"todayCertificates"`
	NextJob           string `json:"nextJob"`
	Degraded          bool   `json:"degraded"`
}

type RecordService struct {
	Repo     *repositories.RecordRepository
	Sequence *SequenceAllocator
	Lab      models.LabProfile
	Events   EventPublisher
	Clock    timeutil.Clock
}

func NewRecordService(repo *repositories.RecordRepository, seq *SequenceAllocator, lab models.LabProfile, events EventPublisher) *RecordService {
	return &RecordService{
		Repo:     repo,
		Sequence: seq,
		Lab:      lab,
		Events:   events,
		Clock:    timeutil.Now,
	}
}

// BrowseIntake lists intake records newest first, filtered by query.
// Total counts the whole collection, not just the matches.
func (s *RecordService) BrowseIntake(ctx context.Context, query string) IntakePage {
	list, st := s.Repo.ListIntake(ctx)
	matched := FilterIntake(list, query)

	views := make([]models.IntakeView, 0, len(matched))
	for _, r := range matched {
		views = append(views, models.NewIntakeView(r))
	}
	return IntakePage{Records: views, Total: len(list), Degraded: st.Degraded}
}

// BrowseCertificates lists certificates newest first, filtered by query.
func (s *RecordService) BrowseCertificates(ctx context.Context, query string) CertificatePage {
	list, st := s.Repo.ListCertificates(ctx)
	matched := FilterCertificates(list, query)

	views := make([]models.CertificateView, 0, len(matched))
	for _, c := range matched {
		views = append(views, s.Lab.View(c))
	}
	return CertificatePage{Records: views, Total: len(list), Degraded: st.Degraded}
}

// FilterIntake returns the records matching query, newest first. Name and
// items match case-insensitively, mobile as a plain substring.
func FilterIntake(list []models.IntakeRecord, query string) []models.IntakeRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.IntakeRecord, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		r := list[i]
		if q == "" ||
			strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Items.Summary()), q) ||
			strings.Contains(r.Mobile, strings.TrimSpace(query)) {
			out = append(out, r)
		}
	}
	return out
}

// FilterCertificates returns the certificates matching query, newest first.
// The job number matches as a substring of its decimal form.
func FilterCertificates(list []models.CertificateRecord, query string) []models.CertificateRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.CertificateRecord, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		c := list[i]
		if q == "" ||
			strings.Contains(strconv.Itoa(c.JobNo), q) ||
			strings.Contains(strings.ToLower(c.Item), q) ||
			strings.Contains(strings.ToLower(c.Karat), q) {
			out = append(out, c)
		}
	}
	return out
}

func (s *RecordService) Dashboard(ctx context.Context) Dashboard {
	today := timeutil.DisplayDate(s.Clock())
	intake, ist := s.Repo.ListIntake(ctx)
	certs, cst := s.Repo.ListCertificates(ctx)
	next, err := s.Sequence.PeekNext(ctx)

	d := Dashboard{
		Today:             today,
		TotalIntake:       len(intake),
		TotalCertificates: len(certs),
		NextJob:           s.Lab.DisplayID(next),
		Degraded:          ist.Degraded || cst.Degraded || err != nil,
	}
	for _, r := range intake {
		if r.Date == today {
			d.TodayIntake++
		}
	}
	for _, c := range certs {
		if c.Date == today {
			d.TodayCertificates++
		}
	}
	return d
}

// FindCertificate looks up a certificate by job number for verification.
func (s *RecordService) FindCertificate(ctx context.Context, jobNo int) (*models.CertificateView, error) {
	list, st := s.Repo.ListCertificates(ctx)
	if st.Degraded {
		return nil, st.Cause
	}
	for _, c := range list {
		if c.JobNo == jobNo {
			view := s.Lab.View(c)
			return &view, nil
		}
	}
	return nil, fmt.Errorf("%w: job %d", ErrNotFound, jobNo)
}

// ClearAll wipes both collections and the job counter. Numbering restarts
// at 1 afterwards.
func (s *RecordService) ClearAll(ctx context.Context) error {
	if err := s.Repo.ClearAll(ctx); err != nil {
		log.Printf("[Records] clear all failed: %v", err)
		return err
	}
	log.Println("[Records] all records cleared")
	publish(s.Events, models.EventRecordsCleared, nil)
	return nil
}
