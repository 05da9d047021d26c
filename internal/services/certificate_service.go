package services

import (
	"context"
	"errors"
	"log"

	"hgl-backend/internal/metrics"
	"hgl-backend/internal/models"
	"hgl-backend/internal/repositories"
	"hgl-backend/internal/timeutil"
)

type CertificateService struct {
	Repo     *repositories.RecordRepository
	Sequence *SequenceAllocator
	Lab      models.LabProfile
	Events   EventPublisher
	Clock    timeutil.Clock
}

func NewCertificateService(repo *repositories.RecordRepository, seq *SequenceAllocator, lab models.LabProfile, events EventPublisher) *CertificateService {
	return &CertificateService{
		Repo:     repo,
		Sequence: seq,
		Lab:      lab,
		Events:   events,
		Clock:    timeutil.Now,
	}
}

// NextJob previews the number the next certificate will get. A storage
// failure is reported through Degraded, not as an error.
func (s *CertificateService) NextJob(ctx context.Context) models.NextJob {
	n, err := s.Sequence.PeekNext(ctx)
	return models.NextJob{
		JobNo:     n,
		DisplayID: s.Lab.DisplayID(n),
		Degraded:  err != nil,
	}
}

// Issue validates the form, assigns the next job number and stores the
// certificate. The counter is committed only after the certificate itself
// has been written.
func (s *CertificateService) Issue(ctx context.Context, req *models.CreateCertificateRequest) (*models.CertificateView, error) {
	rec, err := AssembleCertificate(req, s.Clock())
	if err != nil {
		return nil, err
	}

	// Peek, append and commit run under the sequence lock so neither another
	// issue nor a clear or restore can land between them.
	err = s.Repo.WithSequence(func() error {
		jobNo, err := s.Sequence.PeekNext(ctx)
		switch {
		case errors.Is(err, ErrCounterUnavailable):
			log.Printf("[Certificate] counter unreadable, issuing job %d from stored jobs", jobNo)
		case err != nil:
			return err
		}
		rec.JobNo = jobNo

		if err := s.Repo.AppendCertificate(ctx, rec); err != nil {
			log.Printf("[Certificate] failed to save job %d: %v", jobNo, err)
			return err
		}

		if err := s.Sequence.Commit(ctx, jobNo); err != nil {
			// The stored certificate already carries jobNo and PeekNext skips
			// past it, so the number cannot be reissued.
			log.Printf("[Certificate] job %d saved but counter commit failed: %v", jobNo, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.CertificatesIssued.Inc()

	view := s.Lab.View(rec)
	publish(s.Events, models.EventCertificateIssued, view)
	return &view, nil
}

// IsValidation reports whether err rejected user input.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
