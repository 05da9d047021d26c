package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"hgl-backend/internal/kv"
	"hgl-backend/internal/models"
	"hgl-backend/internal/repositories"
	"hgl-backend/internal/timeutil"
)

var fixedNow = time.Date(2026, time.October, 16, 14, 5, 0, 0, timeutil.IST)

func fixedClock() time.Time { return fixedNow }

var testLab = models.LabProfile{
	Name:      "HINDUSTAN GEMOLOGICAL LABORATORY",
	ShortName: "HGL",
	Tagline:   "Accurate. Confidential. Integrity",
	JobPrefix: "HGL",
	VerifyURL: "https://hgl-labs.com/verify/",
	Website:   "www.hgl-labs.com",
	Email:     "info@hgl-labs.com",
	Phone:     "+91 44 48553527",
	City:      "Chennai, India",
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.RecordEvent
}

func (p *recordingPublisher) Publish(e models.RecordEvent) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

type fixture struct {
	mem    *kv.Memory
	repo   *repositories.RecordRepository
	seq    *SequenceAllocator
	events *recordingPublisher
	intake *IntakeService
	certs  *CertificateService
	recs   *RecordService
}

func newFixture() *fixture {
	mem := kv.NewMemory()
	repo := repositories.NewRecordRepository(mem)
	seq := NewSequenceAllocator(repo)
	events := &recordingPublisher{}

	f := &fixture{
		mem:    mem,
		repo:   repo,
		seq:    seq,
		events: events,
		intake: NewIntakeService(repo, events),
		certs:  NewCertificateService(repo, seq, testLab, events),
		recs:   NewRecordService(repo, seq, testLab, events),
	}
	f.intake.Clock = fixedClock
	f.certs.Clock = fixedClock
	f.recs.Clock = fixedClock
	return f
}

func ringRequest() *models.CreateCertificateRequest {
	return &models.CreateCertificateRequest{
		Item:   "Ring",
		Purity: string(models.Purity22K),
		Weight: "4.25",
	}
}

// counterUnreadableStore fails reads of the job counter only.
type counterUnreadableStore struct {
	*kv.Memory
}

func (s counterUnreadableStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == kv.JobCounterKey {
		return "", false, errors.New("io error")
	}
	return s.Memory.Get(ctx, key)
}

// setHookStore calls afterSet once each successful write has landed.
type setHookStore struct {
	*kv.Memory
	afterSet func(key string)
}

func (s *setHookStore) Set(ctx context.Context, key, value string) error {
	if err := s.Memory.Set(ctx, key, value); err != nil {
		return err
	}
	if s.afterSet != nil {
		s.afterSet(key)
	}
	return nil
}
