package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"hgl-backend/internal/metrics"
	"hgl-backend/internal/r2"
	"hgl-backend/internal/repositories"
	"hgl-backend/internal/timeutil"
)

// ErrBackupDisabled is returned when no bucket is configured.
var ErrBackupDisabled = errors.New("backups are not configured")

// Bucket is the object storage the snapshots are kept in. *r2.Client
// implements it.
type Bucket interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]r2.Object, error)
}

// Snapshot is a point-in-time copy of the raw store keys.
type Snapshot struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"createdAt"`
	Keys      map[string]string `json:"keys"`
}

const snapshotVersion = 1

type BackupService struct {
	Repo   *repositories.RecordRepository
	Bucket Bucket
	Prefix string
	Clock  timeutil.Clock

	mu     sync.Mutex
	ticker *time.Ticker
	stop   chan struct{}
}

// NewBackupService creates a backup service. bucket may be nil, in which
// case uploads report ErrBackupDisabled.
func NewBackupService(repo *repositories.RecordRepository, bucket Bucket, prefix string) *BackupService {
	return &BackupService{
		Repo:   repo,
		Bucket: bucket,
		Prefix: prefix,
		Clock:  timeutil.Now,
	}
}

func (s *BackupService) Snapshot(ctx context.Context) (*Snapshot, error) {
	keys, err := s.Repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Version: snapshotVersion, CreatedAt: s.Clock(), Keys: keys}, nil
}

// Upload stores a fresh snapshot and returns its object key.
func (s *BackupService) Upload(ctx context.Context) (string, error) {
	if s.Bucket == nil {
		return "", ErrBackupDisabled
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		metrics.BackupsUploaded.WithLabelValues("error").Inc()
		return "", err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%shgl_%s.json", s.Prefix, timeutil.FileStamp(snap.CreatedAt))
	if err := s.Bucket.Put(ctx, key, data, "application/json"); err != nil {
		metrics.BackupsUploaded.WithLabelValues("error").Inc()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	metrics.BackupsUploaded.WithLabelValues("ok").Inc()
	log.Printf("[Backup] Success: %s (%d bytes)", key, len(data))
	return key, nil
}

func (s *BackupService) List(ctx context.Context) ([]r2.Object, error) {
	if s.Bucket == nil {
		return nil, ErrBackupDisabled
	}
	return s.Bucket.List(ctx, s.Prefix)
}

// Restore replaces the store contents with the snapshot at key. An empty
// key restores the most recent snapshot.
func (s *BackupService) Restore(ctx context.Context, key string) (*Snapshot, error) {
	if s.Bucket == nil {
		return nil, ErrBackupDisabled
	}

	if key == "" {
		objects, err := s.Bucket.List(ctx, s.Prefix)
		if err != nil {
			return nil, err
		}
		if len(objects) == 0 {
			return nil, fmt.Errorf("%w: no backups found", ErrNotFound)
		}
		key = objects[0].Key
	} else if !strings.HasPrefix(key, s.Prefix) {
		return nil, invalid("key", "not a backup key")
	}

	data, err := s.Bucket.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, invalid("key", "backup is not a valid snapshot")
	}
	if snap.Version != snapshotVersion {
		return nil, invalid("key", fmt.Sprintf("unsupported snapshot version %d", snap.Version))
	}

	if err := s.Repo.Replace(ctx, snap.Keys); err != nil {
		return nil, err
	}
	log.Printf("[Backup] Restored %s (taken %s)", key, snap.CreatedAt.Format(time.RFC3339))
	return &snap, nil
}

// StartScheduler uploads a snapshot immediately and then every interval.
// Calling it while running is a no-op.
func (s *BackupService) StartScheduler(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil || s.Bucket == nil || interval <= 0 {
		return
	}

	s.ticker = time.NewTicker(interval)
	s.stop = make(chan struct{})
	ticker, stop := s.ticker, s.stop

	go func() {
		s.runOnce()
		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-stop:
				log.Println("[Backup] Scheduler stopped")
				return
			}
		}
	}()

	log.Printf("[Backup] Scheduler started (interval: %v)", interval)
}

func (s *BackupService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.ticker = nil
	}
}

func (s *BackupService) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.Upload(ctx); err != nil {
		log.Printf("[Backup] Scheduled upload failed: %v", err)
	}
}
