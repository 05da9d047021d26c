package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"hgl-backend/internal/kv"
	"hgl-backend/internal/metrics"
	"hgl-backend/internal/models"
)

// ErrStorage wraps every substrate failure surfaced by RecordRepository.
var ErrStorage = errors.New("storage unavailable")

// ErrCorrupt marks a stored collection that no longer decodes. It is always
// reported together with ErrStorage.
var ErrCorrupt = errors.New("stored collection is corrupt")

// ReadStatus describes how a list was obtained. A degraded read returned an
// empty list because the stored value could not be read or decoded.
type ReadStatus struct {
	Degraded bool
	Cause    error
}

// RecordRepository keeps the intake and certificate collections as JSON
// arrays under fixed keys, and the job counter as a decimal string.
type RecordRepository struct {
	Store kv.Store

	// seqMu covers the counter together with the certificate collection.
	// Lock order is seqMu, intakeMu, certMu.
	seqMu sync.Mutex

	// one lock per key; appends are read-modify-write cycles
	intakeMu sync.Mutex
	certMu   sync.Mutex
}

func NewRecordRepository(store kv.Store) *RecordRepository {
	return &RecordRepository{Store: store}
}

func (r *RecordRepository) AppendIntake(ctx context.Context, rec models.IntakeRecord) error {
	r.intakeMu.Lock()
	defer r.intakeMu.Unlock()

	var list []models.IntakeRecord
	if err := r.load(ctx, kv.IntakeKey, &list); err != nil {
		return err
	}
	list = append(list, rec)
	if err := r.save(ctx, kv.IntakeKey, list); err != nil {
		return err
	}
	metrics.RecordsAppended.WithLabelValues("intake").Inc()
	return nil
}

func (r *RecordRepository) AppendCertificate(ctx context.Context, rec models.CertificateRecord) error {
	r.certMu.Lock()
	defer r.certMu.Unlock()

	var list []models.CertificateRecord
	if err := r.load(ctx, kv.CertificateKey, &list); err != nil {
		return err
	}
	list = append(list, rec)
	if err := r.save(ctx, kv.CertificateKey, list); err != nil {
		return err
	}
	metrics.RecordsAppended.WithLabelValues("certificates").Inc()
	return nil
}

// ListIntake returns every intake record, oldest first. It never fails: an
// unreadable collection yields an empty list and a degraded status.
func (r *RecordRepository) ListIntake(ctx context.Context) ([]models.IntakeRecord, ReadStatus) {
	var list []models.IntakeRecord
	if err := r.load(ctx, kv.IntakeKey, &list); err != nil {
		return []models.IntakeRecord{}, degraded("intake", err)
	}
	if list == nil {
		list = []models.IntakeRecord{}
	}
	return list, ReadStatus{}
}

// ListCertificates returns every certificate, oldest first, with the same
// degradation rules as ListIntake.
func (r *RecordRepository) ListCertificates(ctx context.Context) ([]models.CertificateRecord, ReadStatus) {
	var list []models.CertificateRecord
	if err := r.load(ctx, kv.CertificateKey, &list); err != nil {
		return []models.CertificateRecord{}, degraded("certificates", err)
	}
	if list == nil {
		list = []models.CertificateRecord{}
	}
	return list, ReadStatus{}
}

// HighestJobNo returns the largest job number among stored certificates, or
// 0 when there are none.
func (r *RecordRepository) HighestJobNo(ctx context.Context) (int, error) {
	var list []models.CertificateRecord
	if err := r.load(ctx, kv.CertificateKey, &list); err != nil {
		return 0, err
	}
	highest := 0
	for _, c := range list {
		if c.JobNo > highest {
			highest = c.JobNo
		}
	}
	return highest, nil
}

// WithSequence runs fn holding the sequence lock. ClearAll, Snapshot and
// Replace take the same lock, so a certificate append and its counter
// commit made inside fn are never split by a wipe or restore. fn must not
// call those three methods.
func (r *RecordRepository) WithSequence(fn func() error) error {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()
	return fn()
}

// ClearAll removes both collections and the job counter in one operation.
func (r *RecordRepository) ClearAll(ctx context.Context) error {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()
	r.intakeMu.Lock()
	defer r.intakeMu.Unlock()
	r.certMu.Lock()
	defer r.certMu.Unlock()

	if err := r.Store.RemoveMany(ctx, kv.AllKeys...); err != nil {
		metrics.StorageErrors.WithLabelValues("remove").Inc()
		return fmt.Errorf("%w: clear records: %v", ErrStorage, err)
	}
	return nil
}

// ReadCounter returns the stored job counter text. found is false when the
// key is absent.
func (r *RecordRepository) ReadCounter(ctx context.Context) (string, bool, error) {
	v, found, err := r.Store.Get(ctx, kv.JobCounterKey)
	if err != nil {
		metrics.StorageErrors.WithLabelValues("get").Inc()
		return "", false, fmt.Errorf("%w: read %s: %v", ErrStorage, kv.JobCounterKey, err)
	}
	return v, found, nil
}

func (r *RecordRepository) WriteCounter(ctx context.Context, value string) error {
	if err := r.Store.Set(ctx, kv.JobCounterKey, value); err != nil {
		metrics.StorageErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("%w: write %s: %v", ErrStorage, kv.JobCounterKey, err)
	}
	return nil
}

// load decodes the JSON array under key into dst. An absent key leaves dst
// untouched.
func (r *RecordRepository) load(ctx context.Context, key string, dst any) error {
	raw, found, err := r.Store.Get(ctx, key)
	if err != nil {
		metrics.StorageErrors.WithLabelValues("get").Inc()
		return fmt.Errorf("%w: read %s: %v", ErrStorage, key, err)
	}
	if !found || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%w: %w: %s: %v", ErrStorage, ErrCorrupt, key, err)
	}
	return nil
}

func (r *RecordRepository) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.Store.Set(ctx, key, string(data)); err != nil {
		metrics.StorageErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("%w: write %s: %v", ErrStorage, key, err)
	}
	return nil
}

func degraded(collection string, cause error) ReadStatus {
	log.Printf("[Storage] %s read degraded, returning empty list: %v", collection, cause)
	metrics.DegradedReads.WithLabelValues(collection).Inc()
	return ReadStatus{Degraded: true, Cause: cause}
}

// Snapshot returns the raw stored value of every key that is present.
func (r *RecordRepository) Snapshot(ctx context.Context) (map[string]string, error) {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()
	r.intakeMu.Lock()
	defer r.intakeMu.Unlock()
	r.certMu.Lock()
	defer r.certMu.Unlock()

	out := make(map[string]string, len(kv.AllKeys))
	for _, k := range kv.AllKeys {
		v, found, err := r.Store.Get(ctx, k)
		if err != nil {
			metrics.StorageErrors.WithLabelValues("get").Inc()
			return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, k, err)
		}
		if found {
			out[k] = v
		}
	}
	return out, nil
}

// Replace makes the stored keys match values: present keys are written,
// missing keys removed. On failure the previous contents are put back, so a
// failed restore leaves the live data as it was.
func (r *RecordRepository) Replace(ctx context.Context, values map[string]string) error {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()
	r.intakeMu.Lock()
	defer r.intakeMu.Unlock()
	r.certMu.Lock()
	defer r.certMu.Unlock()

	prev := make(map[string]string, len(kv.AllKeys))
	for _, k := range kv.AllKeys {
		v, found, err := r.Store.Get(ctx, k)
		if err != nil {
			metrics.StorageErrors.WithLabelValues("get").Inc()
			return fmt.Errorf("%w: read %s: %v", ErrStorage, k, err)
		}
		if found {
			prev[k] = v
		}
	}

	var written, missing []string
	for _, k := range kv.AllKeys {
		v, ok := values[k]
		if !ok {
			missing = append(missing, k)
			continue
		}
		if err := r.Store.Set(ctx, k, v); err != nil {
			metrics.StorageErrors.WithLabelValues("set").Inc()
			r.rollback(ctx, prev, written)
			return fmt.Errorf("%w: write %s: %v", ErrStorage, k, err)
		}
		written = append(written, k)
	}

	if len(missing) > 0 {
		if err := r.Store.RemoveMany(ctx, missing...); err != nil {
			metrics.StorageErrors.WithLabelValues("remove").Inc()
			r.rollback(ctx, prev, written)
			return fmt.Errorf("%w: clear records: %v", ErrStorage, err)
		}
	}
	return nil
}

// rollback restores the keys already overwritten by Replace.
func (r *RecordRepository) rollback(ctx context.Context, prev map[string]string, written []string) {
	var absent []string
	for _, k := range written {
		v, ok := prev[k]
		if !ok {
			absent = append(absent, k)
			continue
		}
		if err := r.Store.Set(ctx, k, v); err != nil {
			log.Printf("[Storage] rollback of %s failed: %v", k, err)
		}
	}
	if len(absent) > 0 {
		if err := r.Store.RemoveMany(ctx, absent...); err != nil {
			log.Printf("[Storage] rollback removal of %v failed: %v", absent, err)
		}
	}
}
