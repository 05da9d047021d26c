package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"hgl-backend/internal/metrics"
	"hgl-backend/internal/repositories"
)

// SequenceAllocator hands out certificate job numbers from the persisted
// counter.
type SequenceAllocator struct {
	Repo *repositories.RecordRepository
}

func NewSequenceAllocator(repo *repositories.RecordRepository) *SequenceAllocator {
	return &SequenceAllocator{Repo: repo}
}

// ErrCounterUnavailable marks a PeekNext result computed without the stored
// counter. The number is still safe to issue: it comes from the highest
// stored job.
var ErrCounterUnavailable = errors.New("job counter unreadable")

// PeekNext returns the number the next certificate should receive without
// reserving it.
//
// The result is one past the larger of the stored counter and the highest
// stored job number, so a certificate appended without a matching commit
// can never be handed out twice. Read failures never block the caller: an
// unreadable counter counts as 0 and is reported as ErrCounterUnavailable,
// an unreadable certificate collection is reported as its storage error.
func (a *SequenceAllocator) PeekNext(ctx context.Context) (int, error) {
	counter := 0
	raw, found, counterErr := a.Repo.ReadCounter(ctx)
	switch {
	case counterErr != nil:
		log.Printf("[Sequence] counter unreadable, using stored jobs only: %v", counterErr)
		counterErr = fmt.Errorf("%w: %w", ErrCounterUnavailable, counterErr)
	case found:
		n, perr := strconv.Atoi(strings.TrimSpace(raw))
		if perr != nil || n < 0 {
			log.Printf("[Sequence] ignoring unparseable counter %q", raw)
		} else {
			counter = n
		}
	}

	highest, err := a.Repo.HighestJobNo(ctx)
	if err != nil {
		log.Printf("[Sequence] certificates unreadable, using counter only: %v", err)
		return counter + 1, err
	}
	if highest > counter {
		if counterErr == nil {
			log.Printf("[Sequence] counter %d behind stored job %d, skipping ahead", counter, highest)
		}
		counter = highest
	}
	return counter + 1, counterErr
}

// Commit records n as the last issued job number.
func (a *SequenceAllocator) Commit(ctx context.Context, n int) error {
	if err := a.Repo.WriteCounter(ctx, strconv.Itoa(n)); err != nil {
		return err
	}
	metrics.LastJobNumber.Set(float64(n))
	return nil
}
