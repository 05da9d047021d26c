package services

import (
	"context"
	"log"

	"hgl-backend/internal/models"
	"hgl-backend/internal/repositories"
	"hgl-backend/internal/timeutil"
)

type IntakeService struct {
	Repo   *repositories.RecordRepository
	Events EventPublisher
	Clock  timeutil.Clock
}

func NewIntakeService(repo *repositories.RecordRepository, events EventPublisher) *IntakeService {
	return &IntakeService{
		Repo:   repo,
		Events: events,
		Clock:  timeutil.Now,
	}
}

// Create validates the intake form and appends the record.
func (s *IntakeService) Create(ctx context.Context, req *models.CreateIntakeRequest) (*models.IntakeRecord, error) {
	rec, err := AssembleIntake(req, s.Clock())
	if err != nil {
		return nil, err
	}

	if err := s.Repo.AppendIntake(ctx, rec); err != nil {
		log.Printf("[Intake] failed to save intake for %s: %v", rec.Name, err)
		return nil, err
	}

	publish(s.Events, models.EventIntakeCreated, models.NewIntakeView(rec))
	return &rec, nil
}
