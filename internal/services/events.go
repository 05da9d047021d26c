package services

import (
	"hgl-backend/internal/models"
	"hgl-backend/internal/timeutil"
)

// EventPublisher receives store change notifications. The live record feed
// implements it.
type EventPublisher interface {
	Publish(event models.RecordEvent)
}

func publish(p EventPublisher, eventType string, record any) {
	if p == nil {
		return
	}
	p.Publish(models.RecordEvent{Type: eventType, Record: record, At: timeutil.Now()})
}
