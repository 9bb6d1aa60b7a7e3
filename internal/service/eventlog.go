package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smarthome_proxy/internal/logger"
	"smarthome_proxy/internal/models"
	"smarthome_proxy/internal/repository"
)

// ErrInvalidTimeRange is returned by List when From is after To.
var ErrInvalidTimeRange = errors.New("invalid time range: 'from' must not be after 'to'")

// normalized returns f with UTC bounds and an upper-case event type.
func (f LogFilter) normalized() (LogFilter, error) {
	out := LogFilter{Type: strings.ToUpper(strings.TrimSpace(f.Type))}
	if !f.From.IsZero() {
		out.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		out.To = f.To.UTC()
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}
	return out, nil
}

// EventLogService reads a session's command journal.
type EventLogService struct {
	events repository.EventRepo
}

func NewEventLogService(events repository.EventRepo) *EventLogService {
	return &EventLogService{events: events}
}

// List returns the session's journal, oldest first. Without a session nothing matches.
func (s *EventLogService) List(ctx context.Context, sessionID string, f LogFilter) ([]models.DeviceEvent, error) {
	if sessionID == "" {
		return []models.DeviceEvent{}, nil
	}
	f, err := f.normalized()
	if err != nil {
		return nil, err
	}
	events, err := s.events.List(ctx, sessionID, f.From, f.To, f.Type)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	if events == nil {
		events = []models.DeviceEvent{}
	}
	return events, nil
}

// journal appends events on behalf of the other services. Failures are logged, never returned.
type journal struct {
	repo repository.EventRepo
	log  *logger.Logger
}

func newJournal(repo repository.EventRepo, log *logger.Logger) *journal {
	return &journal{repo: repo, log: log}
}

func (j *journal) record(ctx context.Context, e models.DeviceEvent) {
	if j == nil || j.repo == nil {
		return
	}
	if err := j.repo.Append(ctx, e); err != nil {
		j.log.Errorw("journal_append_failed", "session", e.SessionID, "type", e.Type, "device", e.DeviceID, "err", err)
	}
}
