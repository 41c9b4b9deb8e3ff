package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for journal events.
//
// It MUST be append-only.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records store mutations.
// Callers treat journaling as best-effort: a failed append never undoes a mutation.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

func (s *Service) LogAdded(ctx context.Context, personID int, userName string) error {
	return s.Append(ctx, Event{
		Type:     EventTypePersonAdded,
		PersonID: personID,
		UserName: userName,
		Message:  "person added",
	})
}

func (s *Service) LogRemoved(ctx context.Context, personID int, userName string) error {
	return s.Append(ctx, Event{
		Type:     EventTypePersonRemoved,
		PersonID: personID,
		UserName: userName,
		Message:  "person removed",
	})
}

// LogSeeded records the initial load of n records from source.
func (s *Service) LogSeeded(ctx context.Context, source string, n int) error {
	msg := fmt.Sprintf("seeded %d records", n)
	if source != "" {
		msg += " from " + source
	}
	return s.Append(ctx, Event{Type: EventTypeSeeded, Message: msg})
}
