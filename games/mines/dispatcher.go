package mines

import (
	"context"
	"errors"
	"time"

	"bombsquad/models"
	"bombsquad/utils"

	"go.uber.org/zap"
)

// EventKind is the kind of player input a session accepts
type EventKind int

const (
	EventSelect EventKind = iota
	EventCashOut
)

// Event is one player input. Cell is only meaningful for EventSelect.
type Event struct {
	Kind EventKind
	Cell int
}

// Dispatcher delivers player input to a session and shows its progress
type Dispatcher interface {
	// AwaitEvent returns models.ErrTimedOut if nothing arrives within timeout
	AwaitEvent(ctx context.Context, timeout time.Duration) (Event, error)
	Render(ctx context.Context, snap Snapshot) error
}

// Inbox is a buffered event queue that transports push into without blocking
type Inbox struct {
	events chan Event
}

// NewInbox creates an inbox holding up to size pending events
func NewInbox(size int) *Inbox {
	return &Inbox{events: make(chan Event, size)}
}

// Push queues ev. Reports false if the inbox is full.
func (in *Inbox) Push(ev Event) bool {
	select {
	case in.events <- ev:
		return true
	default:
		return false
	}
}

// AwaitEvent waits for the next queued event
func (in *Inbox) AwaitEvent(ctx context.Context, timeout time.Duration) (Event, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev := <-in.events:
		return ev, nil
	case <-timer.C:
		return Event{}, models.ErrTimedOut
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Run drives s until it reaches a terminal state. Each wait is bounded by
// wait; a timeout or cancelled ctx ends the session as TimedOut. The final
// snapshot is always rendered. The returned error is a failed commit.
func Run(ctx context.Context, s *Session, d Dispatcher, wait time.Duration) (Snapshot, error) {
	log := utils.L().With(zap.String("session", s.ID), zap.Int64("player_id", s.PlayerID))

	if err := d.Render(ctx, s.Snapshot()); err != nil {
		log.Warn("initial render failed", zap.Error(err))
	}

	var commitErr error
	for !s.State().Terminal() {
		ev, err := d.AwaitEvent(ctx, wait)
		if err != nil {
			if !errors.Is(err, models.ErrTimedOut) && ctx.Err() == nil {
				log.Warn("event wait failed", zap.Error(err))
			}
			s.Expire()
			break
		}

		switch ev.Kind {
		case EventCashOut:
			err = s.CashOut(ctx)
		default:
			err = s.Select(ctx, ev.Cell)
		}

		snap := s.Snapshot()
		switch {
		case err == nil:
		case errors.Is(err, models.ErrAlreadyPicked), errors.Is(err, models.ErrInvalidCell):
			snap.Rejected = err
		case errors.Is(err, models.ErrSessionOver):
			continue
		default:
			// the session is terminal; only the write failed
			log.Error("commit failed", zap.Error(err))
			commitErr = err
		}

		if snap.State.Terminal() {
			break
		}
		if err := d.Render(ctx, snap); err != nil {
			log.Warn("render failed", zap.Error(err))
		}
	}

	final := s.Snapshot()
	if err := d.Render(context.WithoutCancel(ctx), final); err != nil {
		log.Warn("final render failed", zap.Error(err))
	}
	return final, commitErr
}
