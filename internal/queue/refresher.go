// Package queue maintains the externally displayed active-requests artifact:
// one message per community, replaced (never edited) after every mutation
// that can change the queue. Display faults are swallowed; only storage
// faults escape.
package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garnizeh/quartermaster/pkg/models"
)

// Board is the display surface the queue is posted to. Post returns the
// reference of the new message so the next refresh can remove it.
type Board interface {
	Post(ctx context.Context, channelRef int64, text string) (int64, error)
	Delete(ctx context.Context, channelRef, messageRef int64) error
}

// Ledger is the slice of the domain service the refresher reads from and
// writes the tracked message reference back through.
type Ledger interface {
	Settings(ctx context.Context, communityID int64) (*models.CommunitySettings, error)
	ListActive(ctx context.Context) ([]*models.Request, error)
	SetQueueMessage(ctx context.Context, communityID, messageRef int64) error
}

// Refresher replaces a community's queue artifact with a fresh rendering.
// Concurrent refreshes are not serialized; the last post wins as the
// recorded artifact.
type Refresher struct {
	ledger    Ledger
	board     Board
	materialA string
	materialB string
	logger    *slog.Logger
}

// New builds a refresher. A nil board turns Refresh into a no-op, which is
// how deployments without a display surface run.
func New(ledger Ledger, board Board, materialA, materialB string, logger *slog.Logger) (*Refresher, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Refresher{
		ledger:    ledger,
		board:     board,
		materialA: materialA,
		materialB: materialB,
		logger:    logger,
	}, nil
}

// Refresh replaces the community's queue message: delete the old one
// (best-effort), render the current active list, post, and persist the new
// message reference. Board faults are logged and swallowed so the mutation
// that triggered the refresh is never affected.
func (r *Refresher) Refresh(ctx context.Context, communityID int64) error {
	if r.board == nil {
		return nil
	}

	s, err := r.ledger.Settings(ctx, communityID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if s == nil || s.QueueChannelRef == nil {
		return nil
	}

	if s.QueueMessageRef != nil {
		if err := r.board.Delete(ctx, *s.QueueChannelRef, *s.QueueMessageRef); err != nil {
			r.logger.Warn("failed to delete old queue message", "community_id", communityID, "error", err)
		}
	}

	requests, err := r.ledger.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active: %w", err)
	}

	messageRef, err := r.board.Post(ctx, *s.QueueChannelRef, Render(requests, r.materialA, r.materialB))
	if err != nil {
		r.logger.Warn("failed to post queue message", "community_id", communityID, "error", err)
		return nil
	}

	if err := r.ledger.SetQueueMessage(ctx, communityID, messageRef); err != nil {
		return fmt.Errorf("save queue message ref: %w", err)
	}

	return nil
}
