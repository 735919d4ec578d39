package repository

import (
	"context"

	"github.com/garnizeh/quartermaster/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Lifecycle mutations (Cancel, Update, Claim, Unclaim, Complete) are guarded:
// the ownership/status check and the write happen in one conditional statement
// so concurrent callers race safely. A false/nil result means the guard did
// not hold (wrong owner, wrong status, or no such row), which is an expected
// outcome, not an error.

type RequestRepo interface {
	CreateRequest(ctx context.Context, req *models.Request) (int64, error)
	// CreateRequests inserts all rows in one transaction; either every request
	// is created or none is.
	CreateRequests(ctx context.Context, reqs []*models.Request) ([]int64, error)
	GetRequest(ctx context.Context, id int64) (*models.Request, error)
	// ListUserRequests returns the user's pending and claimed requests,
	// newest first.
	ListUserRequests(ctx context.Context, requesterID int64) ([]*models.Request, error)
	// ListActiveRequests returns all pending and claimed requests, oldest
	// first (queue order).
	ListActiveRequests(ctx context.Context) ([]*models.Request, error)
	ListPendingRequests(ctx context.Context) ([]*models.Request, error)
	ListClaimedBy(ctx context.Context, crafterID int64) ([]*models.Request, error)
	CancelRequest(ctx context.Context, id, requesterID int64) (bool, error)
	UpdateRequest(ctx context.Context, id, requesterID int64, category, itemName string, quantity int, costA, costB int64) (bool, error)
	ClaimRequest(ctx context.Context, id, crafterID int64, crafterName string) (bool, error)
	UnclaimRequest(ctx context.Context, id, crafterID int64) (bool, error)
	// CompleteRequest returns the finalized row on success, (nil, nil) when
	// the caller does not hold the claim.
	CompleteRequest(ctx context.Context, id, crafterID int64) (*models.Request, error)
	// ClearPendingRequests cancels every pending request and reports how many
	// rows changed.
	ClearPendingRequests(ctx context.Context) (int64, error)
}

type SettingsRepo interface {
	// CommunitySettings returns (nil, nil) for a community that was never
	// configured.
	CommunitySettings(ctx context.Context, communityID int64) (*models.CommunitySettings, error)
	SetCrafterRole(ctx context.Context, communityID, roleRef int64) error
	SetAnnouncementChannel(ctx context.Context, communityID, channelRef int64) error
	SetQueueChannel(ctx context.Context, communityID, channelRef int64) error
	// SetQueueMessage records the currently displayed queue message. It is a
	// no-op for communities without a settings row.
	SetQueueMessage(ctx context.Context, communityID, messageRef int64) error
}

type ProfileRepo interface {
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, userID int64, characterName string) error
}

type OperatorRepo interface {
	CreateOperator(ctx context.Context, op *models.Operator) (int64, error)
	GetOperatorByID(ctx context.Context, id int64) (*models.Operator, error)
	GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)
}

// ReportRepo serves read-only aggregates over completed requests. Window
// bounds are Unix milliseconds; start is inclusive, end exclusive, and a nil
// bound means unbounded on that side.
type ReportRepo interface {
	ListCompleted(ctx context.Context, start, end *int64) ([]*models.Request, error)
	TotalsByRequester(ctx context.Context, start, end *int64) ([]*models.RequesterTotals, error)
	TotalsByCrafter(ctx context.Context, start, end *int64) ([]*models.CrafterTotals, error)
	TotalsByItem(ctx context.Context, start, end *int64) ([]*models.ItemTotals, error)
	MaterialTotals(ctx context.Context, start, end *int64) (*models.MaterialTotals, error)
}
