// Package ledger implements the requisition lifecycle: validated creation
// with frozen material costs, guarded claim/unclaim/complete/cancel
// transitions, and reporting over completed work. All state lives in the
// repositories; the ledger itself holds no mutable data.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/garnizeh/quartermaster/internal/catalog"
	"github.com/garnizeh/quartermaster/pkg/models"
	"github.com/garnizeh/quartermaster/pkg/repository"
)

const (
	minQuantity      = 1
	maxQuantity      = 99
	maxCharacterName = 50
)

var (
	ErrQuantityRange = errors.New("quantity must be between 1 and 99")
	ErrCharacterName = errors.New("character name must be between 1 and 50 characters")
	ErrEmptyField    = errors.New("category and item name are required")
	ErrUnknownSet    = errors.New("unknown set")
)

// Ledger coordinates validation, cost freezing and the guarded lifecycle
// mutations. Guard failures surface as (false, nil) or (nil, nil), never as
// errors; only storage faults are errors.
type Ledger struct {
	requests repository.RequestRepo
	settings repository.SettingsRepo
	profiles repository.ProfileRepo
	reports  repository.ReportRepo
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

func New(requests repository.RequestRepo, settings repository.SettingsRepo, profiles repository.ProfileRepo, reports repository.ReportRepo, cat *catalog.Catalog, logger *slog.Logger) (*Ledger, error) {
	if requests == nil {
		return nil, fmt.Errorf("request repo is required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings repo is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile repo is required")
	}
	if reports == nil {
		return nil, fmt.Errorf("report repo is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Ledger{
		requests: requests,
		settings: settings,
		profiles: profiles,
		reports:  reports,
		catalog:  cat,
		logger:   logger,
	}, nil
}

// CreateInput carries everything a new requisition needs. Requester identity
// comes from the caller, never from the payload.
type CreateInput struct {
	RequesterID   int64
	RequesterName string
	CharacterName string
	Category      string
	ItemName      string
	Quantity      int
}

// CreateSetInput orders every piece of a full set in one shot.
type CreateSetInput struct {
	RequesterID   int64
	RequesterName string
	CharacterName string
	SetName       string
}

// SetReceipt summarizes a full-set order: one request per piece, plus the
// combined frozen cost across all pieces.
type SetReceipt struct {
	SetName    string  `json:"set_name"`
	RequestIDs []int64 `json:"request_ids"`
	Pieces     int     `json:"pieces"`
	TotalCostA int64   `json:"total_cost_a"`
	TotalCostB int64   `json:"total_cost_b"`
}

func validCharacterName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 1 && n <= maxCharacterName
}

// Create validates the order, freezes its material costs at today's catalog
// prices, remembers the requester's character name and stores the request as
// pending. Items missing from the catalog are allowed and cost (0, 0).
func (l *Ledger) Create(ctx context.Context, in CreateInput) (*models.Request, error) {
	if in.Quantity < minQuantity || in.Quantity > maxQuantity {
		return nil, ErrQuantityRange
	}
	if !validCharacterName(in.CharacterName) {
		return nil, ErrCharacterName
	}
	if strings.TrimSpace(in.Category) == "" || strings.TrimSpace(in.ItemName) == "" {
		return nil, ErrEmptyField
	}

	unitA, unitB, _ := l.catalog.Cost(in.Category, in.ItemName)
	qty := int64(in.Quantity)

	if err := l.profiles.UpsertProfile(ctx, in.RequesterID, in.CharacterName); err != nil {
		return nil, fmt.Errorf("save character name: %w", err)
	}

	id, err := l.requests.CreateRequest(ctx, &models.Request{
		RequesterID:   in.RequesterID,
		RequesterName: in.RequesterName,
		CharacterName: in.CharacterName,
		Category:      in.Category,
		ItemName:      in.ItemName,
		Quantity:      in.Quantity,
		MaterialCostA: unitA * qty,
		MaterialCostB: unitB * qty,
		Status:        models.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return l.requests.GetRequest(ctx, id)
}

// CreateSet stores one pending request per piece of the named set, all in a
// single transaction.
func (l *Ledger) CreateSet(ctx context.Context, in CreateSetInput) (*SetReceipt, error) {
	if !validCharacterName(in.CharacterName) {
		return nil, ErrCharacterName
	}

	pieces := l.catalog.SetItems(in.SetName)
	if pieces == nil {
		return nil, ErrUnknownSet
	}

	if err := l.profiles.UpsertProfile(ctx, in.RequesterID, in.CharacterName); err != nil {
		return nil, fmt.Errorf("save character name: %w", err)
	}

	batch := make([]*models.Request, 0, len(pieces))
	var totalA, totalB int64
	for _, p := range pieces {
		unitA, unitB, _ := l.catalog.Cost(p.Category, p.ItemName)
		totalA += unitA
		totalB += unitB

		batch = append(batch, &models.Request{
			RequesterID:   in.RequesterID,
			RequesterName: in.RequesterName,
			CharacterName: in.CharacterName,
			Category:      p.Category,
			ItemName:      p.ItemName,
			Quantity:      1,
			MaterialCostA: unitA,
			MaterialCostB: unitB,
			Status:        models.StatusPending,
		})
	}

	ids, err := l.requests.CreateRequests(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("create set requests: %w", err)
	}

	l.logger.Info("full set requisition created", "set", in.SetName, "pieces", len(ids), "requester_id", in.RequesterID)

	return &SetReceipt{
		SetName:    in.SetName,
		RequestIDs: ids,
		Pieces:     len(ids),
		TotalCostA: totalA,
		TotalCostB: totalB,
	}, nil
}

// Get returns a request by id, nil when it does not exist.
func (l *Ledger) Get(ctx context.Context, id int64) (*models.Request, error) {
	return l.requests.GetRequest(ctx, id)
}

// ListForUser returns the caller's own pending and claimed requests, newest
// first.
func (l *Ledger) ListForUser(ctx context.Context, requesterID int64) ([]*models.Request, error) {
	return l.requests.ListUserRequests(ctx, requesterID)
}

// ListActive returns every pending and claimed request, oldest first.
func (l *Ledger) ListActive(ctx context.Context) ([]*models.Request, error) {
	return l.requests.ListActiveRequests(ctx)
}

// ListPending returns only unclaimed requests, oldest first.
func (l *Ledger) ListPending(ctx context.Context) ([]*models.Request, error) {
	return l.requests.ListPendingRequests(ctx)
}

// ListClaimedBy returns the crafter's open claims, most recent claim first.
func (l *Ledger) ListClaimedBy(ctx context.Context, crafterID int64) ([]*models.Request, error) {
	return l.requests.ListClaimedBy(ctx, crafterID)
}

// Cancel flips the caller's own pending request to cancelled. False means
// the guard failed: no such request, not the owner, or no longer pending.
func (l *Ledger) Cancel(ctx context.Context, id, requesterID int64) (bool, error) {
	return l.requests.CancelRequest(ctx, id, requesterID)
}

// Update rewrites item, quantity and the frozen costs of the caller's own
// pending request at current catalog prices. The saved character name is
// deliberately left alone here.
func (l *Ledger) Update(ctx context.Context, id, requesterID int64, category, itemName string, quantity int) (bool, error) {
	if quantity < minQuantity || quantity > maxQuantity {
		return false, ErrQuantityRange
	}
	if strings.TrimSpace(category) == "" || strings.TrimSpace(itemName) == "" {
		return false, ErrEmptyField
	}

	unitA, unitB, _ := l.catalog.Cost(category, itemName)
	qty := int64(quantity)

	return l.requests.UpdateRequest(ctx, id, requesterID, category, itemName, quantity, unitA*qty, unitB*qty)
}

// Claim assigns a pending request to a crafter. Exactly one concurrent
// caller wins; the rest see false.
func (l *Ledger) Claim(ctx context.Context, id, crafterID int64, crafterName string) (bool, error) {
	return l.requests.ClaimRequest(ctx, id, crafterID, crafterName)
}

// Unclaim releases a claim back to pending, clearing the crafter fields.
// Only the claim holder can release it.
func (l *Ledger) Unclaim(ctx context.Context, id, crafterID int64) (bool, error) {
	return l.requests.UnclaimRequest(ctx, id, crafterID)
}

// Complete finalizes a claimed request held by crafterID and returns the
// finalized row, nil when the guard failed.
func (l *Ledger) Complete(ctx context.Context, id, crafterID int64) (*models.Request, error) {
	return l.requests.CompleteRequest(ctx, id, crafterID)
}

// ClearPending cancels every pending request and reports how many.
func (l *Ledger) ClearPending(ctx context.Context) (int64, error) {
	return l.requests.ClearPendingRequests(ctx)
}

// Completed lists completed requests inside the half-open window
// [start, end); nil bounds are unbounded.
func (l *Ledger) Completed(ctx context.Context, start, end *int64) ([]*models.Request, error) {
	return l.reports.ListCompleted(ctx, start, end)
}

// RequesterTotals aggregates completed work per requester, busiest first.
func (l *Ledger) RequesterTotals(ctx context.Context, start, end *int64) ([]*models.RequesterTotals, error) {
	return l.reports.TotalsByRequester(ctx, start, end)
}

// CrafterTotals aggregates completed work per crafter, busiest first.
func (l *Ledger) CrafterTotals(ctx context.Context, start, end *int64) ([]*models.CrafterTotals, error) {
	return l.reports.TotalsByCrafter(ctx, start, end)
}

// ItemTotals aggregates completed work per catalog item, busiest first.
func (l *Ledger) ItemTotals(ctx context.Context, start, end *int64) ([]*models.ItemTotals, error) {
	return l.reports.TotalsByItem(ctx, start, end)
}

// MaterialTotals sums frozen material costs over completed work.
func (l *Ledger) MaterialTotals(ctx context.Context, start, end *int64) (*models.MaterialTotals, error) {
	return l.reports.MaterialTotals(ctx, start, end)
}

// Settings returns a community's configuration, nil when never configured.
func (l *Ledger) Settings(ctx context.Context, communityID int64) (*models.CommunitySettings, error) {
	return l.settings.CommunitySettings(ctx, communityID)
}

func (l *Ledger) SetCrafterRole(ctx context.Context, communityID, roleRef int64) error {
	return l.settings.SetCrafterRole(ctx, communityID, roleRef)
}

func (l *Ledger) SetAnnouncementChannel(ctx context.Context, communityID, channelRef int64) error {
	return l.settings.SetAnnouncementChannel(ctx, communityID, channelRef)
}

func (l *Ledger) SetQueueChannel(ctx context.Context, communityID, channelRef int64) error {
	return l.settings.SetQueueChannel(ctx, communityID, channelRef)
}

func (l *Ledger) SetQueueMessage(ctx context.Context, communityID, messageRef int64) error {
	return l.settings.SetQueueMessage(ctx, communityID, messageRef)
}

// Profile returns the saved character name for a user, nil when none was
// ever saved.
func (l *Ledger) Profile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	return l.profiles.GetProfile(ctx, userID)
}

// Catalog exposes the loaded catalog for browsing endpoints.
func (l *Ledger) Catalog() *catalog.Catalog {
	return l.catalog
}
