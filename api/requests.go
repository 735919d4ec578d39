package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/garnizeh/quartermaster/internal/ledger"
	"github.com/garnizeh/quartermaster/internal/queue"
	"github.com/garnizeh/quartermaster/pkg/models"
	"github.com/gorilla/mux"
)

// Announcer posts one-shot notifications to a community channel.
type Announcer interface {
	Announce(ctx context.Context, channelRef int64, text string) error
}

type RequestsHandler struct {
	ledger    *ledger.Ledger
	refresher *queue.Refresher
	announcer Announcer
}

// NewRequestsHandler wires the requisition endpoints. refresher and announcer
// may be nil when no display surface is configured.
func NewRequestsHandler(l *ledger.Ledger, refresher *queue.Refresher, announcer Announcer) *RequestsHandler {
	return &RequestsHandler{ledger: l, refresher: refresher, announcer: announcer}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}

	return id, nil
}

func isValidationErr(err error) bool {
	return errors.Is(err, ledger.ErrQuantityRange) ||
		errors.Is(err, ledger.ErrCharacterName) ||
		errors.Is(err, ledger.ErrEmptyField) ||
		errors.Is(err, ledger.ErrUnknownSet)
}

// notify runs the display side-effects of a mutation: an optional
// announcement, then a queue refresh. Both are best-effort; the mutation has
// already committed and failures here only get logged.
func (h *RequestsHandler) notify(ctx context.Context, communityID int64, announcement string) {
	if communityID <= 0 {
		return
	}

	if announcement != "" && h.announcer != nil {
		s, err := h.ledger.Settings(ctx, communityID)
		if err != nil {
			logger.Error("load settings for announcement", slog.Any("err", err))
		} else if s != nil && s.AnnouncementChannelRef != nil {
			if err := h.announcer.Announce(ctx, *s.AnnouncementChannelRef, announcement); err != nil {
				logger.Error("announcement failed", slog.Int64("community_id", communityID), slog.Any("err", err))
			}
		}
	}

	if h.refresher != nil {
		if err := h.refresher.Refresh(ctx, communityID); err != nil {
			logger.Error("queue refresh failed", slog.Int64("community_id", communityID), slog.Any("err", err))
		}
	}
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}

	return *v
}

type createRequestBody struct {
	RequesterID   int64  `json:"requester_id"`
	RequesterName string `json:"requester_name"`
	CharacterName string `json:"character_name"`
	Category      string `json:"category"`
	ItemName      string `json:"item_name"`
	Quantity      int    `json:"quantity"`
	CommunityID   *int64 `json:"community_id,omitempty"`
}

func (h *RequestsHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.RequesterName = strings.TrimSpace(req.RequesterName)
	if req.RequesterID <= 0 || req.RequesterName == "" {
		http.Error(w, "requester_id and requester_name are required", http.StatusBadRequest)
		return
	}

	created, err := h.ledger.Create(r.Context(), ledger.CreateInput{
		RequesterID:   req.RequesterID,
		RequesterName: req.RequesterName,
		CharacterName: req.CharacterName,
		Category:      req.Category,
		ItemName:      req.ItemName,
		Quantity:      req.Quantity,
	})
	if err != nil {
		if isValidationErr(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to create request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created, http.StatusCreated)

	labelA, labelB := h.ledger.Catalog().Materials()
	h.notify(r.Context(), deref(req.CommunityID),
		fmt.Sprintf("New requisition #%d: %s x%d for %s (%d %s, %d %s)",
			created.ID, created.ItemName, created.Quantity, created.CharacterName,
			created.MaterialCostA, labelA, created.MaterialCostB, labelB))
}

type createSetBody struct {
	RequesterID   int64  `json:"requester_id"`
	RequesterName string `json:"requester_name"`
	CharacterName string `json:"character_name"`
	SetName       string `json:"set_name"`
	CommunityID   *int64 `json:"community_id,omitempty"`
}

func (h *RequestsHandler) CreateSet(w http.ResponseWriter, r *http.Request) {
	var req createSetBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.RequesterName = strings.TrimSpace(req.RequesterName)
	if req.RequesterID <= 0 || req.RequesterName == "" {
		http.Error(w, "requester_id and requester_name are required", http.StatusBadRequest)
		return
	}

	receipt, err := h.ledger.CreateSet(r.Context(), ledger.CreateSetInput{
		RequesterID:   req.RequesterID,
		RequesterName: req.RequesterName,
		CharacterName: req.CharacterName,
		SetName:       req.SetName,
	})
	if err != nil {
		if isValidationErr(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to create set requests", http.StatusInternalServerError)
		return
	}

	writeJSON(w, receipt, http.StatusCreated)

	labelA, labelB := h.ledger.Catalog().Materials()
	h.notify(r.Context(), deref(req.CommunityID),
		fmt.Sprintf("New full set requisition: %s (%d pieces) for %s (%d %s, %d %s)",
			receipt.SetName, receipt.Pieces, req.CharacterName,
			receipt.TotalCostA, labelA, receipt.TotalCostB, labelB))
}

func (h *RequestsHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load request", http.StatusInternalServerError)
		return
	}
	if req == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, req, http.StatusOK)
}

func (h *RequestsHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	var items []*models.Request
	var err error

	switch {
	case q.Get("requester_id") != "":
		var requesterID int64
		requesterID, err = strconv.ParseInt(q.Get("requester_id"), 10, 64)
		if err != nil || requesterID <= 0 {
			http.Error(w, "invalid requester_id", http.StatusBadRequest)
			return
		}
		items, err = h.ledger.ListForUser(ctx, requesterID)
	case q.Get("crafter_id") != "":
		var crafterID int64
		crafterID, err = strconv.ParseInt(q.Get("crafter_id"), 10, 64)
		if err != nil || crafterID <= 0 {
			http.Error(w, "invalid crafter_id", http.StatusBadRequest)
			return
		}
		items, err = h.ledger.ListClaimedBy(ctx, crafterID)
	case q.Get("view") == "active":
		items, err = h.ledger.ListActive(ctx)
	case q.Get("view") == "pending":
		items, err = h.ledger.ListPending(ctx)
	default:
		http.Error(w, "requester_id, crafter_id or view=active|pending required", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "failed to list requests", http.StatusInternalServerError)
		return
	}

	if items == nil {
		items = []*models.Request{}
	}

	writeJSON(w, map[string]any{"count": len(items), "items": items}, http.StatusOK)
}

type claimBody struct {
	CrafterID   int64  `json:"crafter_id"`
	CrafterName string `json:"crafter_name"`
	CommunityID *int64 `json:"community_id,omitempty"`
}

func (h *RequestsHandler) ClaimRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req claimBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.CrafterName = strings.TrimSpace(req.CrafterName)
	if req.CrafterID <= 0 || req.CrafterName == "" {
		http.Error(w, "crafter_id and crafter_name are required", http.StatusBadRequest)
		return
	}

	ok, err := h.ledger.Claim(r.Context(), id, req.CrafterID, req.CrafterName)
	if err != nil {
		http.Error(w, "failed to claim request", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "request not available for claiming", http.StatusConflict)
		return
	}

	claimed, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, claimed, http.StatusOK)
	h.notify(r.Context(), deref(req.CommunityID), "")
}

type crafterBody struct {
	CrafterID   int64  `json:"crafter_id"`
	CommunityID *int64 `json:"community_id,omitempty"`
}

func (h *RequestsHandler) UnclaimRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req crafterBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.CrafterID <= 0 {
		http.Error(w, "crafter_id is required", http.StatusBadRequest)
		return
	}

	ok, err := h.ledger.Unclaim(r.Context(), id, req.CrafterID)
	if err != nil {
		http.Error(w, "failed to unclaim request", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "request not held by this crafter", http.StatusConflict)
		return
	}

	released, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, released, http.StatusOK)
	h.notify(r.Context(), deref(req.CommunityID), "")
}

func (h *RequestsHandler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req crafterBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.CrafterID <= 0 {
		http.Error(w, "crafter_id is required", http.StatusBadRequest)
		return
	}

	done, err := h.ledger.Complete(r.Context(), id, req.CrafterID)
	if err != nil {
		http.Error(w, "failed to complete request", http.StatusInternalServerError)
		return
	}
	if done == nil {
		http.Error(w, "request not held by this crafter", http.StatusConflict)
		return
	}

	writeJSON(w, done, http.StatusOK)

	crafter := ""
	if done.CrafterName != nil {
		crafter = *done.CrafterName
	}
	h.notify(r.Context(), deref(req.CommunityID),
		fmt.Sprintf("Requisition #%d completed by %s: %s x%d for %s",
			done.ID, crafter, done.ItemName, done.Quantity, done.CharacterName))
}

type cancelBody struct {
	RequesterID int64  `json:"requester_id"`
	CommunityID *int64 `json:"community_id,omitempty"`
}

func (h *RequestsHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req cancelBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.RequesterID <= 0 {
		http.Error(w, "requester_id is required", http.StatusBadRequest)
		return
	}

	ok, err := h.ledger.Cancel(r.Context(), id, req.RequesterID)
	if err != nil {
		http.Error(w, "failed to cancel request", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "request not pending or not yours", http.StatusConflict)
		return
	}

	cancelled, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, cancelled, http.StatusOK)
	h.notify(r.Context(), deref(req.CommunityID), "")
}

type updateRequestBody struct {
	RequesterID int64  `json:"requester_id"`
	Category    string `json:"category"`
	ItemName    string `json:"item_name"`
	Quantity    int    `json:"quantity"`
	CommunityID *int64 `json:"community_id,omitempty"`
}

func (h *RequestsHandler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req updateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.RequesterID <= 0 {
		http.Error(w, "requester_id is required", http.StatusBadRequest)
		return
	}

	ok, err := h.ledger.Update(r.Context(), id, req.RequesterID, req.Category, req.ItemName, req.Quantity)
	if err != nil {
		if isValidationErr(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to update request", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "request not pending or not yours", http.StatusConflict)
		return
	}

	updated, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, updated, http.StatusOK)
	h.notify(r.Context(), deref(req.CommunityID), "")
}

// ClearPending cancels every pending request at once. Claimed work is left
// alone.
func (h *RequestsHandler) ClearPending(w http.ResponseWriter, r *http.Request) {
	n, err := h.ledger.ClearPending(r.Context())
	if err != nil {
		http.Error(w, "failed to clear pending requests", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"cleared": n}, http.StatusOK)

	if s := r.URL.Query().Get("community_id"); s != "" {
		if communityID, err := strconv.ParseInt(s, 10, 64); err == nil {
			h.notify(r.Context(), communityID, "")
		}
	}
}
