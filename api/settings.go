package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/garnizeh/quartermaster/internal/ledger"
	"github.com/garnizeh/quartermaster/internal/queue"
)

type SettingsHandler struct {
	ledger    *ledger.Ledger
	refresher *queue.Refresher
}

func NewSettingsHandler(l *ledger.Ledger, refresher *queue.Refresher) *SettingsHandler {
	return &SettingsHandler{ledger: l, refresher: refresher}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	communityID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	settings, err := h.ledger.Settings(r.Context(), communityID)
	if err != nil {
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	if settings == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, settings, http.StatusOK)
}

type roleRefBody struct {
	RoleRef int64 `json:"role_ref"`
}

func (h *SettingsHandler) PutCrafterRole(w http.ResponseWriter, r *http.Request) {
	communityID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req roleRefBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.RoleRef <= 0 {
		http.Error(w, "role_ref is required", http.StatusBadRequest)
		return
	}

	if err := h.ledger.SetCrafterRole(r.Context(), communityID, req.RoleRef); err != nil {
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type channelRefBody struct {
	ChannelRef int64 `json:"channel_ref"`
}

func (h *SettingsHandler) PutAnnouncementChannel(w http.ResponseWriter, r *http.Request) {
	communityID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req channelRefBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ChannelRef <= 0 {
		http.Error(w, "channel_ref is required", http.StatusBadRequest)
		return
	}

	if err := h.ledger.SetAnnouncementChannel(r.Context(), communityID, req.ChannelRef); err != nil {
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PutQueueChannel points the community at a new queue channel and immediately
// posts the board there so the channel is never configured but empty.
func (h *SettingsHandler) PutQueueChannel(w http.ResponseWriter, r *http.Request) {
	communityID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req channelRefBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ChannelRef <= 0 {
		http.Error(w, "channel_ref is required", http.StatusBadRequest)
		return
	}

	if err := h.ledger.SetQueueChannel(r.Context(), communityID, req.ChannelRef); err != nil {
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)

	if h.refresher != nil {
		if err := h.refresher.Refresh(r.Context(), communityID); err != nil {
			logger.Error("queue refresh failed", slog.Int64("community_id", communityID), slog.Any("err", err))
		}
	}
}
