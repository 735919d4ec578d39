package api

import (
	"net/http"

	"github.com/garnizeh/quartermaster/internal/ledger"
)

type ProfileHandler struct {
	ledger *ledger.Ledger
}

func NewProfileHandler(l *ledger.Ledger) *ProfileHandler {
	return &ProfileHandler{ledger: l}
}

// GetCharacter returns the character name remembered for a chat user, if any.
func (h *ProfileHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.ledger.Profile(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, profile, http.StatusOK)
}
