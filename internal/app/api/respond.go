package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"
	"github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/store"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainError maps the typed failure taxonomy onto HTTP. Conflicts and
// terminal rejections read as "please refresh and retry"; referential
// misses are data integrity problems for staff.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrAlreadyTerminal), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnknownOrder), errors.Is(err, domain.ErrUnknownRider),
		errors.Is(err, store.ErrProfileNotFound), errors.Is(err, store.ErrLocationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotAuthorized), errors.Is(err, domain.ErrNotAssigned):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store unavailable, retry later")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
