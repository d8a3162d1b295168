package mailcheck

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterHTTP registers the email validation endpoints on a chi router.
//
//	POST /validate-email        — full four-check report
//	POST /validate-email-simple — format check only
func (v *Validator) RegisterHTTP(r chi.Router) {
	r.Post("/validate-email", v.handleValidate)
	r.Post("/validate-email-simple", v.handleValidateSimple)
}

type validateRequest struct {
	Email *string `json:"email"`
}

func (v *Validator) handleValidate(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email cannot be empty")
		return
	}
	writeJSON(w, http.StatusOK, v.Validate(r.Context(), email))
}

func (v *Validator) handleValidateSimple(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}

	valid := v.CheckFormat(email)
	message := "Invalid email format"
	if valid {
		message = "Valid email format"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"email":   email,
		"valid":   valid,
		"message": message,
	})
}

// decodeEmail reads the request body and returns the trimmed address.
// A missing body or missing email field is rejected with 400.
func decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == nil {
		writeError(w, http.StatusBadRequest, "Email is required")
		return "", false
	}
	return strings.TrimSpace(*req.Email), true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg, "success": false})
}
