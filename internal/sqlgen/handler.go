package sqlgen

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

type generateRequest struct {
	Query string `json:"query"`
}

type generateResponse struct {
	SQL string `json:"sql"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Handler serves the SQL-generation endpoint.
type Handler struct {
	logger zerolog.Logger
}

func NewHandler(logger zerolog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts the endpoint on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/generate-sql", h.generateSQL)
}

func (h *Handler) generateSQL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	sql, err := Generate(req.Query)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: ve.Message})
			return
		}
		h.logger.Error().Err(err).Msg("sql generation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}

	h.logger.Debug().Str("query", req.Query).Msg("generated sql")
	writeJSON(w, http.StatusOK, generateResponse{SQL: sql})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
