package server

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/intake"
	"github.com/agentgrowth/leadflow/internal/pipeline"
	"github.com/agentgrowth/leadflow/internal/resource"
)

// Error codes in the response body.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeBadJSON     = "INVALID_JSON"
	CodeRateLimited = "RATE_LIMITED"
	CodePersistence = "PERSISTENCE_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeSigning     = "SIGNING_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
)

type handlers struct {
	leads     Leads
	downloads Downloads
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Rule    string `json:"rule,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type leadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId,omitempty"`
}

type reportResponse struct {
	Success  bool            `json:"success"`
	Analysis analysis.Result `json:"analysis"`
}

type downloadResponse struct {
	Success bool `json:"success"`
	resource.Link
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) submitLead(w http.ResponseWriter, r *http.Request) {
	var sub intake.Submission
	if !decode(w, r, &sub) {
		return
	}

	acc, err := h.leads.Submit(r.Context(), sub, pipeline.Meta{
		Identity:  clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	// A tripped honeypot looks like any other success.
	writeJSON(w, http.StatusOK, leadResponse{Success: true, LeadID: acc.LeadID})
}

func (h *handlers) triggerReport(w http.ResponseWriter, r *http.Request) {
	var req pipeline.TriggerRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.leads.Trigger(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{Success: true, Analysis: res})
}

func (h *handlers) download(w http.ResponseWriter, r *http.Request) {
	var req resource.Request
	if !decode(w, r, &req) {
		return
	}

	link, err := h.downloads.Download(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadResponse{Success: true, Link: link})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Code:    CodeBadJSON,
			Message: "request body must be a JSON object",
		}})
		return false
	}
	return true
}

// writeError maps domain errors onto status codes. Internal details are
// logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *intake.ValidationError
		pe *pipeline.PersistenceError
		se *resource.SigningError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Code:    CodeValidation,
			Message: ve.Message,
			Field:   ve.Field,
			Rule:    ve.Code,
		}})
	case errors.Is(err, pipeline.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: errorBody{
			Code:    CodeRateLimited,
			Message: "too many submissions, please try again later",
		}})
	case errors.Is(err, resource.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorBody{
			Code:    CodeNotFound,
			Message: "lead or resource not found",
		}})
	case errors.As(err, &pe):
		logFailure(r, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
			Code:    CodePersistence,
			Message: "your submission could not be saved, please try again",
		}})
	case errors.As(err, &se):
		logFailure(r, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
			Code:    CodeSigning,
			Message: "download link could not be created",
		}})
	default:
		logFailure(r, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
			Code:    CodeInternal,
			Message: "internal error",
		}})
	}
}

func logFailure(r *http.Request, err error) {
	zap.L().Error("server: request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

// clientIP returns the caller address without its port. RealIP has already
// replaced RemoteAddr with the forwarded address when one was sent.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
