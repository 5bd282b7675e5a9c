package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/intake"
	"github.com/agentgrowth/leadflow/internal/pipeline"
	"github.com/agentgrowth/leadflow/internal/resource"
)

type fakeLeads struct {
	accepted pipeline.Accepted
	result   analysis.Result
	err      error
	meta     pipeline.Meta
	sub      intake.Submission
	trigger  pipeline.TriggerRequest
}

func (f *fakeLeads) Submit(_ context.Context, sub intake.Submission, meta pipeline.Meta) (pipeline.Accepted, error) {
	f.sub = sub
	f.meta = meta
	return f.accepted, f.err
}

func (f *fakeLeads) Trigger(_ context.Context, req pipeline.TriggerRequest) (analysis.Result, error) {
	f.trigger = req
	return f.result, f.err
}

type fakeDownloads struct {
	link resource.Link
	err  error
	req  resource.Request
}

func (f *fakeDownloads) Download(_ context.Context, req resource.Request) (resource.Link, error) {
	f.req = req
	return f.link, f.err
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body
}

func TestHealth(t *testing.T) {
	h := NewRouter(&fakeLeads{}, &fakeDownloads{}, Options{})

	rr := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestSubmitLead_Success(t *testing.T) {
	leads := &fakeLeads{accepted: pipeline.Accepted{LeadID: "lead-1"}}
	h := NewRouter(leads, &fakeDownloads{}, Options{})

	rr := do(t, h, http.MethodPost, "/api/leads",
		`{"firstName":"Dana","lastName":"Reyes","email":"dana@example.com","sphereSize":300,"honeypot":""}`,
		map[string]string{"X-Forwarded-For": "198.51.100.4", "User-Agent": "form/1.0"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"leadId":"lead-1"}`, rr.Body.String())
	assert.Equal(t, "198.51.100.4", leads.meta.Identity)
	assert.Equal(t, "form/1.0", leads.meta.UserAgent)
	assert.Equal(t, int64(300), leads.sub.SphereSize)
}

func TestSubmitLead_BotLooksLikeSuccess(t *testing.T) {
	h := NewRouter(&fakeLeads{accepted: pipeline.Accepted{Bot: true}}, &fakeDownloads{}, Options{})

	rr := do(t, h, http.MethodPost, "/api/leads", `{"honeypot":"gotcha"}`, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
}

func TestSubmitLead_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "validation",
			err:        &intake.ValidationError{Field: "email", Code: intake.CodeInvalid, Message: "email address is not valid"},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
			wantField:  "email",
		},
		{
			name:       "rate limited",
			err:        pipeline.ErrRateLimited,
			wantStatus: http.StatusTooManyRequests,
			wantCode:   CodeRateLimited,
		},
		{
			name:       "persistence",
			err:        &pipeline.PersistenceError{Err: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodePersistence,
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&fakeLeads{err: tt.err}, &fakeDownloads{}, Options{})

			rr := do(t, h, http.MethodPost, "/api/leads", `{"email":"x"}`, nil)
			assert.Equal(t, tt.wantStatus, rr.Code)
			body := decodeError(t, rr)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantField, body.Error.Field)
			assert.NotContains(t, rr.Body.String(), "db down")
		})
	}
}

func TestSubmitLead_BadJSON(t *testing.T) {
	h := NewRouter(&fakeLeads{}, &fakeDownloads{}, Options{})

	rr := do(t, h, http.MethodPost, "/api/leads", `{"sphereSize":"lots"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, CodeBadJSON, decodeError(t, rr).Error.Code)
}

func TestSubmitLead_BodyTooLarge(t *testing.T) {
	h := NewRouter(&fakeLeads{}, &fakeDownloads{}, Options{})

	big := `{"businessObjectives":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rr := do(t, h, http.MethodPost, "/api/leads", big, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTriggerReport(t *testing.T) {
	leads := &fakeLeads{result: analysis.Result{CurrentEarnings: 42000}}
	h := NewRouter(leads, &fakeDownloads{}, Options{})

	rr := do(t, h, http.MethodPost, "/api/reports", `{"firstName":"Dana","leadId":"lead-1"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "lead-1", leads.trigger.LeadID)
	assert.Equal(t, "Dana", leads.trigger.FirstName)

	var body struct {
		Success  bool            `json:"success"`
		Analysis analysis.Result `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 42000.0, body.Analysis.CurrentEarnings)
}

func TestDownload(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)
	dl := &fakeDownloads{link: resource.Link{URL: "https://storage.example/a.pdf?sig=1", ExpiresAt: expires}}
	h := NewRouter(&fakeLeads{}, dl, Options{})

	rr := do(t, h, http.MethodPost, "/api/resources/download", `{"resourceId":"r-1","leadId":"l-1"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"url":"https://storage.example/a.pdf?sig=1","expiresAt":"2026-03-01T12:15:00Z"}`, rr.Body.String())
	assert.Equal(t, resource.Request{ResourceID: "r-1", LeadID: "l-1"}, dl.req)
}

func TestDownload_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", resource.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"signing", &resource.SigningError{Err: errors.New("no creds")}, http.StatusInternalServerError, CodeSigning},
		{"validation", &intake.ValidationError{Field: "leadId", Code: intake.CodeInvalid, Message: "leadId must be a UUID"}, http.StatusBadRequest, CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&fakeLeads{}, &fakeDownloads{err: tt.err}, Options{})
			rr := do(t, h, http.MethodPost, "/api/resources/download", `{}`, nil)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rr).Error.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	h := NewRouter(&fakeLeads{}, &fakeDownloads{}, Options{CORSOrigins: []string{"https://summit.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/leads", nil)
	req.Header.Set("Origin", "https://summit.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://summit.example", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/leads", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewRouter(&fakeLeads{}, &fakeDownloads{}, Options{})
	rr := do(t, h, http.MethodGet, "/api/leads", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRecoversPanics(t *testing.T) {
	h := NewRouter(panicLeads{}, &fakeDownloads{}, Options{})
	rr := do(t, h, http.MethodPost, "/api/leads", `{}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

type panicLeads struct{}

func (panicLeads) Submit(context.Context, intake.Submission, pipeline.Meta) (pipeline.Accepted, error) {
	panic("boom")
}

func (panicLeads) Trigger(context.Context, pipeline.TriggerRequest) (analysis.Result, error) {
	panic("boom")
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, Config{Port: 0}, http.NotFoundHandler(), time.Second)
	}()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
