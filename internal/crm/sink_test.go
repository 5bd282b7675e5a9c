package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	name  string
	err   error
	calls atomic.Int32
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Push(context.Context, Contact) error {
	f.calls.Add(1)
	return f.err
}

func TestSync_AllSinksAttempted(t *testing.T) {
	t.Parallel()

	failing := &fakeSink{name: "webhook", err: errors.New("boom")}
	ok := &fakeSink{name: "notion"}

	err := Sync(context.Background(), []Sink{failing, ok}, MapContact(sampleLead()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, int32(1), failing.calls.Load())
	assert.Equal(t, int32(1), ok.calls.Load())
}

func TestSync_Success(t *testing.T) {
	t.Parallel()

	a, b := &fakeSink{name: "a"}, &fakeSink{name: "b"}
	require.NoError(t, Sync(context.Background(), []Sink{a, b}, Contact{LeadID: "x"}))
}

func TestSync_NoSinks(t *testing.T) {
	t.Parallel()

	err := Sync(context.Background(), nil, Contact{})
	assert.ErrorIs(t, err, ErrNoSinks)
}

func TestWebhook_Push(t *testing.T) {
	t.Parallel()

	var got Contact
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "s3cret", r.Header.Get(SecretHeader))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := MapContact(sampleLead())
	require.NoError(t, NewWebhook(srv.URL, "s3cret", time.Second).Push(context.Background(), c))
	assert.Equal(t, c.Email, got.Email)
	assert.Equal(t, c.Tags, got.Tags)
	assert.Equal(t, c.LeadScore, got.LeadScore)
}

func TestWebhook_NoSecretHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header[SecretHeader]
		assert.False(t, present)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewWebhook(srv.URL, "", 0).Push(context.Background(), Contact{}))
}

func TestWebhook_Non2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, "", time.Second).Push(context.Background(), Contact{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestWebhook_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	err := NewWebhook(srv.URL, "", 50*time.Millisecond).Push(context.Background(), Contact{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook request failed")
}
