package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/transport"
	"github.com/pithecene-io/courier/transporttest"
	"github.com/pithecene-io/courier/types"
)

func testMessage() *types.Message {
	msg := types.NewMessage("greeting", "hello")
	msg.SetAttribute("tenant", "acme")
	return msg
}

func TestNew_RequiresURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for missing URL")
	}
}

func TestNew_RejectsNegativeRetries(t *testing.T) {
	if _, err := New(Config{URL: "http://example.com", Retries: -1}); err == nil {
		t.Error("expected error for negative retries")
	}
}

func TestDeliver_Success(t *testing.T) {
	var received types.Message
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	tr, err := New(Config{URL: ts.URL, Retries: 0})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(tr)

	msg := testMessage()
	if err := tr.Deliver(t.Context(), msg); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly one request on success, got %d", got)
	}
	if received.ID != msg.ID {
		t.Errorf("expected %s, got %s", msg.ID, received.ID)
	}
	if received.Attributes["tenant"] != "acme" {
		t.Errorf("attributes lost: %+v", received.Attributes)
	}
}

func TestDeliver_CustomHeaders(t *testing.T) {
	var authHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	tr, err := New(Config{
		URL:     ts.URL,
		Headers: map[string]string{"Authorization": "Bearer test-token"},
		Retries: 0,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(tr)

	if err := tr.Deliver(t.Context(), testMessage()); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if authHeader != "Bearer test-token" {
		t.Errorf("expected Bearer test-token, got %s", authHeader)
	}
}

func TestDeliver_RetriesOn5xx(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	tr, err := New(Config{URL: ts.URL, Retries: 3})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(tr)

	if err := tr.Deliver(t.Context(), testMessage()); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestDeliver_4xxNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	tr, err := New(Config{URL: ts.URL, Retries: 3})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(tr)

	err = tr.Deliver(t.Context(), testMessage())
	if err == nil {
		t.Fatal("expected error for 422")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 attempt for non-retriable error, got %d", got)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected StatusError 422 in chain, got %v", err)
	}
	if !errors.Is(err, transport.ErrRejected) {
		t.Errorf("expected rejected classification, got %v", err)
	}
}

func TestDeliver_ExhaustedRetriesClassified(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	tr, err := New(Config{URL: ts.URL, Retries: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(tr)

	err = tr.Deliver(t.Context(), testMessage())
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if !errors.Is(err, transport.ErrUnavailable) {
		t.Errorf("expected unavailable classification, got %v", err)
	}

	var delErr *transport.DeliveryError
	if !errors.As(err, &delErr) {
		t.Fatalf("expected *DeliveryError, got %T", err)
	}
	if delErr.Transport != Kind || delErr.Op != "post" {
		t.Errorf("unexpected error context: %+v", delErr)
	}
}

func TestRate(t *testing.T) {
	tr, err := New(Config{URL: "http://example.com"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(tr)

	if got := tr.Rate(); got != "rate:60" {
		t.Errorf("expected rate:60, got %s", got)
	}
}

func TestConformance(t *testing.T) {
	transporttest.Run(t, func(t *testing.T) transport.Transport {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(ts.Close)

		tr, err := New(Config{URL: ts.URL, Retries: 0})
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		return tr
	})
}
