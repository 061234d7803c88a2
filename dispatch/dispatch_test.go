package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/transport"
	"github.com/pithecene-io/courier/types"
)

func TestNewRegistry_BuiltinKinds(t *testing.T) {
	r := NewRegistry()

	want := []string{"push", "redis", "s3", "spool", "webhook"}
	if got := r.Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// The canonical selection scenario: an API-keyed push transport, a
// zero-config spool transport, and a loud failure for anything else.
func TestRegistry_SelectionScenario(t *testing.T) {
	r := NewRegistry()

	pushTr, err := r.New("push", transport.Settings{APIKey: "k1"})
	if err != nil {
		t.Fatalf("build push: %v", err)
	}
	defer iox.DiscardClose(pushTr)
	if got := pushTr.Rate(); got != "rate:100" {
		t.Errorf("push: expected rate:100, got %s", got)
	}

	spoolTr, err := r.New("spool", transport.Settings{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("build spool: %v", err)
	}
	defer iox.DiscardClose(spoolTr)
	if got := spoolTr.Rate(); got != "rate:20" {
		t.Errorf("spool: expected rate:20, got %s", got)
	}

	_, err = r.New("unknown", transport.Settings{})
	var unknownErr *transport.UnknownKindError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected *UnknownKindError, got %v", err)
	}
}

func TestRegistry_BuilderValidation(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		kind     string
		settings transport.Settings
	}{
		{"push", transport.Settings{}},    // missing api key
		{"webhook", transport.Settings{}}, // missing url
		{"redis", transport.Settings{}},   // missing url
		{"s3", transport.Settings{}},      // missing bucket
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if _, err := r.New(tt.kind, tt.settings); err == nil {
				t.Errorf("expected %s builder to reject empty settings", tt.kind)
			}
		})
	}
}

func TestRegistry_ExtensionWithoutCallSiteChanges(t *testing.T) {
	r := NewRegistry()

	// A caller-registered kind goes through the same New path as builtins.
	err := r.Register("custom", transport.Registration{
		Build: func(transport.Settings) (transport.Transport, error) {
			return &staticTransport{rate: "rate:5"}, nil
		},
		Info: transport.Info{Summary: "caller-provided backend"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	tr, err := r.New("custom", transport.Settings{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := tr.Rate(); got != "rate:5" {
		t.Errorf("expected rate:5, got %s", got)
	}
}

type staticTransport struct {
	rate string
}

func (s *staticTransport) Deliver(context.Context, *types.Message) error { return nil }

func (s *staticTransport) Rate() string { return s.rate }
func (s *staticTransport) Close() error { return nil }

func TestSend_DeliversThroughInterfaceOnly(t *testing.T) {
	var received int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received++
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	r := NewRegistry()
	msg := types.NewMessage("greeting", "hello")

	err := Send(t.Context(), r, "webhook", transport.Settings{URL: ts.URL}, msg)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if received != 1 {
		t.Errorf("expected 1 delivery, got %d", received)
	}
}

func TestSend_RejectsInvalidMessage(t *testing.T) {
	r := NewRegistry()

	err := Send(t.Context(), r, "spool", transport.Settings{Path: t.TempDir()}, &types.Message{})
	if err == nil {
		t.Error("expected error for invalid message")
	}
}

func TestSend_UnknownKindSurfaces(t *testing.T) {
	r := NewRegistry()

	err := Send(t.Context(), r, "carrier-pigeon", transport.Settings{}, types.NewMessage("s", "b"))
	var unknownErr *transport.UnknownKindError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected *UnknownKindError, got %v", err)
	}
}

// Substitutability: the same interface-only routine must succeed for every
// variant, with no error difference attributable to the backend.
func TestSend_UniformAcrossVariants(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()
	mr := miniredis.RunT(t)

	r := NewRegistry()

	variants := []struct {
		kind     string
		settings transport.Settings
	}{
		{"push", transport.Settings{APIKey: "k1", URL: ts.URL}},
		{"spool", transport.Settings{Path: t.TempDir()}},
		{"webhook", transport.Settings{URL: ts.URL}},
		{"redis", transport.Settings{URL: "redis://" + mr.Addr()}},
	}

	for _, v := range variants {
		t.Run(v.kind, func(t *testing.T) {
			msg := types.NewMessage("probe", "body")
			if err := Send(t.Context(), r, v.kind, v.settings, msg); err != nil {
				t.Errorf("send via %s: %v", v.kind, err)
			}
		})
	}
}
