package transporttest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pithecene-io/courier/types"
)

// misbehavingTransport deviates from the contract in configurable ways.
type misbehavingTransport struct {
	rates     []string
	rateCalls int
	panicRate bool
}

func (m *misbehavingTransport) Deliver(context.Context, *types.Message) error { return nil }

func (m *misbehavingTransport) Rate() string {
	if m.panicRate {
		panic("no rate configured")
	}
	rate := m.rates[m.rateCalls%len(m.rates)]
	m.rateCalls++
	return rate
}

func (m *misbehavingTransport) Close() error { return nil }

func TestCheck_AcceptsConformingTransport(t *testing.T) {
	tr := &misbehavingTransport{rates: []string{"rate:42"}}
	if err := Check(tr); err != nil {
		t.Errorf("unexpected violation: %v", err)
	}
}

func TestCheck_NilTransport(t *testing.T) {
	err := Check(nil)
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected *Violation, got %v", err)
	}
	if v.Check != "construction" {
		t.Errorf("expected construction check, got %s", v.Check)
	}
}

func TestCheck_MalformedRate(t *testing.T) {
	tests := []string{"", "100", "rate:", "rate:abc", "RATE:100", "rate:100/min"}

	for _, rate := range tests {
		t.Run(fmt.Sprintf("rate=%q", rate), func(t *testing.T) {
			tr := &misbehavingTransport{rates: []string{rate}}
			err := Check(tr)
			var v *Violation
			if !errors.As(err, &v) {
				t.Fatalf("expected *Violation, got %v", err)
			}
			if v.Check != "rate_format" {
				t.Errorf("expected rate_format, got %s", v.Check)
			}
		})
	}
}

func TestCheck_NonIdempotentRate(t *testing.T) {
	tr := &misbehavingTransport{rates: []string{"rate:10", "rate:20"}}

	err := Check(tr)
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected *Violation, got %v", err)
	}
	if v.Check != "rate_idempotence" {
		t.Errorf("expected rate_idempotence, got %s", v.Check)
	}
	if !strings.Contains(v.Error(), "rate:20") {
		t.Errorf("expected detail to name observed rates: %v", v)
	}
}

func TestCheck_PanickingRate(t *testing.T) {
	tr := &misbehavingTransport{panicRate: true}

	err := Check(tr)
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected *Violation, got %v", err)
	}
	if v.Check != "rate_panic" {
		t.Errorf("expected rate_panic, got %s", v.Check)
	}
}
