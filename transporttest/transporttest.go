// Package transporttest verifies transport implementations against the
// contract every variant must honor.
//
// A violation is a design-time defect in the variant, not a runtime
// condition callers recover from: the checks exist so tests catch a
// misbehaving variant before a caller depends on uniform behavior.
package transporttest

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/transport"
	"github.com/pithecene-io/courier/types"
)

// ratePattern is the required shape of Transport.Rate values.
var ratePattern = regexp.MustCompile(`^rate:[0-9]+$`)

// Violation reports a deviation from the transport contract.
type Violation struct {
	// Check names the failed contract check.
	Check string
	// Detail describes the observed deviation.
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("transport contract violation (%s): %s", v.Check, v.Detail)
}

// Check runs the read-only contract checks against a built transport.
// Returns a *Violation describing the first deviation, or nil.
//
// Check never calls Deliver; delivering needs backend-specific setup the
// caller controls. Use Run in tests to cover the delivery path too.
func Check(tr transport.Transport) error {
	if tr == nil {
		return &Violation{Check: "construction", Detail: "transport is nil"}
	}

	first, err := safeRate(tr)
	if err != nil {
		return err
	}
	if !ratePattern.MatchString(first) {
		return &Violation{
			Check:  "rate_format",
			Detail: fmt.Sprintf("Rate() returned %q, want rate:N", first),
		}
	}

	// Rate must be idempotent: repeated calls observe the same value.
	for range 3 {
		again, err := safeRate(tr)
		if err != nil {
			return err
		}
		if again != first {
			return &Violation{
				Check:  "rate_idempotence",
				Detail: fmt.Sprintf("Rate() changed from %q to %q", first, again),
			}
		}
	}

	return nil
}

// safeRate calls Rate, converting a panic into a violation.
func safeRate(tr transport.Transport) (rate string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Violation{
				Check:  "rate_panic",
				Detail: fmt.Sprintf("Rate() panicked: %v", r),
			}
		}
	}()
	return tr.Rate(), nil
}

// Run executes the full conformance suite against a variant.
//
// build must return a transport wired to a backend that accepts a probe
// delivery (test server, temp directory, in-memory store). Run is the
// generic client routine of the contract: it touches only the interface,
// so any variant that fails here differs observably from its siblings.
func Run(t *testing.T, build func(t *testing.T) transport.Transport) {
	t.Helper()

	tr := build(t)
	t.Cleanup(iox.CloseFunc(tr))

	if err := Check(tr); err != nil {
		t.Errorf("contract check: %v", err)
	}

	probe := types.NewMessage("conformance probe", "probe body")
	if err := tr.Deliver(t.Context(), probe); err != nil {
		t.Errorf("probe delivery: %v", err)
	}

	// Delivery must not perturb the reported rate.
	before := tr.Rate()
	if after := tr.Rate(); after != before {
		t.Errorf("Rate() changed after delivery: %q then %q", before, after)
	}
}
