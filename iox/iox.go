// Package iox provides small I/O cleanup helpers.
package iox

import "io"

// DiscardClose closes c and discards the error.
// For defer statements where a close failure is unactionable:
//
//	defer iox.DiscardClose(tr)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc returns a function that closes c, for t.Cleanup registration:
//
//	t.Cleanup(iox.CloseFunc(tr))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}
