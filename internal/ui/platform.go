package ui

import (
	"github.com/atotto/clipboard"
)

// copyToClipboardFn is swapped out by tests.
var copyToClipboardFn = clipboard.WriteAll

// CopyToClipboard puts text on the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// StubClipboard replaces the clipboard with sink and returns a restore
// function.
func StubClipboard(sink func(string) error) (restore func()) {
	orig := copyToClipboardFn
	copyToClipboardFn = sink
	return func() { copyToClipboardFn = orig }
}
