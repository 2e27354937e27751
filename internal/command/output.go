package command

import (
	"bytes"
	"io"
	"sync"
)

// outputCapture captures output while optionally streaming it to another writer.
type outputCapture struct {
	buffer      bytes.Buffer
	passthrough io.Writer
	mu          sync.Mutex
}

// newOutputCapture creates a new output capture.
// If passthrough is non-nil, output will be written to it in addition to being captured.
func newOutputCapture(passthrough io.Writer) *outputCapture {
	return &outputCapture{passthrough: passthrough}
}

// Writer returns an io.Writer that captures output.
func (oc *outputCapture) Writer() io.Writer {
	return oc
}

// Write records p and forwards it to the passthrough writer. Passthrough
// errors are ignored so a broken terminal never fails the command.
func (oc *outputCapture) Write(p []byte) (int, error) {
	oc.mu.Lock()
	defer oc.mu.Unlock()

	n, err := oc.buffer.Write(p)
	if oc.passthrough != nil {
		_, _ = oc.passthrough.Write(p)
	}
	return n, err
}

// Bytes returns a copy of the captured output.
func (oc *outputCapture) Bytes() []byte {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return bytes.Clone(oc.buffer.Bytes())
}

// String returns the captured output as a string.
func (oc *outputCapture) String() string {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.buffer.String()
}
