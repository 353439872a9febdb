// Package visitor defines the framer's event-dispatch contract: a
// capability set of hooks, every one of which has a no-op default so a
// consumer only implements the events it cares about. This follows the
// design called out in spec.md §9 and the original BalsaVisitorInterface
// / NoopBalsaVisitor split referenced in
// _examples/original_source/quiche/balsa/balsa_frame_test.cc.
package visitor

import (
	"github.com/balsa-http/balsa/status"
	"github.com/balsa-http/balsa/store"
)

// Visitor receives framing events in the order documented in spec.md §4.9.
// Embed Nop to get every method for free, then override what you need.
type Visitor interface {
	OnRequestFirstLine(full, method, target, version string)
	OnResponseFirstLine(full, version string, code int, reason string)

	OnHeader(name, value string)
	OnHeaderInput(raw []byte)
	ProcessHeaders(headers *store.Store)
	HeaderDone()

	OnRawBodyInput(raw []byte)
	OnBodyChunkInput(chunk []byte)
	OnChunkLength(n uint64)
	OnChunkExtensionInput(ext []byte)

	OnTrailerInput(raw []byte)
	ProcessTrailers(trailers *store.Store)

	OnInterimHeaders(headers *store.Store)
	ContinueHeaderDone()

	MessageDone()

	HandleError(code status.Code)
	HandleWarning(code status.Code)
}

// Nop implements Visitor with every method a no-op. Embed it in a partial
// visitor to satisfy the interface without writing boilerplate stubs.
type Nop struct{}

var _ Visitor = Nop{}

func (Nop) OnRequestFirstLine(string, string, string, string)  {}
func (Nop) OnResponseFirstLine(string, string, int, string)    {}
func (Nop) OnHeader(string, string)                            {}
func (Nop) OnHeaderInput([]byte)                                {}
func (Nop) ProcessHeaders(*store.Store)                         {}
func (Nop) HeaderDone()                                         {}
func (Nop) OnRawBodyInput([]byte)                               {}
func (Nop) OnBodyChunkInput([]byte)                             {}
func (Nop) OnChunkLength(uint64)                                {}
func (Nop) OnChunkExtensionInput([]byte)                        {}
func (Nop) OnTrailerInput([]byte)                               {}
func (Nop) ProcessTrailers(*store.Store)                        {}
func (Nop) OnInterimHeaders(*store.Store)                       {}
func (Nop) ContinueHeaderDone()                                 {}
func (Nop) MessageDone()                                        {}
func (Nop) HandleError(status.Code)                             {}
func (Nop) HandleWarning(status.Code)                           {}
