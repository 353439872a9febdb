package visitor

import (
	"testing"

	"github.com/balsa-http/balsa/status"
	"github.com/stretchr/testify/require"
)

type recordingVisitor struct {
	Nop
	messages []string
}

func (v *recordingVisitor) MessageDone() {
	v.messages = append(v.messages, "done")
}

func TestPartialVisitorComposition(t *testing.T) {
	v := &recordingVisitor{}

	var iface Visitor = v
	iface.OnHeader("Host", "example.com")
	iface.HandleWarning(status.HeaderMissingColon)
	iface.MessageDone()

	require.Equal(t, []string{"done"}, v.messages)
}

func TestNopSatisfiesEveryHook(t *testing.T) {
	require.NotPanics(t, func() {
		var v Visitor = Nop{}
		v.OnRequestFirstLine("GET / HTTP/1.1", "GET", "/", "HTTP/1.1")
		v.OnResponseFirstLine("HTTP/1.1 200 OK", "HTTP/1.1", 200, "OK")
		v.OnHeader("Host", "example.com")
		v.OnHeaderInput(nil)
		v.ProcessHeaders(nil)
		v.HeaderDone()
		v.OnRawBodyInput(nil)
		v.OnBodyChunkInput(nil)
		v.OnChunkLength(0)
		v.OnChunkExtensionInput(nil)
		v.OnTrailerInput(nil)
		v.ProcessTrailers(nil)
		v.OnInterimHeaders(nil)
		v.ContinueHeaderDone()
		v.MessageDone()
		v.HandleError(status.InternalLogicError)
		v.HandleWarning(status.HeaderMissingColon)
	})
}
