package balsa_test

import (
	"fmt"
	"testing"

	"github.com/balsa-http/balsa"
	"github.com/balsa-http/balsa/balsapolicy"
	"github.com/balsa-http/balsa/internal/randseed"
	"github.com/balsa-http/balsa/status"
	"github.com/balsa-http/balsa/store"
	"github.com/balsa-http/balsa/visitor"
	"github.com/stretchr/testify/require"
)

// recorder logs every visitor call as a formatted line, so a test can
// assert on the exact event sequence spec.md §8's scenarios describe.
type recorder struct {
	visitor.Nop
	events []string
}

func (r *recorder) OnRequestFirstLine(full, method, target, version string) {
	r.events = append(r.events, fmt.Sprintf("request_first_line(%q,%q,%q,%q)", full, method, target, version))
}

func (r *recorder) OnResponseFirstLine(full, version string, code int, reason string) {
	r.events = append(r.events, fmt.Sprintf("response_first_line(%q,%q,%d,%q)", full, version, code, reason))
}

func (r *recorder) OnHeader(name, value string) {
	r.events = append(r.events, fmt.Sprintf("header(%s,%s)", name, value))
}

func (r *recorder) ProcessHeaders(headers *store.Store) {
	r.events = append(r.events, fmt.Sprintf("process_headers(%d)", headers.NumRecords()))
}

func (r *recorder) HeaderDone() {
	r.events = append(r.events, "header_done")
}

func (r *recorder) OnChunkLength(n uint64) {
	r.events = append(r.events, fmt.Sprintf("chunk_length(%d)", n))
}

func (r *recorder) OnBodyChunkInput(chunk []byte) {
	r.events = append(r.events, fmt.Sprintf("body_chunk_input(%q)", chunk))
}

func (r *recorder) OnRawBodyInput(raw []byte) {
	r.events = append(r.events, fmt.Sprintf("raw_body_input(%q)", raw))
}

func (r *recorder) ProcessTrailers(trailers *store.Store) {
	var s string
	for name, value := range trailers.Pairs() {
		s += fmt.Sprintf("%s:%s ", name, value)
	}
	r.events = append(r.events, fmt.Sprintf("process_trailers(%s)", s))
}

func (r *recorder) OnInterimHeaders(headers *store.Store) {
	r.events = append(r.events, fmt.Sprintf("interim_headers(%d)", headers.NumRecords()))
}

func (r *recorder) ContinueHeaderDone() {
	r.events = append(r.events, "continue_header_done")
}

func (r *recorder) MessageDone() {
	r.events = append(r.events, "message_done")
}

func (r *recorder) HandleWarning(code status.Code) {
	r.events = append(r.events, "warning:"+code.String())
}

func (r *recorder) HandleError(code status.Code) {
	r.events = append(r.events, "error:"+code.String())
}

func newFramer(isRequest bool, v visitor.Visitor) *balsa.Framer {
	f := balsa.New(balsapolicy.Default())
	f.SetIsRequest(isRequest)
	f.SetHeaderStore(store.New(256, 64*1024))
	f.SetTrailerStore(store.New(256, 64*1024))
	f.SetContinueStore(store.New(256, 64*1024))
	f.SetVisitor(v)

	return f
}

func TestTrivialRequest(t *testing.T) {
	r := &recorder{}
	f := newFramer(true, r)

	input := []byte("GET /foobar HTTP/1.0\r\n\n")
	n := f.ProcessInput(input)

	require.Equal(t, len(input), n)
	require.False(t, f.IsError())
	require.Equal(t, status.BalsaNoError, f.ErrorCode())
	require.True(t, f.MessageFullyRead())
	require.Equal(t, []string{
		`request_first_line("GET /foobar HTTP/1.0","GET","/foobar","HTTP/1.0")`,
		"process_headers(0)",
		"header_done",
		"message_done",
	}, r.events)
}

func TestChunkedWithTrailer(t *testing.T) {
	r := &recorder{}
	f := newFramer(true, r)

	head := []byte("GET / HTTP/1.1\r\nConnection: close\r\ntransfer-encoding: chunked\r\n\r\n")
	body := []byte("3\r\n123\r\n0\r\n")
	trailer := []byte("crass: monkeys\r\nfunky: monkeys\r\n\r\n")

	n := f.ProcessInput(head)
	require.Equal(t, len(head), n)

	n = f.ProcessInput(body)
	require.Equal(t, len(body), n)

	n = f.ProcessInput(trailer)
	require.Equal(t, len(trailer), n)

	require.False(t, f.IsError())
	require.True(t, f.MessageFullyRead())
	require.Contains(t, r.events, "chunk_length(3)")
	require.Contains(t, r.events, `body_chunk_input("123")`)
	require.Contains(t, r.events, "chunk_length(0)")
	require.Contains(t, r.events, "process_trailers(crass:monkeys funky:monkeys )")
	require.Equal(t, "message_done", r.events[len(r.events)-1])
}

func TestMultipleContentLengthConflict(t *testing.T) {
	r := &recorder{}
	f := newFramer(false, r)

	input := []byte("HTTP/1.1 200 OK\r\ncontent-length: 12\r\ncontent-length: 14\r\n\r\n")
	f.ProcessInput(input)

	require.True(t, f.IsError())
	require.Equal(t, status.MultipleContentLengthKeys, f.ErrorCode())
}

func TestMultipleContentLengthSameValue(t *testing.T) {
	r := &recorder{}
	f := newFramer(false, r)

	input := []byte("HTTP/1.1 200 OK\r\ncontent-length: 12\r\ncontent-length: 12\r\n\r\n")
	n := f.ProcessInput(input)

	require.Equal(t, len(input), n)
	require.False(t, f.IsError())
	require.Equal(t, balsa.ReadingContent, f.ParseState())
}

func TestChunkLengthOverflow(t *testing.T) {
	r := &recorder{}
	f := newFramer(true, r)

	head := []byte("GET / HTTP/1.1\r\ntransfer-encoding: chunked\r\n\r\n")
	require.Equal(t, len(head), f.ProcessInput(head))

	// 48 hex digits: the overflow trips at the 17th, leaving 31 bytes
	// this call must report as unconsumed rather than silently swallow.
	chunkSize := []byte("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF")
	n := f.ProcessInput(chunkSize)

	require.True(t, f.IsError())
	require.Equal(t, status.ChunkLengthOverflow, f.ErrorCode())
	require.Equal(t, 17, n, "only the 17 bytes scanned before the overflow should be reported as consumed")
	require.Contains(t, r.events, `raw_body_input("FFFFFFFFFFFFFFFFF")`)
}

func TestHTTP09RequestLine(t *testing.T) {
	r := &recorder{}
	f := newFramer(true, r)

	input := []byte("GET /\r\n")
	n := f.ProcessInput(input)

	require.Equal(t, len(input), n)
	require.False(t, f.IsError())
	require.True(t, f.MessageFullyRead())
	require.Equal(t, status.FailedToFindWsAfterRequestRequestUri, f.ErrorCode())
	require.Equal(t, []string{
		"warning:" + status.FailedToFindWsAfterRequestRequestUri.String(),
		`request_first_line("GET /","GET","/","")`,
		"process_headers(0)",
		"header_done",
		"message_done",
	}, r.events)
}

func TestContinueThenResponse(t *testing.T) {
	r := &recorder{}
	f := newFramer(false, r)

	input := []byte("HTTP/1.1 100 Continue\r\n\r\nHTTP/1.1 200 OK\r\ncontent-length: 3\r\n\r\nfoo")
	n := f.ProcessInput(input)

	require.Equal(t, len(input), n)
	require.False(t, f.IsError())
	require.True(t, f.MessageFullyRead())
	require.Contains(t, r.events, "interim_headers(0)")
	require.Contains(t, r.events, "continue_header_done")
	require.Equal(t, "message_done", r.events[len(r.events)-1])

	interimIdx, doneIdx := -1, -1
	for i, e := range r.events {
		if e == "interim_headers(0)" {
			interimIdx = i
		}
		if e == "continue_header_done" {
			doneIdx = i
		}
	}
	require.Less(t, interimIdx, doneIdx, "interim_headers must fire before continue_header_done")
}

func TestByteAccountingIsIndependentOfChunking(t *testing.T) {
	input := []byte("GET / HTTP/1.1\r\ncontent-length: 5\r\n\r\nhello")

	whole := newFramer(true, &recorder{})
	require.Equal(t, len(input), whole.ProcessInput(input))
	require.True(t, whole.MessageFullyRead())

	perByte := newFramer(true, &recorder{})
	consumed := 0
	for i := range input {
		consumed += perByte.ProcessInput(input[i : i+1])
	}
	require.Equal(t, len(input), consumed)
	require.True(t, perByte.MessageFullyRead())
}

// TestByteAccountingAcrossRandomSplits feeds the same message cut at
// reproducibly-random boundaries, seeded via randseed.Source rather than
// process-global randomness, so any split-dependent failure this test
// turns up can be reproduced from the printed seed alone.
func TestByteAccountingAcrossRandomSplits(t *testing.T) {
	input := []byte("GET /widgets HTTP/1.1\r\ncontent-length: 5\r\nx-trace: yes\r\n\r\nhello")

	for _, seed := range []uint64{1, 42, 9001, 271828} {
		src := randseed.New(seed)
		pieces := src.Chunks(input, 6)

		f := newFramer(true, &recorder{})
		consumed := 0
		for _, piece := range pieces {
			consumed += f.ProcessInput(piece)
		}

		require.Equal(t, len(input), consumed, "seed %d", src.Seed())
		require.False(t, f.IsError(), "seed %d", src.Seed())
		require.True(t, f.MessageFullyRead(), "seed %d", src.Seed())
	}
}

func TestNoEventsAfterError(t *testing.T) {
	r := &recorder{}
	f := newFramer(false, r)

	f.ProcessInput([]byte("HTTP/1.1 200 OK\r\ncontent-length: 12\r\ncontent-length: 14\r\n\r\n"))
	require.True(t, f.IsError())

	before := len(r.events)
	n := f.ProcessInput([]byte("more garbage"))
	require.Equal(t, 0, n)
	require.Equal(t, before, len(r.events))
}

func TestSpliceEquivalence(t *testing.T) {
	head := []byte("GET / HTTP/1.1\r\ncontent-length: 5\r\n\r\n")

	direct := newFramer(true, &recorder{})
	direct.ProcessInput(head)
	direct.ProcessInput([]byte("hello"))
	require.True(t, direct.MessageFullyRead())

	spliced := newFramer(true, &recorder{})
	spliced.ProcessInput(head)
	require.Equal(t, uint64(5), spliced.BytesSafeToSplice())
	spliced.BytesSpliced(5)
	require.True(t, spliced.MessageFullyRead())

	require.Equal(t, direct.Stats().BodyBytesRead, spliced.Stats().BodyBytesRead)
}

func TestResetPreservesConfiguration(t *testing.T) {
	r := &recorder{}
	f := newFramer(true, r)

	f.ProcessInput([]byte("GET /foobar HTTP/1.0\r\n\n"))
	require.True(t, f.MessageFullyRead())

	f.Reset()
	require.Equal(t, balsa.ReadingHeaderAndFirstline, f.ParseState())
	require.False(t, f.IsError())

	second := []byte("GET /again HTTP/1.0\r\n\n")
	n := f.ProcessInput(second)
	require.Equal(t, len(second), n)
	require.True(t, f.MessageFullyRead())
}
