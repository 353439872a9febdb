// Package balsa implements an incremental HTTP/1.x message framer: a
// push-parser fed arbitrary byte slices via ProcessInput, recognizing the
// start-line, header block, body, and optional trailer of either a
// request or a response, and delivering structured events to a Visitor.
//
// The framer holds no network or file-descriptor state; it is a pure,
// synchronous state machine in the style of the teacher's
// internal/transport/http1.Parser, generalized from HTTP requests only
// to both requests and responses, and from method/path/header extraction
// to full RFC 7230 framing.
package balsa

import (
	"github.com/balsa-http/balsa/balsapolicy"
	"github.com/balsa-http/balsa/chunked"
	"github.com/balsa-http/balsa/scanner"
	"github.com/balsa-http/balsa/status"
	"github.com/balsa-http/balsa/store"
	"github.com/balsa-http/balsa/visitor"
)

// ParseState identifies where the framer currently is in a message.
type ParseState uint8

const (
	ReadingHeaderAndFirstline ParseState = iota
	ReadingChunkLength
	ReadingChunkExtension
	ReadingChunkData
	ReadingChunkTerm
	ReadingLastChunkTerm
	ReadingTrailer
	ReadingUntilClose
	ReadingContent
	MessageFullyRead
	Error
)

func (s ParseState) String() string {
	switch s {
	case ReadingHeaderAndFirstline:
		return "ReadingHeaderAndFirstline"
	case ReadingChunkLength:
		return "ReadingChunkLength"
	case ReadingChunkExtension:
		return "ReadingChunkExtension"
	case ReadingChunkData:
		return "ReadingChunkData"
	case ReadingChunkTerm:
		return "ReadingChunkTerm"
	case ReadingLastChunkTerm:
		return "ReadingLastChunkTerm"
	case ReadingTrailer:
		return "ReadingTrailer"
	case ReadingUntilClose:
		return "ReadingUntilClose"
	case ReadingContent:
		return "ReadingContent"
	case MessageFullyRead:
		return "MessageFullyRead"
	case Error:
		return "Error"
	default:
		return "UnknownParseState"
	}
}

// bodyHint tells the framer, ahead of the header block being resolved,
// whether the message it is about to frame is known to lack a body
// regardless of headers (1xx/204/304 responses, HEAD replies). The
// framer cannot infer these from the wire alone; the caller supplies it
// via SetNoBodyExpected before or during header parsing, mirroring how a
// real server layer knows the request method it just dispatched.
type bodyHint uint8

const (
	bodyHintNone bodyHint = iota
	bodyHintNoBody
)

// Stats exposes byte counters for observability. It is populated
// unconditionally, independent of whether a Visitor is attached.
type Stats struct {
	HeaderBytes  uint64
	BodyBytesRead uint64
	SplicedBytes uint64
}

// Framer is the incremental HTTP/1.x message framer. The zero value is
// not usable; construct one with New.
type Framer struct {
	policy    balsapolicy.Policy
	isRequest bool
	noBody    bodyHint

	headerStore   *store.Store
	trailerStore  *store.Store
	continueStore *store.Store
	visitor       visitor.Visitor

	state    ParseState
	errCode  status.Code
	errFatal bool

	hdrBuf           []byte
	window           scanner.Window
	firstLineLen     int
	termLen          int
	skipLeadingBlank bool

	requestMethod, requestTarget, requestVersion string
	responseVersion, responseReason              string
	responseCode                                 int

	hasContentLength bool
	contentLength    uint64
	transferChunked  bool
	teCount          int

	invalidChars map[byte]uint64

	remaining    uint64
	chunkDecoder chunked.Decoder

	stats Stats
}

// New returns a Framer configured with policy. Zero-valued Header,
// Trailer and Chunk settings are filled from balsapolicy.Default();
// Validation and InvalidCharsLevel are used as given.
func New(policy balsapolicy.Policy) *Framer {
	f := &Framer{}
	f.policy = balsapolicy.Fill(policy)
	f.Reset()

	return f
}

// Reset returns the framer to its initial state for a new message,
// preserving is_request, visitor, storage pointers, and policy, per
// spec.md §4.10.
func (f *Framer) Reset() {
	f.state = ReadingHeaderAndFirstline
	f.errCode = status.BalsaNoError
	f.errFatal = false
	f.hdrBuf = f.hdrBuf[:0]
	f.window.Reset()
	f.firstLineLen = 0
	f.skipLeadingBlank = true
	f.requestMethod, f.requestTarget, f.requestVersion = "", "", ""
	f.responseVersion, f.responseReason = "", ""
	f.responseCode = 0
	f.hasContentLength = false
	f.contentLength = 0
	f.transferChunked = false
	f.teCount = 0
	f.remaining = 0
	f.chunkDecoder.Reset()
	f.chunkDecoder.SetMaxLength(f.policy.Chunk.Maximal)
}

func (f *Framer) SetIsRequest(v bool)                     { f.isRequest = v }
func (f *Framer) SetHeaderStore(s *store.Store)           { f.headerStore = s }
func (f *Framer) SetTrailerStore(s *store.Store)          { f.trailerStore = s }
func (f *Framer) SetContinueStore(s *store.Store)         { f.continueStore = s }
func (f *Framer) SetVisitor(v visitor.Visitor)            { f.visitor = v }
func (f *Framer) SetMaxHeaderLength(n uint64)             { f.policy.Header.Maximal = n }
func (f *Framer) SetInvalidCharsLevel(l balsapolicy.Level) { f.policy.InvalidCharsLevel = l }
func (f *Framer) SetValidationPolicy(v balsapolicy.Validation) {
	f.policy.Validation = v
}

// SetNoBodyExpected tells the framer that the message about to be framed
// carries no body regardless of Content-Length/Transfer-Encoding framing
// (a 1xx/204/304 response, or a HEAD reply). The caller — which knows the
// request method or has classified the response status — supplies this
// before process_input reaches the header terminator.
func (f *Framer) SetNoBodyExpected(v bool) {
	if v {
		f.noBody = bodyHintNoBody
	} else {
		f.noBody = bodyHintNone
	}
}

func (f *Framer) ParseState() ParseState    { return f.state }
func (f *Framer) ErrorCode() status.Code    { return f.errCode }
func (f *Framer) IsError() bool             { return f.state == Error }
func (f *Framer) MessageFullyRead() bool    { return f.state == MessageFullyRead }
func (f *Framer) Stats() Stats              { return f.stats }

func (f *Framer) fail(code status.Code) {
	f.errCode = code
	f.errFatal = true
	f.state = Error
	f.emitError(code)
}

func (f *Framer) warn(code status.Code) {
	f.errCode = code
	f.emitWarning(code)
}

func (f *Framer) emitError(code status.Code) {
	if f.visitor != nil {
		f.visitor.HandleError(code)
	}
}

func (f *Framer) emitWarning(code status.Code) {
	if f.visitor != nil {
		f.visitor.HandleWarning(code)
	}
}

// ProcessInput feeds data into the framer and returns how many leading
// bytes of it were consumed. Once IsError() is true, it always returns 0
// without inspecting data, per invariant 2.
func (f *Framer) ProcessInput(data []byte) int {
	total := len(data)

	for len(data) > 0 {
		if f.state == Error || f.state == MessageFullyRead {
			break
		}

		prevState := f.state
		var n int

		switch f.state {
		case ReadingHeaderAndFirstline:
			n = f.consumeHeaderBlock(data)
		case ReadingContent:
			n = f.consumeSizedBody(data)
		case ReadingUntilClose:
			n = f.consumeUntilClose(data)
		case ReadingChunkLength, ReadingChunkExtension, ReadingChunkData,
			ReadingChunkTerm, ReadingLastChunkTerm:
			n = f.consumeChunked(data)
		case ReadingTrailer:
			n = f.consumeTrailerBlock(data)
		default:
			n = 0
		}

		data = data[n:]

		// A state transition with n == 0 (e.g. the chunked decoder handing
		// off to the trailer parser mid-buffer) still counts as progress:
		// only a stall in both bytes consumed and state warrants stopping.
		if n == 0 && f.state == prevState {
			break
		}
	}

	return total - len(data)
}
