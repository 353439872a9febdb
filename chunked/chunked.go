// Package chunked implements the chunked-transfer sub-state-machine
// described in spec.md §4.6. It is grounded on the teacher's
// internal/protocol/http1/chunked.go, generalized to report chunk
// extensions to a caller instead of discarding them, and to hand the
// trailer decision back to the caller instead of parsing trailer field
// lines itself (that stays the header parser's job, per spec.md §4.7).
//
// Parse reports every byte it consumes via raw, not just decoded chunk
// data, since a caller wiring on_raw_body_input needs the chunk-size
// line, extensions, and CRLF framing too (spec.md §4.9): "every body
// byte including chunk framing".
package chunked

import (
	"github.com/balsa-http/balsa/scanner"
	"github.com/balsa-http/balsa/status"
)

type state uint8

const (
	stLength state = iota
	stExtension
	stLengthCR
	stAfterHeader
	stData
	stDataDone
	stDataCR
	stTrailerPeek
)

// Event tags what Parse just produced so the caller can dispatch the
// right visitor hook without re-deriving it from field zero-values.
type Event uint8

const (
	// EventNone means Parse consumed input but has nothing to report yet.
	EventNone Event = iota
	// EventChunkHeader fires once a chunk's length line (and any
	// extension) has been fully consumed, before any of its data. The
	// caller should read Remaining() at this point to learn the chunk's
	// declared length; a subsequent Parse call streams the data itself.
	EventChunkHeader
	// EventChunkData carries a slice of decoded body bytes in out.
	EventChunkData
	// EventChunkExtension carries the raw extension bytes (without the
	// leading ';' or the trailing CRLF or LF) in out.
	EventChunkExtension
	// EventLastChunk fires exactly once, when the zero-length chunk's
	// length line has been fully consumed. The trailer/no-trailer
	// decision follows in a later call, reported as EventTrailerStart
	// or EventBodyDone.
	EventLastChunk
	// EventTrailerStart fires when the byte following the last chunk is
	// not itself a blank line: a trailer block follows, at the position
	// given by rest. The caller should hand rest to the trailer parser.
	EventTrailerStart
	// EventBodyDone fires when the last chunk is immediately followed by
	// the blank-line terminator: there is no trailer.
	EventBodyDone
)

// Decoder is the chunked-body sub-state-machine. A zero Decoder is ready
// to use, with no configured ceiling on a chunk's declared length beyond
// what fits in 64 bits.
type Decoder struct {
	state     state
	length    uint64
	maxLength uint64
}

// SetMaxLength caps the length a chunk-size line may declare, per
// balsapolicy.Policy.Chunk.Maximal: a chunk-size token that parses fine
// as a 64-bit integer but is absurd for any real message (spec.md §3)
// is rejected the same way an outright overflow is. The ceiling is checked
// when the chunk-size token ends (at its CR, LF or ';'), so a token too
// long for 64 bits still fails at the digit that overflows. n == 0 means
// no ceiling beyond the 64-bit one.
func (d *Decoder) SetMaxLength(n uint64) {
	d.maxLength = n
}

// Parse consumes as much of data as forms complete chunk framing,
// returning the event produced, the bytes classified by it (only
// meaningful for EventChunkData/EventChunkExtension), raw (every byte
// of data this call actually consumed, decoded or not — chunk-size
// digits, extension text, CRLFs, the trailer-or-not lookahead byte),
// the remaining unconsumed bytes, and an error if the chunk framing is
// malformed or its length overflows. raw is populated even when err is
// non-nil, since the bytes leading up to a malformed chunk are still
// real body input a caller must account for. Callers should keep
// calling Parse with the returned rest until it stops making progress
// (ev == EventNone and rest is empty), since a single input slice can
// carry more than one event's worth of framing.
func (d *Decoder) Parse(data []byte) (ev Event, out, raw, rest []byte, err error) {
	orig := data

	defer func() {
		if len(orig) > len(rest) {
			raw = orig[:len(orig)-len(rest)]
		}
	}()

	switch d.state {
	case stLength:
		goto length
	case stExtension:
		goto extension
	case stLengthCR:
		goto lengthCR
	case stAfterHeader:
		goto afterHeader
	case stData:
		goto dataChunk
	case stDataDone:
		goto dataDone
	case stDataCR:
		goto dataCR
	case stTrailerPeek:
		goto trailerPeek
	}

length:
	for i := 0; i < len(data); i++ {
		c := data[i]
		if (c == '\r' || c == '\n' || c == ';') && d.maxLength != 0 && d.length > d.maxLength {
			return EventNone, nil, nil, data[i+1:], status.NewError(status.ChunkLengthOverflow)
		}

		switch c {
		case '\r':
			data = data[i+1:]
			goto lengthCR
		case '\n':
			data = data[i+1:]
			d.state = stAfterHeader
			goto afterHeader
		case ';':
			d.state = stExtension
			return EventNone, nil, nil, data[i+1:], nil
		case ' ', '\t':
			// tolerate whitespace runs before the terminator or extension
		default:
			if !scanner.IsHex(c) {
				return EventNone, nil, nil, data[i+1:], status.NewError(status.InvalidChunkLength)
			}

			if d.length>>60 != 0 {
				return EventNone, nil, nil, data[i+1:], status.NewError(status.ChunkLengthOverflow)
			}

			d.length = d.length<<4 | uint64(scanner.Hex(c))
		}
	}

	d.state = stLength
	return EventNone, nil, nil, nil, nil

extension:
	{
		if len(data) == 0 {
			d.state = stExtension
			return EventNone, nil, nil, nil, nil
		}

		nl := indexByte(data, '\n')
		if nl == -1 {
			return EventChunkExtension, data, nil, nil, nil
		}

		ext := data[:nl]
		if len(ext) > 0 && ext[len(ext)-1] == '\r' {
			ext = ext[:len(ext)-1]
		}

		d.state = stAfterHeader
		return EventChunkExtension, ext, nil, data[nl+1:], nil
	}

lengthCR:
	if len(data) == 0 {
		d.state = stLengthCR
		return EventNone, nil, nil, nil, nil
	}

	if data[0] != '\n' {
		return EventNone, nil, nil, data[1:], status.NewError(status.InvalidChunkLength)
	}

	data = data[1:]
	d.state = stAfterHeader
	goto afterHeader

afterHeader:
	if d.length == 0 {
		d.state = stTrailerPeek
		return EventLastChunk, nil, nil, data, nil
	}

	d.state = stData
	return EventChunkHeader, nil, nil, data, nil

dataChunk:
	{
		if len(data) == 0 {
			d.state = stData
			return EventNone, nil, nil, nil, nil
		}

		n := d.length
		if uint64(len(data)) < n {
			n = uint64(len(data))
		}

		d.length -= n
		out = data[:n]
		rest = data[n:]

		if d.length == 0 {
			d.state = stDataDone
		} else {
			d.state = stData
		}

		return EventChunkData, out, nil, rest, nil
	}

dataDone:
	if len(data) == 0 {
		d.state = stDataDone
		return EventNone, nil, nil, nil, nil
	}

	switch data[0] {
	case '\r':
		data = data[1:]
		d.state = stDataCR
		goto dataCR
	case '\n':
		data = data[1:]
		d.state = stLength
		goto length
	default:
		return EventNone, nil, nil, data[1:], status.NewError(status.InvalidChunkLength)
	}

dataCR:
	if len(data) == 0 {
		d.state = stDataCR
		return EventNone, nil, nil, nil, nil
	}

	if data[0] != '\n' {
		return EventNone, nil, nil, data[1:], status.NewError(status.InvalidChunkLength)
	}

	data = data[1:]
	d.state = stLength
	goto length

trailerPeek:
	if len(data) == 0 {
		return EventNone, nil, nil, nil, nil
	}

	switch data[0] {
	case '\r':
		if len(data) < 2 {
			return EventNone, nil, nil, nil, nil
		}
		if data[1] != '\n' {
			return EventNone, nil, nil, data[2:], status.NewError(status.InvalidChunkLength)
		}

		d.state = stLength
		return EventBodyDone, nil, nil, data[2:], nil
	case '\n':
		d.state = stLength
		return EventBodyDone, nil, nil, data[1:], nil
	default:
		d.state = stLength
		return EventTrailerStart, nil, nil, data, nil
	}
}

// Remaining reports the number of bytes still expected in the chunk
// currently being streamed, used to bound bytes_safe_to_splice.
func (d *Decoder) Remaining() uint64 {
	return d.length
}

// InData reports whether the decoder is mid-chunk-data, the only
// sub-state in which splicing is meaningful.
func (d *Decoder) InData() bool {
	return d.state == stData
}

// Splice deducts n bytes from the current chunk's remaining count
// without them passing through Parse, for a caller that delivered them
// out-of-band. The caller must ensure n does not exceed Remaining().
func (d *Decoder) Splice(n uint64) {
	d.length -= n

	if d.length == 0 {
		d.state = stDataDone
	}
}

// Reset returns the decoder to its initial state, preserving the
// configured max length the same way Framer.Reset preserves policy.
func (d *Decoder) Reset() {
	*d = Decoder{maxLength: d.maxLength}
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}

	return -1
}
