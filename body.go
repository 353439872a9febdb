package balsa

import (
	"github.com/balsa-http/balsa/chunked"
	"github.com/balsa-http/balsa/status"
)

// consumeSizedBody streams a Content-Length-bounded body.
func (f *Framer) consumeSizedBody(data []byte) int {
	n := f.remaining
	if uint64(len(data)) < n {
		n = uint64(len(data))
	}

	chunk := data[:n]
	f.remaining -= n
	f.stats.BodyBytesRead += n

	if f.visitor != nil {
		f.visitor.OnRawBodyInput(chunk)
		f.visitor.OnBodyChunkInput(chunk)
	}

	if f.remaining == 0 {
		f.completeMessage()
	}

	return int(n)
}

// consumeUntilClose streams every byte fed to it as body content; the
// message only completes when the caller calls NotifyClose, since there
// is no length framing to detect the end from the bytes alone.
func (f *Framer) consumeUntilClose(data []byte) int {
	f.stats.BodyBytesRead += uint64(len(data))

	if f.visitor != nil {
		f.visitor.OnRawBodyInput(data)
		f.visitor.OnBodyChunkInput(data)
	}

	return len(data)
}

// NotifyClose tells the framer the connection has closed, the only way a
// read-until-close response body concludes (spec.md invariant 5).
func (f *Framer) NotifyClose() {
	if f.state == ReadingUntilClose {
		f.completeMessage()
	}
}

// consumeChunked drives the chunked sub-decoder, translating its events
// into ParseState transitions and visitor callbacks. Every byte the
// decoder reports via raw reaches OnRawBodyInput, not just decoded
// chunk data, since spec.md §4.9 counts the chunk-size line, extension
// text, and CRLF framing as body input too — even when a chunk turns
// out to be malformed, whatever framing bytes led up to the error are
// still delivered before the framer halts.
func (f *Framer) consumeChunked(data []byte) int {
	total := len(data)
	cur := data

	for {
		ev, out, raw, rest, err := f.chunkDecoder.Parse(cur)

		if len(raw) > 0 && f.visitor != nil {
			f.visitor.OnRawBodyInput(raw)
		}

		if err != nil {
			balsaErr, ok := err.(status.Error)
			if !ok {
				f.fail(status.InternalLogicError)
			} else {
				f.fail(balsaErr.Code)
			}

			cur = rest

			return total - len(cur)
		}

		switch ev {
		case chunked.EventChunkHeader:
			f.state = ReadingChunkData
			if f.visitor != nil {
				f.visitor.OnChunkLength(f.chunkDecoder.Remaining())
			}

		case chunked.EventChunkExtension:
			f.state = ReadingChunkExtension
			if f.visitor != nil {
				f.visitor.OnChunkExtensionInput(out)
			}

		case chunked.EventChunkData:
			f.state = ReadingChunkData
			f.stats.BodyBytesRead += uint64(len(out))
			if f.visitor != nil {
				f.visitor.OnBodyChunkInput(out)
			}

		case chunked.EventLastChunk:
			f.state = ReadingLastChunkTerm
			if f.visitor != nil {
				f.visitor.OnChunkLength(0)
			}

		case chunked.EventTrailerStart:
			f.state = ReadingTrailer
			f.beginTrailerBlock()
			cur = rest

			return total - len(cur)

		case chunked.EventBodyDone:
			f.completeMessage()
			cur = rest

			return total - len(cur)
		}

		cur = rest

		if ev == chunked.EventNone || len(cur) == 0 {
			return total - len(cur)
		}
	}
}

// BytesSafeToSplice reports how many body bytes the framer would expect
// to consume next via ProcessInput, and so may instead be delivered by a
// side channel via BytesSpliced. In ReadingUntilClose, credit is
// unbounded and reported as ^uint64(0).
func (f *Framer) BytesSafeToSplice() uint64 {
	switch f.state {
	case ReadingContent:
		return f.remaining
	case ReadingChunkData:
		return f.chunkDecoder.Remaining()
	case ReadingUntilClose:
		return ^uint64(0)
	default:
		return 0
	}
}

// BytesSpliced deducts n bytes from the current body credit without
// them passing through ProcessInput, per spec.md §4.8.
func (f *Framer) BytesSpliced(n uint64) {
	switch f.state {
	case ReadingContent:
		if n > f.remaining {
			f.fail(status.CalledBytesSplicedAndExceededSafeSpliceAmount)
			return
		}

		f.remaining -= n
		f.stats.BodyBytesRead += n
		f.stats.SplicedBytes += n

		if f.remaining == 0 {
			f.completeMessage()
		}

	case ReadingChunkData:
		if n > f.chunkDecoder.Remaining() {
			f.fail(status.CalledBytesSplicedAndExceededSafeSpliceAmount)
			return
		}

		f.chunkDecoder.Splice(n)
		f.stats.BodyBytesRead += n
		f.stats.SplicedBytes += n

	case ReadingUntilClose:
		f.stats.BodyBytesRead += n
		f.stats.SplicedBytes += n

	default:
		f.fail(status.CalledBytesSplicedWhenUnsafeToDoSo)
	}
}
