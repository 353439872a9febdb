package balsa

import (
	"github.com/balsa-http/balsa/scanner"
	"github.com/balsa-http/balsa/status"
	"github.com/balsa-http/balsa/store"
)

// finishHeaderBlock runs once the full header-block terminator has been
// matched: it parses the start-line, splits and validates the header
// lines, resolves body-framing semantics, and transitions to the
// appropriate next ParseState.
func (f *Framer) finishHeaderBlock() {
	f.parseStartLine()
	if f.state == Error {
		return
	}

	// With no header lines, the terminator absorbs the first line's own
	// line ending, so the block's end can fall before its start.
	end := len(f.hdrBuf) - f.termLen
	if end < f.firstLineLen {
		end = f.firstLineLen
	}
	block := f.hdrBuf[f.firstLineLen:end]

	// spec.md §4.1: a 1xx response only takes the interim path when
	// continue_headers storage has actually been provided. Without one
	// attached, a 1xx status is just an ordinary response header block.
	if !f.isRequest && f.responseCode/100 == 1 && f.continueStore != nil {
		f.parseHeaderLines(block, f.continueStore, false)
		if f.state == Error {
			return
		}

		if f.visitor != nil {
			f.visitor.OnInterimHeaders(f.continueStore)
			f.visitor.ContinueHeaderDone()
		}

		f.Reset()
		return
	}

	f.parseHeaderLines(block, f.headerStore, false)
	if f.state == Error {
		return
	}

	if f.visitor != nil {
		f.visitor.OnHeaderInput(f.hdrBuf)

		if f.headerStore != nil {
			f.visitor.ProcessHeaders(f.headerStore)
		}

		f.visitor.HeaderDone()
	}

	f.resolveBodyFraming()
}

// parseHeaderLines splits block into logical header lines (honoring
// obs-fold unless isTrailer is set or the policy's AllowObsFoldInHeader
// is false, per spec.md §4.4) and validates and records each one. When
// dst is nil, lines are still validated and delivered via OnHeader, but
// nothing is recorded.
func (f *Framer) parseHeaderLines(block []byte, dst *store.Store, isTrailer bool) {
	allowFold := !isTrailer && f.policy.Validation.AllowObsFoldInHeader

	var lines [][]byte
	start := 0

	// The last line has no LF of its own (the terminator absorbed it), so
	// the end of block also ends a line.
	for i := 0; i <= len(block); i++ {
		if i < len(block) && block[i] != '\n' {
			continue
		}
		if i == len(block) && start == len(block) {
			break
		}

		line := block[start:i]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		start = i + 1

		if allowFold && len(line) > 0 && scanner.IsLWS(line[0]) && len(lines) > 0 {
			lines[len(lines)-1] = append(lines[len(lines)-1], ' ')
			lines[len(lines)-1] = append(lines[len(lines)-1], scanner.TrimLWS(line)...)
			continue
		}

		if len(line) > 0 && scanner.IsLWS(line[0]) {
			if isTrailer {
				f.fail(status.InvalidTrailerNameCharacter)
			} else {
				f.fail(status.InvalidHeaderNameCharacter)
			}

			return
		}

		lines = append(lines, append([]byte(nil), line...))
	}

	for _, line := range lines {
		f.parseOneHeaderLine(line, dst, isTrailer)
		if f.state == Error {
			return
		}
	}
}

func (f *Framer) parseOneHeaderLine(line []byte, dst *store.Store, isTrailer bool) {
	colon := indexByte(line, ':')

	if colon == -1 {
		if isTrailer {
			f.warn(status.TrailerMissingColon)
		} else {
			f.warn(status.HeaderMissingColon)
		}

		return
	}

	name := line[:colon]
	value := scanner.TrimLWS(line[colon+1:])

	if len(name) == 0 {
		if isTrailer {
			f.fail(status.InvalidTrailerNameCharacter)
		} else {
			f.fail(status.InvalidHeaderFormat)
		}

		return
	}

	// Run the invalid-char policy before the tchar check below fails the
	// line outright: a control character in a header name should still
	// be counted/warned about under the policy even though it also trips
	// the stricter, always-fatal tchar rule that follows.
	if f.scanInvalidChars(name) {
		return
	}

	for _, c := range name {
		if !scanner.IsTChar(c) {
			if isTrailer {
				f.fail(status.InvalidTrailerNameCharacter)
			} else {
				f.fail(status.InvalidHeaderNameCharacter)
			}

			return
		}
	}

	if f.scanInvalidChars(value) {
		return
	}

	nameStr, valueStr := string(name), string(value)

	if dst != nil {
		nameSpan, ok1 := dst.Append(name)
		valueSpan, ok2 := dst.Append(value)
		if ok1 && ok2 {
			dst.Record(nameSpan, valueSpan)
		}
	}

	if f.visitor != nil {
		f.visitor.OnHeader(nameStr, valueStr)
	}

	if !isTrailer {
		f.trackSemanticsHeader(nameStr, valueStr)
	}
}

func isInvalidValueOctet(c byte) bool {
	if c == '\t' || c == '\n' || c == '\r' {
		return false
	}

	return c <= 0x1F || c == 0x7F
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}

	return -1
}
