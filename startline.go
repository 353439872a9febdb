package balsa

import (
	"strconv"

	"github.com/balsa-http/balsa/scanner"
	"github.com/balsa-http/balsa/status"
)

// nextToken skips leading LWS in s, then returns the next run of
// non-LWS bytes and whatever follows it.
func nextToken(s string) (tok, rest string) {
	for len(s) > 0 && scanner.IsLWS(s[0]) {
		s = s[1:]
	}

	i := 0
	for i < len(s) && !scanner.IsLWS(s[i]) {
		i++
	}

	return s[:i], s[i:]
}

// missingRequestVersion reports whether line (a request line with its
// terminator already stripped) has fewer than three whitespace-separated
// tokens, i.e. no HTTP-version token — an HTTP/0.9 request line, which
// carries no headers and no body at all.
func missingRequestVersion(line []byte) bool {
	_, rest := nextToken(string(line))
	if len(rest) == 0 {
		return true
	}

	_, rest = nextToken(rest)

	return len(rest) == 0
}

func stripTrailingCRLF(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	if len(b) > 0 && b[len(b)-1] == '\r' {
		b = b[:len(b)-1]
	}

	return b
}

// parseStartLine dispatches to the request or response line parser over
// the bytes accumulated as the message's first line. The invalid-char
// policy runs over the raw line first, per balsa_frame_test.cc's
// InvalidCharInFirstLine: a NUL or other control byte embedded in the
// request/status line is tracked the same way one in a header value is.
func (f *Framer) parseStartLine() {
	raw := stripTrailingCRLF(f.hdrBuf[:f.firstLineLen])
	if f.scanInvalidChars(raw) {
		return
	}

	line := string(raw)

	if f.isRequest {
		f.parseRequestLine(line)
	} else {
		f.parseResponseLine(line)
	}
}

func (f *Framer) parseRequestLine(full string) {
	if len(full) == 0 {
		f.fail(status.NoRequestLineInRequest)
		return
	}

	method, rest := nextToken(full)
	if len(rest) == 0 {
		f.requestMethod = method
		f.warn(status.FailedToFindWsAfterRequestMethod)

		if f.visitor != nil {
			f.visitor.OnRequestFirstLine(full, method, "", "")
		}

		return
	}

	target, rest := nextToken(rest)
	if len(rest) == 0 {
		f.requestMethod, f.requestTarget = method, target
		f.warn(status.FailedToFindWsAfterRequestRequestUri)

		if f.visitor != nil {
			f.visitor.OnRequestFirstLine(full, method, target, "")
		}

		return
	}

	version, _ := nextToken(rest)
	f.requestMethod, f.requestTarget, f.requestVersion = method, target, version

	if f.visitor != nil {
		f.visitor.OnRequestFirstLine(full, method, target, version)
	}
}

func (f *Framer) parseResponseLine(full string) {
	if len(full) == 0 {
		f.fail(status.NoStatusLineInResponse)
		return
	}

	version, rest := nextToken(full)
	if len(rest) == 0 {
		f.fail(status.FailedToFindWsAfterResponseVersion)
		return
	}

	statusTok, rest := nextToken(rest)
	if len(statusTok) == 0 {
		f.fail(status.FailedToFindWsAfterResponseStatuscode)
		return
	}

	code, err := parseStatusCode(statusTok)
	if err != nil {
		f.fail(status.FailedConvertingStatusCodeToInt)
		return
	}

	for len(rest) > 0 && scanner.IsLWS(rest[0]) {
		rest = rest[1:]
	}
	reason := rest

	f.responseVersion, f.responseCode, f.responseReason = version, code, reason

	if f.visitor != nil {
		f.visitor.OnResponseFirstLine(full, version, code, reason)
	}
}

// parseStatusCode requires all-decimal digits, matching spec.md §4.3's
// prohibition on sign characters, hex, or non-ASCII.
func parseStatusCode(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}

	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}

	return int(n), nil
}
