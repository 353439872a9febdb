package balsa

import (
	"strconv"

	"github.com/balsa-http/balsa/scanner"
	"github.com/balsa-http/balsa/status"
	"github.com/indigo-web/utils/strcomp"
)

// trackSemanticsHeader inspects one already-validated header as it is
// parsed, updating the Content-Length/Transfer-Encoding bookkeeping the
// body-framing decision in resolveBodyFraming depends on. Conflicts are
// reported as soon as they're detected rather than deferred, since a
// fatal error here must stop header parsing immediately (spec.md §4.5).
func (f *Framer) trackSemanticsHeader(name, value string) {
	switch {
	case strcomp.EqualFold(name, "content-length"):
		n, err := parseContentLength(value)
		if err != nil {
			f.fail(status.UnparsableContentLength)
			return
		}

		if f.hasContentLength && n != f.contentLength {
			f.fail(status.MultipleContentLengthKeys)
			return
		}

		f.hasContentLength = true
		f.contentLength = n

	case strcomp.EqualFold(name, "transfer-encoding"):
		f.teCount++
		if f.teCount > 1 {
			f.fail(status.MultipleTransferEncodingKeys)
			return
		}

		tok := string(scanner.TrimLWS([]byte(value)))
		switch {
		case strcomp.EqualFold(tok, "chunked"):
			f.transferChunked = true
		case strcomp.EqualFold(tok, "identity"):
			// treated as if Transfer-Encoding were absent
		default:
			if f.policy.Validation.AcceptUnknownTE {
				f.warn(status.UnknownTransferEncoding)
			} else {
				f.fail(status.UnknownTransferEncoding)
			}
		}
	}
}

// parseContentLength requires an all-decimal token (no sign, no leading
// "0x") that fits in 63 bits, per spec.md §4.5.
func parseContentLength(s string) (uint64, error) {
	if len(s) == 0 {
		return 0, strconv.ErrSyntax
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}

	return strconv.ParseUint(s, 10, 63)
}

// resolveBodyFraming runs once the header block (and process_headers) has
// been delivered, implementing the transition table in spec.md §4.1:
// Transfer-Encoding: chunked wins over Content-Length, which wins over
// read-until-close, which only applies to responses. A request with
// neither is bodyless; only POST and PUT requests then raise
// MaybeBodyButNoContentLength, or RequiredBodyButNoContentLength under
// RequireContentLength.
func (f *Framer) resolveBodyFraming() {
	if f.noBody == bodyHintNoBody {
		f.completeMessage()
		return
	}

	if f.transferChunked {
		f.state = ReadingChunkLength
		return
	}

	if f.hasContentLength {
		if f.contentLength == 0 {
			f.completeMessage()
			return
		}

		f.remaining = f.contentLength
		f.state = ReadingContent
		return
	}

	if !f.isRequest {
		f.state = ReadingUntilClose
		return
	}

	if f.requestVersion == "" {
		// HTTP/0.9: no header block, no body framing to speak of.
		f.completeMessage()
		return
	}

	if f.requestMethod != "POST" && f.requestMethod != "PUT" {
		f.completeMessage()
		return
	}

	if f.policy.Validation.RequireContentLength {
		f.fail(status.RequiredBodyButNoContentLength)
		return
	}

	f.warn(status.MaybeBodyButNoContentLength)
	f.completeMessage()
}

func (f *Framer) completeMessage() {
	f.state = MessageFullyRead

	if f.visitor != nil {
		f.visitor.MessageDone()
	}
}
