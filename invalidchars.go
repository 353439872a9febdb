package balsa

import (
	"github.com/balsa-http/balsa/balsapolicy"
	"github.com/balsa-http/balsa/status"
)

// scanInvalidChars applies the invalid-char policy to b, which may be a
// start-line, a header name, or a header value (spec.md §3's
// off/warn-and-count/fatal policy is not scoped to header values alone).
// Under Fatal it stops at the first offending byte and fails the parse,
// reporting true so the caller can bail out immediately. Under Warn it
// tallies every offending byte into invalidChars and raises exactly one
// warning per call, matching balsa_frame_test.cc's
// InvalidCharsWarningSet expectation that a single input still yields a
// single warning even when it carries several bad bytes.
func (f *Framer) scanInvalidChars(b []byte) (fatal bool) {
	if f.policy.InvalidCharsLevel == balsapolicy.Off {
		return false
	}

	warned := false

	for _, c := range b {
		if !isInvalidValueOctet(c) {
			continue
		}

		if f.policy.InvalidCharsLevel == balsapolicy.Fatal {
			f.fail(status.InvalidHeaderCharacter)
			return true
		}

		if f.invalidChars == nil {
			f.invalidChars = make(map[byte]uint64)
		}
		f.invalidChars[c]++

		if !warned {
			warned = true
			f.warn(status.InvalidHeaderCharacter)
		}
	}

	return false
}

// InvalidCharCounts reports how many times each byte value has tripped
// the invalid-char policy since the Framer was constructed (it survives
// Reset, like Stats, since it tracks the connection's history rather
// than one message's). Empty under the Off policy or when nothing has
// tripped it yet.
func (f *Framer) InvalidCharCounts() map[byte]uint64 {
	return f.invalidChars
}
