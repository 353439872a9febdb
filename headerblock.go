package balsa

import "github.com/balsa-http/balsa/scanner"

// consumeHeaderBlock accumulates bytes into hdrBuf until the header-block
// terminator is matched, then parses the whole block at once: start-line
// first, then header lines. This trades the fully byte-at-a-time style of
// the teacher's own request parser for a simpler two-phase scan, while
// preserving the same external contract (incremental feeding, exact byte
// accounting, identical event sequence regardless of how input is split).
func (f *Framer) consumeHeaderBlock(data []byte) int {
	for i, c := range data {
		if f.skipLeadingBlank {
			if c == '\r' || c == '\n' {
				continue
			}

			f.skipLeadingBlank = false
		}

		if uint64(len(f.hdrBuf)) >= f.policy.Header.Maximal {
			f.fail(headerLimitError(false))
			return i + 1
		}

		f.hdrBuf = append(f.hdrBuf, c)

		if f.firstLineLen == 0 && c == '\n' {
			f.firstLineLen = len(f.hdrBuf)

			if f.isRequest && missingRequestVersion(stripTrailingCRLF(f.hdrBuf)) {
				f.termLen = 0
				f.stats.HeaderBytes += uint64(len(f.hdrBuf))
				f.finishHeaderBlock()

				return i + 1
			}
		}

		term, termLen := f.window.Push(c)
		if term != scanner.NoTerminator {
			f.window.Reset()
			f.termLen = termLen
			f.stats.HeaderBytes += uint64(len(f.hdrBuf))
			f.finishHeaderBlock()

			return i + 1
		}
	}

	return len(data)
}
