package balsa

import "github.com/balsa-http/balsa/scanner"

// beginTrailerBlock resets the scanning state shared with header
// parsing for a fresh trailer block. Unlike the header block, a trailer
// never starts with a start-line, so firstLineLen has no meaning here.
func (f *Framer) beginTrailerBlock() {
	f.hdrBuf = f.hdrBuf[:0]
	f.window.Reset()
	f.termLen = 0
}

// consumeTrailerBlock accumulates and parses a trailer block, reusing
// the header-line parser with isTrailer=true (spec.md §4.7): no
// obs-fold, InvalidTrailerNameCharacter/TrailerTooLong in place of the
// header equivalents, and process_trailers skipped when no trailer
// store is attached.
func (f *Framer) consumeTrailerBlock(data []byte) int {
	for i, c := range data {
		if uint64(len(f.hdrBuf)) >= f.policy.Trailer.Maximal {
			f.fail(headerLimitError(true))
			return i + 1
		}

		f.hdrBuf = append(f.hdrBuf, c)

		term, termLen := f.window.Push(c)
		if term != scanner.NoTerminator {
			f.window.Reset()

			block := f.hdrBuf[:len(f.hdrBuf)-termLen]
			f.parseHeaderLines(block, f.trailerStore, true)

			if f.state == Error {
				return i + 1
			}

			if f.visitor != nil {
				f.visitor.OnTrailerInput(f.hdrBuf)

				if f.trailerStore != nil {
					f.visitor.ProcessTrailers(f.trailerStore)
				}
			}

			f.completeMessage()

			return i + 1
		}
	}

	return len(data)
}
