// Package scanner classifies octets the framer sees while walking a
// request or response: RFC 7230 tchar, control characters, linear
// whitespace, and hex digits, plus detection of the two header-block
// terminator shapes the framer accepts (CRLFCRLF and LFLF). The lookup
// tables follow the teacher's internal/hexconv.decodeTable idiom: a
// 256-entry array indexed by the byte itself, no branching.
package scanner

// Terminator identifies which shape of header-block terminator was found,
// so the framer can record the exact byte count consumed by it.
type Terminator uint8

const (
	NoTerminator Terminator = iota
	CRLFCRLF
	LFLF
)

var tcharTable [256]bool

func init() {
	for c := 'a'; c <= 'z'; c++ {
		tcharTable[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		tcharTable[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		tcharTable[c] = true
	}
	for _, c := range "!#$%&'*+-.^_`|~" {
		tcharTable[c] = true
	}
}

// IsTChar reports whether c is a valid RFC 7230 token character, the
// charset header names are validated against.
func IsTChar(c byte) bool {
	return tcharTable[c]
}

// IsCTL reports whether c is a control character: 0x00-0x1F or DEL
// (0x7F). The horizontal tab is included.
func IsCTL(c byte) bool {
	return c <= 0x1F || c == 0x7F
}

// IsLWS reports whether c is linear whitespace: space or horizontal tab.
func IsLWS(c byte) bool {
	return c == ' ' || c == '\t'
}

var hexTable [256]int8

func init() {
	for i := range hexTable {
		hexTable[i] = -1
	}
	for c := '0'; c <= '9'; c++ {
		hexTable[c] = int8(c - '0')
	}
	for c := 'a'; c <= 'f'; c++ {
		hexTable[c] = int8(c-'a') + 10
	}
	for c := 'A'; c <= 'F'; c++ {
		hexTable[c] = int8(c-'A') + 10
	}
}

// IsHex reports whether c is a hexadecimal digit.
func IsHex(c byte) bool {
	return hexTable[c] != -1
}

// Hex returns the numeric value of a hexadecimal digit; the caller must
// have checked IsHex first.
func Hex(c byte) byte {
	return byte(hexTable[c])
}

// TrimLWS trims leading and trailing space/tab from b.
func TrimLWS(b []byte) []byte {
	for len(b) > 0 && IsLWS(b[0]) {
		b = b[1:]
	}
	for len(b) > 0 && IsLWS(b[len(b)-1]) {
		b = b[:len(b)-1]
	}

	return b
}

// Window tracks the last few bytes seen so header-block terminators
// spanning a call boundary (CRLFCRLF, LFLF, and their CRLF/LFCR
// permutations) are still recognized when the input is fed one byte
// at a time. Besides the strict CRLFCRLF and LFLF shapes, the mixed
// CRLFLF and LFCRLF forms are accepted too, matching real-world
// traffic that mixes line-ending styles across the last header line
// and the blank line following it.
type Window struct {
	buf [4]byte
	n   int
}

// Push feeds a single byte into the window and reports whether it just
// completed a header-block terminator, along with the terminator's exact
// length in bytes (2, 3 or 4) so the caller can account for it precisely.
func (w *Window) Push(c byte) (term Terminator, length int) {
	if w.n < len(w.buf) {
		w.buf[w.n] = c
		w.n++
	} else {
		copy(w.buf[:3], w.buf[1:])
		w.buf[3] = c
	}

	tail := w.buf[:w.n]

	if w.n >= 4 && suffixEqual(tail, "\r\n\r\n") {
		return CRLFCRLF, 4
	}
	if w.n >= 3 && (suffixEqual(tail, "\r\n\n") || suffixEqual(tail, "\n\r\n")) {
		return LFLF, 3
	}
	if w.n >= 2 && suffixEqual(tail, "\n\n") {
		return LFLF, 2
	}

	return NoTerminator, 0
}

func suffixEqual(buf []byte, pattern string) bool {
	if len(buf) < len(pattern) {
		return false
	}

	return string(buf[len(buf)-len(pattern):]) == pattern
}

// Reset clears the window, e.g. after a message's headers are framed.
func (w *Window) Reset() {
	w.n = 0
}
