// Package balsapolicy carries the tunable limits and validation flags a
// Framer is configured with. It follows the teacher's settings.Setting[T]
// pattern (settings/settings.go): a Default/Maximal pair per bounded
// resource, filled in from Default() wherever the caller leaves a field
// at its zero value.
package balsapolicy

type number interface {
	int | int8 | int16 | int32 | int64 | uint | uint8 | uint16 | uint32 | uint64
}

// Setting pairs a soft default with a hard ceiling for one bounded
// resource, mirroring settings.Setting[T] in the teacher.
type Setting[T number] struct {
	Default T
	Maximal T
}

// Level controls how the scanner reacts to an invalid octet: silently
// accept it, accept but record it as a warning, or treat it as fatal.
type Level uint8

const (
	Off Level = iota
	Warn
	Fatal
)

type (
	// HeaderLength bounds a single header block: Default is the arena's
	// initial preallocation, Maximal is max_header_length.
	HeaderLength Setting[uint64]

	// TrailerLength bounds a trailer block the same way headers are bounded.
	TrailerLength Setting[uint64]

	// ChunkLength bounds a single chunk's declared size; Maximal guards
	// against a chunk-size token that would still fit in 64 bits but is
	// absurd for any real message.
	ChunkLength Setting[uint64]
)

// Validation carries the recognized http_validation_policy flags from
// spec.md §6.
type Validation struct {
	// AcceptUnknownTE, when true, downgrades an unrecognized
	// Transfer-Encoding token from fatal to a warning; the body is then
	// framed as if Transfer-Encoding were absent.
	AcceptUnknownTE bool
	// RequireContentLength, when true, makes a POST or PUT request with
	// neither Content-Length nor chunked Transfer-Encoding a fatal error
	// instead of a warning.
	RequireContentLength bool
	// AllowObsFoldInHeader, when true, accepts a header continuation line
	// (one starting with LWS). When false, such a line is fatal.
	AllowObsFoldInHeader bool
}

// Policy is the full set of tunables a Framer reads at reset() and while
// running. Any zero-valued Setting is filled from Default() the first
// time a Framer is constructed with it.
type Policy struct {
	Header  HeaderLength
	Trailer TrailerLength
	Chunk   ChunkLength

	InvalidCharsLevel Level
	Validation        Validation
}

// Default returns the policy a bare New() Framer starts with: a 64 KiB
// header/trailer ceiling (spec.md §3's "typical 64 KiB"), a preallocation
// far below it, and lenient validation.
func Default() Policy {
	return Policy{
		Header: HeaderLength{
			Default: 4096,
			Maximal: 64 * 1024,
		},
		Trailer: TrailerLength{
			Default: 1024,
			Maximal: 64 * 1024,
		},
		Chunk: ChunkLength{
			Default: 4096,
			Maximal: 1 << 40,
		},
		InvalidCharsLevel: Off,
		Validation: Validation{
			AcceptUnknownTE:      false,
			RequireContentLength: false,
			AllowObsFoldInHeader: true,
		},
	}
}

// Fill returns p with every zero-valued Setting field replaced by the
// corresponding field from Default(), mirroring settings.Fill.
func Fill(p Policy) Policy {
	def := Default()

	p.Header.Default = customOrDefault(p.Header.Default, def.Header.Default)
	p.Header.Maximal = customOrDefault(p.Header.Maximal, def.Header.Maximal)
	p.Trailer.Default = customOrDefault(p.Trailer.Default, def.Trailer.Default)
	p.Trailer.Maximal = customOrDefault(p.Trailer.Maximal, def.Trailer.Maximal)
	p.Chunk.Default = customOrDefault(p.Chunk.Default, def.Chunk.Default)
	p.Chunk.Maximal = customOrDefault(p.Chunk.Maximal, def.Chunk.Maximal)

	return p
}

func customOrDefault[T number](custom, defaultVal T) T {
	if custom == 0 {
		return defaultVal
	}

	return custom
}
