// Package store implements the concrete header/trailer storage the framer
// writes into. It corresponds to what spec.md calls BalsaHeaders: an
// append-only byte arena plus a table of (name, value) span pairs pointing
// into it. Spans are index-based rather than raw pointers, so the arena can
// grow without invalidating records already handed out to a visitor.
package store

import (
	"iter"

	"github.com/indigo-web/utils/buffer"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// Span is an (offset, length) pair into a Store's byte arena.
type Span struct {
	Offset, Length int
}

func (s Span) Empty() bool {
	return s.Length == 0
}

// Record is a single stored header or trailer field.
type Record struct {
	Name, Value Span
}

// Store is the growable arena backing a single header or trailer block.
// It is not safe for concurrent use, matching the framer's single-threaded
// contract.
type Store struct {
	arena   buffer.Buffer[byte]
	records []Record
}

// New returns a Store whose arena may grow up to maxLen bytes.
func New(prealloc, maxLen int) *Store {
	return &Store{
		arena: *buffer.NewBuffer[byte](prealloc, maxLen),
	}
}

// Len reports how many bytes are currently held in the arena.
func (s *Store) Len() int {
	return s.arenaLen()
}

// Append writes bytes into the arena and returns the span they occupy.
// Returns ok=false if the write would exceed the configured maximum.
func (s *Store) Append(b []byte) (span Span, ok bool) {
	offset := s.arenaLen()
	if !s.arena.Append(b...) {
		return Span{}, false
	}

	return Span{Offset: offset, Length: len(b)}, true
}

func (s *Store) arenaLen() int {
	// SegmentLength reports bytes appended since the last Finish; as Store
	// never calls Finish, it equals the whole arena length.
	return s.arena.SegmentLength()
}

// Record appends a (name, value) pair to the record table. The spans must
// have been returned by Append on this Store.
func (s *Store) Record(name, value Span) {
	s.records = append(s.records, Record{Name: name, Value: value})
}

// Bytes exposes the raw arena; a Span is only meaningful against this slice.
func (s *Store) Bytes() []byte {
	return s.arena.Preview()
}

func (s *Store) resolve(sp Span) string {
	return uf.B2S(s.Bytes()[sp.Offset : sp.Offset+sp.Length])
}

// Get returns the first value stored under name, case-insensitively.
func (s *Store) Get(name string) (value string, found bool) {
	for _, rec := range s.records {
		if strcomp.EqualFold(s.resolve(rec.Name), name) {
			return s.resolve(rec.Value), true
		}
	}

	return "", false
}

// Values returns every value stored under name, in insertion order.
func (s *Store) Values(name string) []string {
	var values []string

	for _, rec := range s.records {
		if strcomp.EqualFold(s.resolve(rec.Name), name) {
			values = append(values, s.resolve(rec.Value))
		}
	}

	return values
}

// Has reports whether at least one record exists under name.
func (s *Store) Has(name string) bool {
	_, found := s.Get(name)
	return found
}

// Records exposes the raw record table, spans unresolved.
func (s *Store) Records() []Record {
	return s.records
}

// NumRecords returns how many records are stored.
func (s *Store) NumRecords() int {
	return len(s.records)
}

// Pairs iterates every (name, value) pair in insertion order.
func (s *Store) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, rec := range s.records {
			if !yield(s.resolve(rec.Name), s.resolve(rec.Value)) {
				return
			}
		}
	}
}

// Reset clears the arena and record table, letting the Store be reused for
// the next message on the same connection.
func (s *Store) Reset() {
	s.arena.Clear()
	s.records = s.records[:0]
}
