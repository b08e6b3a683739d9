// Package collision detects repeated file content in already-written output.
//
// Generation never needs it: uniqueness there follows from the odometer
// bijection. The tracker serves offline verification of an output directory,
// where files may have been copied, renamed or produced by several runs.
package collision

import (
	"fmt"

	"github.com/arloliu/feelgood/errs"
)

// Duplicate describes two files whose digests matched.
type Duplicate struct {
	// First is the name tracked first with this digest.
	First string
	// Second is the name that repeated it.
	Second string
	// Digest is the shared content digest.
	Digest uint64
}

// Error implements error; a Duplicate matches errs.ErrDuplicateContent.
func (d Duplicate) Error() string {
	return fmt.Sprintf("%s: %q and %q (xxh64 %016x)", errs.ErrDuplicateContent, d.First, d.Second, d.Digest)
}

// Unwrap returns errs.ErrDuplicateContent.
func (d Duplicate) Unwrap() error {
	return errs.ErrDuplicateContent
}

// Tracker maps content digests to the first file name seen with each digest.
//
// A digest match is a candidate duplicate only: the caller confirms it by
// comparing content, since distinct content can share a 64-bit digest.
type Tracker struct {
	names map[uint64]string
	count int
}

// NewTracker creates a new tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names: make(map[uint64]string),
	}
}

// Track records name under digest.
//
// It returns the previously tracked name and true when digest was already
// seen; the earlier name is kept.
func (t *Tracker) Track(name string, digest uint64) (string, bool) {
	t.count++
	if existing, ok := t.names[digest]; ok {
		return existing, true
	}
	t.names[digest] = name

	return "", false
}

// Count returns the number of Track calls.
func (t *Tracker) Count() int {
	return t.count
}

// Distinct returns the number of distinct digests tracked.
func (t *Tracker) Distinct() int {
	return len(t.names)
}

// Reset clears all tracked digests.
func (t *Tracker) Reset() {
	clear(t.names)
	t.count = 0
}
