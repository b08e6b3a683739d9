package runner

import (
	"errors"
	"fmt"
	"math/big"
)

// maxRecordedFailures bounds Report.Failures so a failing sink cannot make
// memory grow with the run length. FailureCount keeps the full count.
const maxRecordedFailures = 64

// FileError is a sink failure for one file.
type FileError struct {
	Name    string
	Ordinal uint64
	Index   *big.Int
	Err     error
}

// Error implements error.
func (e FileError) Error() string {
	return fmt.Sprintf("write %q (ordinal %d): %v", e.Name, e.Ordinal, e.Err)
}

// Unwrap returns the sink's error unchanged.
func (e FileError) Unwrap() error {
	return e.Err
}

// Report summarizes a run.
type Report struct {
	// Files is the number of files produced, including those the sink rejected.
	Files uint64
	// Written is the number of files the sink accepted.
	Written uint64
	// Bytes is the number of bytes the sink accepted.
	Bytes uint64
	// Limit is min(Count, 256^L - StartIndex) of the generator.
	Limit uint64
	// Clamped reports that the requested count exceeded the remaining space.
	Clamped bool
	// Cancelled reports that the context ended the run early.
	Cancelled bool
	// LastIndex is the index of the last file produced, nil if none.
	// Resume a run by starting at LastIndex+1.
	LastIndex *big.Int
	// FailureCount is the number of sink failures.
	FailureCount uint64
	// Failures holds the first sink failures, at most 64.
	Failures []FileError
}

// NextIndex returns the start index that continues after this run, or nil
// if no file was produced.
func (r Report) NextIndex() *big.Int {
	if r.LastIndex == nil {
		return nil
	}

	return new(big.Int).Add(r.LastIndex, big.NewInt(1))
}

// Err joins the recorded sink failures, or returns nil if there were none.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}

	errList := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errList[i] = f
	}

	return errors.Join(errList...)
}

func (r *Report) addFailure(fe FileError) {
	r.FailureCount++
	if len(r.Failures) < maxRecordedFailures {
		r.Failures = append(r.Failures, fe)
	}
}

// merge folds another run's report into r, as Sweep does for each section count.
func (r *Report) merge(o Report) {
	r.Files += o.Files
	r.Written += o.Written
	r.Bytes += o.Bytes
	r.Limit += o.Limit
	r.Clamped = r.Clamped || o.Clamped
	r.Cancelled = r.Cancelled || o.Cancelled
	if o.LastIndex != nil {
		r.LastIndex = o.LastIndex
	}
	r.FailureCount += o.FailureCount - uint64(len(o.Failures))
	for _, f := range o.Failures {
		r.addFailure(f)
	}
}
