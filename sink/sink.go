// Package sink delivers finished files to their destination.
//
// A Sink receives one complete, framed file at a time together with its
// name. The generator never sees sink errors; the runner reports them per
// file and keeps enumerating.
package sink

import (
	"path/filepath"
	"strings"

	"github.com/arloliu/feelgood/errs"
)

// Sink accepts finished files.
//
// Implementations must copy data if they keep it after Write returns.
type Sink interface {
	// Write stores data under name.
	Write(name string, data []byte) error
}

// Func adapts a function to the Sink interface.
type Func func(name string, data []byte) error

// Write calls f(name, data).
func (f Func) Write(name string, data []byte) error {
	return f(name, data)
}

// Renamer is implemented by sinks that store a file under a different name
// than the one passed to Write.
type Renamer interface {
	// StoredName returns the name a file written as name ends up under.
	StoredName(name string) string
}

// StoredName returns the name s stores a file written as name under.
// Sinks that do not implement Renamer keep the name unchanged.
func StoredName(s Sink, name string) string {
	if r, ok := s.(Renamer); ok {
		return r.StoredName(name)
	}

	return name
}

// ValidateName rejects names that are empty, contain path separators or
// refer to the current or parent directory. Sinks accept flat names only.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return errs.ErrInvalidFileName
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name || filepath.VolumeName(name) != "" {
		return errs.ErrInvalidFileName
	}

	return nil
}
