package sink

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DirOptions configures a Dir sink.
type DirOptions struct {
	// OutputDir is the directory files are written into. Required.
	OutputDir string
	// Fs is the filesystem to write to. Nil means the operating system filesystem.
	Fs afero.Fs
	// Atomic writes every file to a temporary name in OutputDir and renames
	// it into place, so readers never observe a partial file. Nil means true.
	Atomic *bool
	// Sync flushes each file to stable storage before it is renamed.
	Sync bool
	// PermFile and PermDir are the permissions of new files and of OutputDir.
	// Zero means 0o644 and 0o755.
	PermFile fs.FileMode
	PermDir  fs.FileMode
}

// Dir writes each file into a single flat directory.
type Dir struct {
	fs     afero.Fs
	root   string
	atomic bool
	sync   bool
	permF  fs.FileMode
}

var _ Sink = (*Dir)(nil)

// NewDir creates the output directory if needed and returns a Dir sink.
func NewDir(opts DirOptions) (*Dir, error) {
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory: %w", os.ErrInvalid)
	}

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	permF := opts.PermFile
	if permF == 0 {
		permF = 0o644
	}
	permD := opts.PermDir
	if permD == 0 {
		permD = 0o755
	}
	atomic := true
	if opts.Atomic != nil {
		atomic = *opts.Atomic
	}

	if err := fsys.MkdirAll(opts.OutputDir, permD); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", opts.OutputDir, err)
	}

	return &Dir{
		fs:     fsys,
		root:   opts.OutputDir,
		atomic: atomic,
		sync:   opts.Sync,
		permF:  permF,
	}, nil
}

// Root returns the output directory.
func (d *Dir) Root() string {
	return d.root
}

// Path returns the path a file named name is written to.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, name)
}

// Write stores data as OutputDir/name, replacing any existing file.
func (d *Dir) Write(name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("%w: %q", err, name)
	}

	dest := d.Path(name)
	if d.atomic {
		return d.writeAtomic(dest, data)
	}

	return d.writeOverwrite(dest, data)
}

func (d *Dir) writeOverwrite(dest string, data []byte) error {
	f, err := d.fs.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, d.permF)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if d.sync {
		if err := f.Sync(); err != nil {
			_ = f.Close()
			return err
		}
	}

	return f.Close()
}

func (d *Dir) writeAtomic(dest string, data []byte) error {
	tmp, err := afero.TempFile(d.fs, d.root, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = d.fs.Remove(tmpPath)

		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if d.sync {
		if err := tmp.Sync(); err != nil {
			return fail(err)
		}
	}
	if err := tmp.Close(); err != nil {
		_ = d.fs.Remove(tmpPath)
		return err
	}
	_ = d.fs.Chmod(tmpPath, d.permF)

	if err := d.fs.Rename(tmpPath, dest); err != nil {
		_ = d.fs.Remove(tmpPath)
		return err
	}

	return nil
}
