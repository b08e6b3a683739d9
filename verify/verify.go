// Package verify checks an output directory written by a feelgood run.
//
// Every file is decoded according to its extension, its header is parsed and,
// when the run configuration is known, its size and section framing are
// checked. Content digests are tracked to report byte-identical files; a
// digest match is confirmed by comparing content before it counts as a
// duplicate.
//
// Unlike generation, verification keeps one digest per file and so uses
// memory proportional to the number of files examined.
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/arloliu/feelgood/compress"
	"github.com/arloliu/feelgood/format"
	"github.com/arloliu/feelgood/generator"
	"github.com/arloliu/feelgood/internal/collision"
	"github.com/arloliu/feelgood/internal/hash"
	"github.com/arloliu/feelgood/internal/logging"
	"github.com/arloliu/feelgood/internal/options"
	"github.com/arloliu/feelgood/internal/pool"
	"github.com/arloliu/feelgood/runner"
	"github.com/arloliu/feelgood/section"
)

// Problem is a file that failed a check.
type Problem struct {
	Name string
	Err  error
}

// Error implements error.
func (p Problem) Error() string {
	return fmt.Sprintf("%s: %v", p.Name, p.Err)
}

// Unwrap returns the check's error.
func (p Problem) Unwrap() error {
	return p.Err
}

// Result summarizes a verification.
type Result struct {
	// Files is the number of files examined.
	Files int
	// Bytes is the decoded size of the examined files.
	Bytes uint64
	// Skipped is the number of directory entries that were not examined.
	Skipped int
	// Problems lists files that could not be read or failed a format check.
	Problems []Problem
	// Duplicates lists files whose content repeats an earlier file.
	Duplicates []collision.Duplicate
	// DigestCollisions counts digest matches between files whose content differs.
	DigestCollisions int
}

// OK reports whether no problem and no duplicate was found.
func (r Result) OK() bool {
	return len(r.Problems) == 0 && len(r.Duplicates) == 0
}

// Err joins every problem and duplicate, or returns nil.
func (r Result) Err() error {
	errList := make([]error, 0, len(r.Problems)+len(r.Duplicates))
	for _, p := range r.Problems {
		errList = append(errList, p)
	}
	for _, d := range r.Duplicates {
		errList = append(errList, d)
	}

	return errors.Join(errList...)
}

type verifyConfig struct {
	logger    *zap.Logger
	assembler *generator.Assembler
	skip      map[string]struct{}
}

// Option configures Dir.
type Option = options.Option[*verifyConfig]

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *verifyConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithConfig checks every file against the size and framing cfg produces.
func WithConfig(cfg generator.Config) Option {
	return options.New(func(c *verifyConfig) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		a, err := generator.NewAssembler(cfg)
		if err != nil {
			return err
		}
		c.assembler = a

		return nil
	})
}

// WithSkip adds file names to leave out. The run manifest is always skipped.
func WithSkip(names ...string) Option {
	return options.NoError(func(c *verifyConfig) {
		for _, n := range names {
			c.skip[n] = struct{}{}
		}
	})
}

// Dir verifies the regular files directly inside dir on fsys.
//
// Hidden files, such as temporaries of an interrupted atomic write, are
// skipped. Check failures are collected in the result; the returned error is
// reserved for a directory that cannot be listed or a cancelled ctx.
func Dir(ctx context.Context, fsys afero.Fs, dir string, opts ...Option) (Result, error) {
	cfg := &verifyConfig{
		logger: logging.Nop(),
		skip:   map[string]struct{}{runner.ManifestName: {}},
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return Result{}, err
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return Result{}, fmt.Errorf("list %q: %w", dir, err)
	}

	v := &verifier{fs: fsys, dir: dir, cfg: cfg, tracker: collision.NewTracker()}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return v.result, err
		}

		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			v.result.Skipped++
			continue
		}
		if _, ok := cfg.skip[name]; ok {
			v.result.Skipped++
			continue
		}

		v.check(name)
	}

	cfg.logger.Info("verification finished",
		zap.String(logging.FieldOutput, dir),
		zap.Int(logging.FieldCount, v.result.Files),
		zap.Int("problems", len(v.result.Problems)),
		zap.Int("duplicates", len(v.result.Duplicates)),
	)

	return v.result, nil
}

type verifier struct {
	fs      afero.Fs
	dir     string
	cfg     *verifyConfig
	tracker *collision.Tracker
	result  Result
}

func (v *verifier) check(name string) {
	bb := pool.GetFileBuffer()
	defer pool.PutFileBuffer(bb)

	data, err := v.load(name, bb)
	if err != nil {
		v.problem(name, err)
		return
	}
	v.result.Files++
	v.result.Bytes += uint64(len(data))

	if v.cfg.assembler != nil {
		_, err = v.cfg.assembler.Sections(data)
	} else {
		_, err = section.ParseHeader(data)
	}
	if err != nil {
		v.problem(name, err)
	}

	digest := hash.Digest(data)
	first, seen := v.tracker.Track(name, digest)
	if !seen {
		return
	}

	firstBuf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(firstBuf)

	firstData, err := v.load(first, firstBuf)
	if err != nil {
		v.problem(first, err)
		return
	}
	if !bytes.Equal(firstData, data) {
		v.result.DigestCollisions++
		return
	}

	dup := collision.Duplicate{First: first, Second: name, Digest: digest}
	v.result.Duplicates = append(v.result.Duplicates, dup)
	v.cfg.logger.Warn("duplicate content", zap.String(logging.FieldFile, name), zap.String("first", first))
}

func (v *verifier) problem(name string, err error) {
	v.result.Problems = append(v.result.Problems, Problem{Name: name, Err: err})
	v.cfg.logger.Warn("file failed verification", zap.String(logging.FieldFile, name), zap.Error(err))
}

// load reads a file into bb and decodes it according to its extension.
// The returned slice may alias bb.
func (v *verifier) load(name string, bb *pool.ByteBuffer) ([]byte, error) {
	f, err := v.fs.Open(filepath.Join(v.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := bb.ReadFrom(f); err != nil {
		return nil, err
	}

	ct := format.CompressionFromName(name)
	if ct == format.CompressionNone {
		return bb.Bytes(), nil
	}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, err
	}
	data, err := codec.Decompress(bb.Bytes())
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ct, err)
	}

	return data, nil
}
