// Package runner drives a generator into a sink and reports the outcome.
//
// It is the only place where generation meets side effects: sink writes,
// logging, metrics and the optional manifest. Sink failures are recorded per
// file and do not disturb enumeration.
package runner

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/arloliu/feelgood/generator"
	"github.com/arloliu/feelgood/internal/hash"
	"github.com/arloliu/feelgood/internal/logging"
	"github.com/arloliu/feelgood/internal/options"
	"github.com/arloliu/feelgood/internal/pool"
	"github.com/arloliu/feelgood/sink"
)

// ManifestName is the conventional file name of a run manifest.
const ManifestName = "manifest.tsv"

// Namer returns the sink name of a file.
type Namer func(f generator.File) string

type runConfig struct {
	logger      *zap.Logger
	metrics     *Metrics
	stopOnError bool
	manifest    io.Writer
	namer       Namer
}

// Option configures Run and Sweep.
type Option = options.Option[*runConfig]

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *runConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithMetrics sets the prometheus collectors to update.
func WithMetrics(m *Metrics) Option {
	return options.NoError(func(c *runConfig) {
		c.metrics = m
	})
}

// WithStopOnError ends the run at the first sink failure and returns it.
func WithStopOnError(stop bool) Option {
	return options.NoError(func(c *runConfig) {
		c.stopOnError = stop
	})
}

// WithManifest streams one tab-separated line per written file to w: the
// name the sink stored it under, index in hex, then size and xxHash64 of the
// generated content before any compression.
func WithManifest(w io.Writer) Option {
	return options.NoError(func(c *runConfig) {
		c.manifest = w
	})
}

// WithNamer overrides how files are named. The default is File.Name.
func WithNamer(namer Namer) Option {
	return options.NoError(func(c *runConfig) {
		if namer != nil {
			c.namer = namer
		}
	})
}

func newRunConfig(opts []Option) (*runConfig, error) {
	cfg := &runConfig{
		logger: logging.Nop(),
		namer:  func(f generator.File) string { return f.Name() },
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Run pulls every remaining file from g and writes it to s.
//
// The run ends when g is exhausted or ctx is done. Cancellation is checked
// between files; a file already produced is always offered to the sink in
// full. On cancellation Run returns the partial report and ctx.Err().
//
// Sink failures are recorded in the report and the run continues, unless
// WithStopOnError is set, in which case the first FileError is returned.
func Run(ctx context.Context, g *generator.Generator, s sink.Sink, opts ...Option) (Report, error) {
	cfg, err := newRunConfig(opts)
	if err != nil {
		return Report{}, err
	}

	return run(ctx, g, s, cfg)
}

func run(ctx context.Context, g *generator.Generator, s sink.Sink, cfg *runConfig) (Report, error) {
	logger := cfg.logger
	gc := g.Config()
	report := Report{Limit: g.Limit(), Clamped: g.Clamped()}

	logger.Info("generation started",
		zap.Int(logging.FieldSections, len(gc.SectionLengths)),
		zap.Int(logging.FieldWidth, gc.TotalLength()),
		zap.Stringer(logging.FieldLayout, gc.Layout),
		zap.Uint64(logging.FieldCount, gc.Count),
		zap.Uint64(logging.FieldLimit, g.Limit()),
	)
	if g.Clamped() {
		logger.Warn("requested count exceeds the enumeration space, clamping",
			zap.Uint64(logging.FieldCount, gc.Count),
			zap.Uint64(logging.FieldLimit, g.Limit()),
		)
	}

	var manifest *manifestWriter
	if cfg.manifest != nil {
		manifest = newManifestWriter(cfg.manifest)
		if err := manifest.writeHeader(); err != nil {
			return report, fmt.Errorf("write manifest: %w", err)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			logger.Info("generation cancelled", zap.Uint64(logging.FieldCount, report.Files))

			return report, err
		}

		f, ok := g.Next()
		if !ok {
			break
		}
		report.Files++
		report.LastIndex = f.Index
		cfg.metrics.setRemaining(g.Remaining())

		name := cfg.namer(f)
		if err := s.Write(name, f.Data); err != nil {
			fe := FileError{Name: name, Ordinal: f.Ordinal, Index: f.Index, Err: err}
			report.addFailure(fe)
			cfg.metrics.observeFailure()
			logger.Warn("sink write failed",
				zap.String(logging.FieldFile, name),
				zap.Uint64(logging.FieldOrdinal, f.Ordinal),
				zap.Error(err),
			)
			if cfg.stopOnError {
				return report, fe
			}

			continue
		}

		report.Written++
		report.Bytes += uint64(len(f.Data))
		cfg.metrics.observeFile(len(f.Data))
		stored := sink.StoredName(s, name)
		if ce := logger.Check(zap.DebugLevel, "file written"); ce != nil {
			ce.Write(zap.String(logging.FieldFile, stored), zap.String(logging.FieldIndex, f.Index.Text(16)))
		}

		if manifest != nil {
			if err := manifest.writeEntry(stored, f); err != nil {
				return report, fmt.Errorf("write manifest: %w", err)
			}
		}
	}

	logger.Info("generation finished",
		zap.Uint64(logging.FieldCount, report.Files),
		zap.Uint64(logging.FieldBytes, report.Bytes),
		zap.Uint64("failures", report.FailureCount),
	)

	return report, nil
}

type manifestWriter struct {
	w io.Writer
}

func newManifestWriter(w io.Writer) *manifestWriter {
	return &manifestWriter{w: w}
}

func (m *manifestWriter) writeHeader() error {
	_, err := io.WriteString(m.w, "name\tindex\tsize\txxh64\n")
	return err
}

func (m *manifestWriter) writeEntry(name string, f generator.File) error {
	bb := pool.GetLineBuffer()
	defer pool.PutLineBuffer(bb)

	bb.B = append(bb.B, name...)
	bb.B = append(bb.B, '\t')
	bb.B = f.Index.Append(bb.B, 16)
	bb.B = fmt.Appendf(bb.B, "\t%d\t%016x\n", len(f.Data), hash.Digest(f.Data))

	_, err := bb.WriteTo(m.w)

	return err
}
