package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/arloliu/feelgood/format"
	"github.com/arloliu/feelgood/generator"
	"github.com/arloliu/feelgood/internal/config"
	"github.com/arloliu/feelgood/internal/logging"
	"github.com/arloliu/feelgood/runner"
	"github.com/arloliu/feelgood/sink"
	"github.com/arloliu/feelgood/verify"
)

const pushJob = "feelgood"

// overrideKeys are the config keys that a command line flag can set.
var overrideKeys = []string{
	config.KeySections,
	config.KeySectionLength,
	config.KeyCount,
	config.KeyStartIndex,
	config.KeyLayout,
	config.KeyCompression,
	config.KeyOutput,
	config.KeyAtomic,
	config.KeySync,
	config.KeyManifest,
	config.KeyStopOnError,
	config.KeyMetricsFile,
	config.KeyPushGateway,
	config.KeyDebug,
}

// loadConfig resolves the run configuration, letting flags that were set
// explicitly override the environment and the config file.
func loadConfig(c *cli.Context) (config.RunConfig, error) {
	overrides := make(map[string]any)
	for _, key := range overrideKeys {
		if c.IsSet(key) {
			overrides[key] = c.Value(key)
		}
	}
	if c.IsSet(config.KeyTags) {
		overrides[config.KeyTags] = c.IntSlice(config.KeyTags)
	}

	return config.Load(c.String(flagConfig.Name), overrides)
}

func newLogger(cfg config.RunConfig) (*zap.Logger, error) {
	if cfg.Debug {
		return logging.New(logging.ProfileDevelopment)
	}

	return logging.New(logging.ProfileRuntime)
}

// session holds what generate and sweep share: the sink stack, the logger,
// the metrics registry and the optional manifest.
type session struct {
	fs       afero.Fs
	cfg      config.RunConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *runner.Metrics
	sink     sink.Sink
	manifest io.WriteCloser
	buffered *bufio.Writer
}

func (wrapper *Wrapper) openSession(cfg config.RunConfig) (*session, error) {
	ct, err := cfg.CompressionType()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	atomic := cfg.Atomic
	dir, err := sink.NewDir(sink.DirOptions{
		OutputDir: cfg.Output,
		Fs:        wrapper.fs,
		Atomic:    &atomic,
		Sync:      cfg.Sync,
	})
	if err != nil {
		return nil, err
	}

	var s sink.Sink = dir
	if ct != format.CompressionNone {
		if s, err = sink.NewCompressed(dir, ct); err != nil {
			return nil, err
		}
	}

	registry := prometheus.NewRegistry()
	metrics, err := runner.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	sess := &session{
		fs:       wrapper.fs,
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics,
		sink:     s,
	}

	if cfg.Manifest {
		f, err := wrapper.fs.Create(cfg.ManifestPath())
		if err != nil {
			return nil, fmt.Errorf("create manifest: %w", err)
		}
		sess.manifest = f
		sess.buffered = bufio.NewWriter(f)
	}

	logger.Info("output ready",
		zap.String(logging.FieldOutput, cfg.Output),
		zap.Stringer(logging.FieldCompression, ct),
	)

	return sess, nil
}

func (sess *session) runOptions() []runner.Option {
	opts := []runner.Option{
		runner.WithLogger(sess.logger),
		runner.WithMetrics(sess.metrics),
		runner.WithStopOnError(sess.cfg.StopOnError),
	}
	if sess.buffered != nil {
		opts = append(opts, runner.WithManifest(sess.buffered))
	}

	return opts
}

// close flushes the manifest and exports metrics. Export failures are logged
// and do not fail the command.
func (sess *session) close() error {
	defer func() { _ = sess.logger.Sync() }()

	if sess.manifest != nil {
		err := sess.buffered.Flush()
		if cerr := sess.manifest.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}

	if sess.cfg.MetricsFile != "" {
		if err := writeMetricsFile(sess.fs, sess.cfg.MetricsFile, sess.registry); err != nil {
			sess.logger.Warn("write metrics file failed", zap.String(logging.FieldFile, sess.cfg.MetricsFile), zap.Error(err))
		}
	}
	if sess.cfg.PushGateway != "" {
		if err := push.New(sess.cfg.PushGateway, pushJob).Gatherer(sess.registry).Push(); err != nil {
			sess.logger.Warn("push metrics failed", zap.String("gateway", sess.cfg.PushGateway), zap.Error(err))
		}
	}

	return nil
}

// writeMetricsFile writes the text exposition of g to path through a temporary
// file in the same directory, so a collector never reads a partial file.
func writeMetricsFile(fs afero.Fs, path string, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			break
		}
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = fs.Remove(tmpName)
		return err
	}

	return fs.Rename(tmpName, path)
}

func (wrapper *Wrapper) generate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	gc, err := cfg.GeneratorConfig()
	if err != nil {
		return err
	}
	g, err := generator.New(gc)
	if err != nil {
		return err
	}

	sess, err := wrapper.openSession(cfg)
	if err != nil {
		return err
	}

	report, runErr := runner.Run(c.Context, g, sess.sink, sess.runOptions()...)
	if err := sess.close(); err != nil {
		return err
	}
	printReport(c.App.Writer, report)

	return finish(report, runErr)
}

func (wrapper *Wrapper) sweep(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	sc, err := cfg.SweepConfig()
	if err != nil {
		return err
	}

	sess, err := wrapper.openSession(cfg)
	if err != nil {
		return err
	}

	report, runErr := runner.Sweep(c.Context, sc, sess.sink, sess.runOptions()...)
	if err := sess.close(); err != nil {
		return err
	}
	printReport(c.App.Writer, report)

	return finish(report, runErr)
}

func (wrapper *Wrapper) verify(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	dir := cfg.Output
	if c.Args().Present() {
		dir = filepath.Clean(c.Args().First())
	}

	opts := []verify.Option{verify.WithLogger(logger)}
	if c.Bool(flagCheckLayout.Name) {
		gc, err := cfg.GeneratorConfig()
		if err != nil {
			return err
		}
		opts = append(opts, verify.WithConfig(gc))
	}

	res, err := verify.Dir(c.Context, wrapper.fs, dir, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "files=%d bytes=%d skipped=%d problems=%d duplicates=%d digest-collisions=%d\n",
		res.Files, res.Bytes, res.Skipped, len(res.Problems), len(res.Duplicates), res.DigestCollisions)
	for _, p := range res.Problems {
		fmt.Fprintf(c.App.Writer, "problem: %v\n", p)
	}
	for _, d := range res.Duplicates {
		fmt.Fprintf(c.App.Writer, "duplicate: %v\n", d)
	}

	if !res.OK() {
		return fmt.Errorf("verify %s: %d problems, %d duplicates", dir, len(res.Problems), len(res.Duplicates))
	}

	return nil
}

func printReport(w io.Writer, r runner.Report) {
	next := "-"
	if idx := r.NextIndex(); idx != nil {
		next = idx.String()
	}
	fmt.Fprintf(w, "files=%d written=%d bytes=%d failures=%d clamped=%t cancelled=%t next-index=%s\n",
		r.Files, r.Written, r.Bytes, r.FailureCount, r.Clamped, r.Cancelled, next)
}

func finish(r runner.Report, runErr error) error {
	if runErr != nil {
		return runErr
	}
	if r.FailureCount > 0 {
		return fmt.Errorf("%d of %d files failed: %w", r.FailureCount, r.Files, r.Err())
	}

	return nil
}
