package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/feelgood/errs"
	"github.com/arloliu/feelgood/format"
	"github.com/arloliu/feelgood/generator"
	"github.com/arloliu/feelgood/internal/logging"
	"github.com/arloliu/feelgood/sink"
)

// SweepConfig describes a sweep over section counts.
type SweepConfig struct {
	// MaxSections is the largest section count; counts 1..MaxSections are run in order.
	MaxSections int
	// SectionLength is the width of every section.
	SectionLength int
	// PerCount is the number of files generated for each section count.
	PerCount uint64
	// Layout is the section layout of every file.
	Layout format.LayoutType
}

// SweepName names file idx of the run with count sections.
func SweepName(count int, idx uint64) string {
	return fmt.Sprintf("file_%d_sec_%d.bin", count, idx)
}

// Sweep runs one bounded generation per section count, from one section up
// to MaxSections, and writes at most PerCount files for each.
//
// Each count is an independent run starting at index zero; files are named
// by SweepName so runs never overwrite each other. The returned report
// merges all runs. A WithNamer option is ignored.
func Sweep(ctx context.Context, sc SweepConfig, s sink.Sink, opts ...Option) (Report, error) {
	if sc.MaxSections <= 0 {
		return Report{}, errs.ErrNoSections
	}

	cfg, err := newRunConfig(opts)
	if err != nil {
		return Report{}, err
	}

	var total Report
	for count := 1; count <= sc.MaxSections; count++ {
		g, err := generator.New(generator.Config{Count: sc.PerCount, Layout: sc.Layout},
			generator.WithUniformSections(count, sc.SectionLength),
		)
		if err != nil {
			return total, fmt.Errorf("sections %d: %w", count, err)
		}

		runCfg := *cfg
		runCfg.logger = cfg.logger.With(zap.Int(logging.FieldSections, count))
		runCfg.namer = func(f generator.File) string { return SweepName(count, f.Ordinal) }

		report, err := run(ctx, g, s, &runCfg)
		total.merge(report)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}
