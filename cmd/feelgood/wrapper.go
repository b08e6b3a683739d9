package main

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/arloliu/feelgood/internal/config"
	"github.com/arloliu/feelgood/section"
)

var (
	flagConfig = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "config file (yaml, toml or json). Defaults to " + config.DefaultConfigDir + "/config.*",
	}
	flagDebug = &cli.BoolFlag{
		Name:  config.KeyDebug,
		Usage: "log at debug level in console format.",
	}

	flagSections = &cli.IntFlag{
		Name:    config.KeySections,
		Aliases: []string{"n"},
		Value:   1,
		Usage:   "number of payload sections; for sweep, the largest section count.",
	}
	flagSectionLength = &cli.IntFlag{
		Name:    config.KeySectionLength,
		Aliases: []string{"w"},
		Value:   section.DefaultSectionLength,
		Usage:   "width in bytes of every section.",
	}
	flagCount = &cli.Uint64Flag{
		Name:  config.KeyCount,
		Value: config.DefaultCount,
		Usage: "number of files to generate; for sweep, per section count. Clamped to the enumeration space.",
	}
	flagStartIndex = &cli.StringFlag{
		Name:  config.KeyStartIndex,
		Value: "0",
		Usage: "first enumeration index, decimal or 0x-prefixed hex. Use a report's next index to resume.",
	}
	flagLayout = &cli.StringFlag{
		Name:  config.KeyLayout,
		Value: "raw",
		Usage: "section layout: raw or tlv.",
	}
	flagTags = &cli.IntSliceFlag{
		Name:  config.KeyTags,
		Usage: "tlv tag byte of every section, in order. Defaults to the section ordinal.",
	}
	flagCompression = &cli.StringFlag{
		Name:  config.KeyCompression,
		Value: "none",
		Usage: "compress every file: none, zstd, s2 or lz4.",
	}
	flagOutput = &cli.StringFlag{
		Name:    config.KeyOutput,
		Aliases: []string{"o"},
		Value:   config.DefaultOutput,
		Usage:   "output directory.",
	}
	flagAtomic = &cli.BoolFlag{
		Name:  config.KeyAtomic,
		Value: true,
		Usage: "write each file to a temporary name and rename it into place.",
	}
	flagSync = &cli.BoolFlag{
		Name:  config.KeySync,
		Usage: "fsync every file before it is renamed.",
	}
	flagManifest = &cli.BoolFlag{
		Name:  config.KeyManifest,
		Usage: "write manifest.tsv with the name, index, size and xxh64 of every file.",
	}
	flagStopOnError = &cli.BoolFlag{
		Name:  config.KeyStopOnError,
		Usage: "stop at the first failed write.",
	}
	flagMetricsFile = &cli.StringFlag{
		Name:  config.KeyMetricsFile,
		Usage: "write prometheus metrics in text format to this file after the run.",
	}
	flagPushGateway = &cli.StringFlag{
		Name:  config.KeyPushGateway,
		Usage: "push prometheus metrics to this pushgateway URL after the run.",
	}
	flagCheckLayout = &cli.BoolFlag{
		Name:  "check-layout",
		Usage: "also check file size and section framing against the configured sections and layout.",
	}
)

// generationFlags are shared by generate and sweep.
var generationFlags = []cli.Flag{
	flagSections,
	flagSectionLength,
	flagCount,
	flagLayout,
	flagTags,
	flagCompression,
	flagOutput,
	flagAtomic,
	flagSync,
	flagManifest,
	flagStopOnError,
	flagMetricsFile,
	flagPushGateway,
}

// Wrapper is the feelgood command line application.
type Wrapper struct {
	app *cli.App
	fs  afero.Fs
}

// NewWrapper builds the application. Files are written to fsys and reports
// to stdout.
func NewWrapper(fsys afero.Fs, stdout io.Writer) *Wrapper {
	wrapper := &Wrapper{
		app: &cli.App{
			Name:    "feelgood",
			Usage:   "generate bounded sequences of structurally unique binary files",
			Version: "0.1.0",
			Writer:  stdout,
		},
		fs: fsys,
	}
	wrapper.withFlags()
	wrapper.withCommands()

	return wrapper
}

// Run runs the application with args; ctx cancels a running generation.
func (wrapper *Wrapper) Run(ctx context.Context, args []string) error {
	return wrapper.app.RunContext(ctx, args)
}

func (wrapper *Wrapper) withFlags() {
	wrapper.app.Flags = []cli.Flag{
		flagConfig,
		flagDebug,
	}
}

func (wrapper *Wrapper) withCommands() {
	wrapper.app.Commands = []*cli.Command{
		{
			Name:   "generate",
			Usage:  "generate files into the output directory",
			Flags:  append([]cli.Flag{flagStartIndex}, generationFlags...),
			Action: wrapper.generate,
		},
		{
			Name:   "sweep",
			Usage:  "generate files for every section count from 1 to --sections",
			Flags:  generationFlags,
			Action: wrapper.sweep,
		},
		{
			Name:      "verify",
			Usage:     "check headers and look for duplicate content in an output directory",
			ArgsUsage: "[dir]",
			Flags: []cli.Flag{
				flagCheckLayout,
				flagSections,
				flagSectionLength,
				flagLayout,
				flagTags,
				flagOutput,
			},
			Action: wrapper.verify,
		},
	}
}
