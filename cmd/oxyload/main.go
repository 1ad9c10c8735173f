// Command oxyload loads OBJ and glTF assets onto a headless GPU device and prints what was
// created. It is the quickest way to check that an asset decodes the same way the renderer
// will see it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-assets/engine/asset"
	"github.com/Carmen-Shannon/oxy-assets/engine/loader"
	"github.com/Carmen-Shannon/oxy-assets/engine/profiler"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/Carmen-Shannon/oxy-assets/internal/config"
	"github.com/Carmen-Shannon/oxy-assets/internal/logger"
)

func main() {
	fs := flag.NewFlagSet("oxyload", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	dump := fs.Bool("dump", false, "Dump each loaded model")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: oxyload [flags] asset...\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(flags.Config, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, fs.Args(), *dump); err != nil {
		logger.Log.Error("oxyload failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, names []string, dump bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, err := newSource(cfg)
	if err != nil {
		return err
	}

	dev, err := renderer.NewHeadlessDevice("oxyload", renderer.WithLogger(logger.Log))
	if err != nil {
		return err
	}
	defer dev.Release()

	prof := profiler.NewProfiler(profiler.WithLogger(logger.Log))
	ldr, err := loader.NewLoader(
		loader.WithSource(src),
		loader.WithDevice(dev),
		loader.WithLogger(logger.Log),
		loader.WithProfiler(prof),
		loader.WithMaterialWorkers(cfg.Assets.MaterialWorkers),
		loader.WithCache(cfg.Assets.Cache),
	)
	if err != nil {
		return err
	}
	defer ldr.Release()

	var failed int
	for _, name := range names {
		a, err := ldr.Load(ctx, name)
		if err != nil {
			logger.Log.Error("load failed", zap.String("asset", name), zap.Error(err))
			failed++
			continue
		}
		printSummary(os.Stdout, name, a)
		if dump {
			dumpConfig.Fdump(os.Stdout, a)
		}
		if !cfg.Assets.Cache {
			a.Release()
		}
	}

	prof.LogSummary()
	if failed > 0 {
		return fmt.Errorf("%d of %d assets failed to load", failed, len(names))
	}
	return nil
}

// newSource builds the asset source selected by the config.
func newSource(cfg *config.Config) (asset.Source, error) {
	switch cfg.Assets.Source {
	case config.SourceRemote:
		return asset.NewSource(asset.SourceTypeRemote,
			asset.WithOrigin(cfg.Assets.Origin),
			asset.WithPathSegment(cfg.Assets.PathSegment),
			asset.WithLogger(logger.Log),
		)
	default:
		return asset.NewSource(asset.SourceTypeLocal,
			asset.WithRoot(cfg.Assets.Root),
			asset.WithLogger(logger.Log),
		)
	}
}

var dumpConfig = &spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                5,
	DisableMethods:          true,
	DisableCapacities:       true,
	DisablePointerAddresses: true,
}
