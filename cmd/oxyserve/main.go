// Command oxyserve serves a resource root over HTTP under /<path_segment>/ so a remote asset
// source can be pointed at it during development.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-assets/internal/config"
	"github.com/Carmen-Shannon/oxy-assets/internal/logger"
	"github.com/Carmen-Shannon/oxy-assets/internal/server"
)

func main() {
	fs := flag.NewFlagSet("oxyserve", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	quiet := fs.Bool("quiet", false, "Disable the access log")
	_ = fs.Parse(os.Args[1:])

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

	var accessLog io.Writer = os.Stdout
	if *quiet {
		accessLog = nil
	}
	if err := server.ListenAndServe(cfg.Server.Addr, cfg.Assets.Root, cfg.Assets.PathSegment, accessLog, logger.Log); err != nil {
		logger.Log.Error("server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
