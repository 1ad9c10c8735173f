package config

import "flag"

// Flags holds command line overrides. Zero values leave the loaded config untouched.
type Flags struct {
	Config  string
	Debug   bool
	Source  string
	Root    string
	Origin  string
	Workers int
	Addr    string
}

// RegisterFlags binds the shared flags onto fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Source, "source", "", "Asset source: local or remote")
	fs.StringVar(&f.Root, "root", "", "Resource root directory (local source)")
	fs.StringVar(&f.Origin, "origin", "", "Deployment origin URL (remote source)")
	fs.IntVar(&f.Workers, "workers", 0, "Parallel material texture fetches")
	fs.StringVar(&f.Addr, "addr", "", "Listen address for the asset server")
	return f
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Source != "" {
		cfg.Assets.Source = f.Source
	}
	if f.Root != "" {
		cfg.Assets.Root = f.Root
	}
	if f.Origin != "" {
		cfg.Assets.Origin = f.Origin
	}
	if f.Workers > 0 {
		cfg.Assets.MaterialWorkers = f.Workers
	}
	if f.Addr != "" {
		cfg.Server.Addr = f.Addr
	}
}
