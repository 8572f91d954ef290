package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	flag "github.com/spf13/pflag"
)

type Config struct {
	ConfigPath string `koanf:"config"`
	LogLevel   string `koanf:"log-level"`
	Output     string `koanf:"output"`
	Target     string `koanf:"target"`
	Workers    int    `koanf:"workers"`
	Tag        bool   `koanf:"tag"`
	Overwrite  bool   `koanf:"overwrite"`
	Version    bool   `koanf:"version"`

	Files []string `koanf:"-"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "ncmdump", "config.yml")
}

// loadConfig layers defaults, the YAML configuration file and the command line flags, in
// increasing priority. Positional arguments are the containers to decode.
func loadConfig(cfg *Config, args []string) error {
	f := flag.NewFlagSet("ncmdump", flag.ContinueOnError)
	f.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ncmdump [flags] FILE...\n\n")
		f.PrintDefaults()
	}
	f.String("config", "", "path to the YAML configuration file")
	f.String("log-level", "info", "log level: trace, debug, info, warn, error")
	f.StringP("output", "o", ".", "output directory")
	f.StringP("target", "t", "all", "dump target: all, audio, image")
	f.IntP("workers", "j", 1, "number of containers decoded in parallel")
	f.Bool("tag", true, "embed metadata and cover into the decoded audio")
	f.Bool("overwrite", false, "overwrite existing output files")
	f.BoolP("version", "v", false, "print version and exit")

	if err := f.Parse(args); err != nil {
		return err
	}

	k := koanf.New(".")

	// load default configuration
	_ = k.Load(confmap.Provider(map[string]interface{}{
		"log-level": "info",
		"output":    ".",
		"target":    "all",
		"workers":   1,
		"tag":       true,
		"overwrite": false,
	}, "."), nil)

	// load file configuration, the default path is optional
	configPath, _ := f.GetString("config")
	explicit := len(configPath) > 0
	if !explicit {
		configPath = defaultConfigPath()
	}

	if len(configPath) > 0 {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed reading configuration file %s: %w", configPath, err)
			}
		}
	}

	// load command line configuration
	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return fmt.Errorf("failed loading command line configuration: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("failed unmarshalling configuration: %w", err)
	}

	cfg.Files = f.Args()
	return cfg.validate()
}

func (cfg *Config) validate() error {
	if cfg.Version {
		return nil
	}

	if cfg.Workers < 1 {
		return fmt.Errorf("invalid number of workers: %d", cfg.Workers)
	} else if len(cfg.Output) == 0 {
		return fmt.Errorf("empty output directory")
	} else if len(cfg.Files) == 0 {
		return fmt.Errorf("no input files")
	}

	return nil
}
