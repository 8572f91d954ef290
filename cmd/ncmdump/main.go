package main

import (
	"errors"
	"fmt"
	"os"

	ncmdump "github.com/devgianlu/go-ncmdump"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

func main() {
	var cfg Config
	if err := loadConfig(&cfg, os.Args[1:]); errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		log.WithError(err).Fatal("failed loading configuration")
	}

	if cfg.Version {
		fmt.Println(ncmdump.SystemInfoString())
		return
	}

	// parse and set log level
	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatalf("invalid log level: %s", cfg.LogLevel)
	} else {
		log.SetLevel(logLevel)
	}

	logger := LogrusAdapter{log.NewEntry(log.StandardLogger())}
	logger.Debugf("running %s", ncmdump.SystemInfoString())

	dumper, err := NewDumper(logger, &cfg)
	if err != nil {
		log.WithError(err).Fatal("failed creating dumper")
	}

	if err := dumper.DumpAll(cfg.Files, cfg.Workers); err != nil {
		log.WithError(err).Fatal("failed dumping containers")
	}
}
