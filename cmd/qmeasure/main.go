package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/lukaszgryglicki/qmeasure/internal/qmeasure"
)

type appConfig struct {
	Debug   bool  `env:"DEBUG"`
	Seed    int64 `env:"SEED"`
	Pretty  bool  `env:"PRETTY" envDefault:"true"`
	Profile bool  `env:"PROFILE"`
}

func main() {
	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	out := zerolog.New(os.Stderr)
	if cfg.Pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	qmeasure.SetLogger(out.Level(level).With().Timestamp().Logger())
	qmeasure.Debug = cfg.Debug
	qmeasure.SeedOverride = cfg.Seed

	if cfg.Profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	path := "experiments/config.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if err := qmeasure.Run(path); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
