package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/qsim"
	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// runtimeEnv is what the Before hook hands to every command.
type runtimeEnv struct {
	config *qsim.Config
	logger *log.Logger
	closer io.Closer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	env := &runtimeEnv{}

	return &cli.App{
		Name:  "qsim",
		Usage: "state-vector quantum register simulator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (yaml, toml or json)", EnvVars: []string{"QSIM_CONFIG"}},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-file", Usage: "also write logs to this rotating file"},
			&cli.Uint64Flag{Name: "seed", Usage: "base seed for measurement draws, 0 picks one from the clock"},
			&cli.BoolFlag{Name: "device", Usage: "reseed from the hardware seed unit"},
		},
		Before: func(c *cli.Context) error {
			config, err := qsim.LoadConfig(c.String("config"))
			if err != nil {
				return err
			}

			if c.IsSet("log-level") {
				config.Log.Level = c.String("log-level")
			}

			if c.IsSet("log-file") {
				config.Log.File = c.String("log-file")
			}

			logger, closer, err := newLogger(config.Log)
			if err != nil {
				return err
			}

			log.SetDefault(logger)

			if _, err := maxprocs.Set(maxprocs.Logger(logger.Debugf)); err != nil {
				logger.Warn("could not match GOMAXPROCS to the CPU quota", "err", err)
			}

			env.config = config
			env.logger = logger
			env.closer = closer

			return nil
		},
		After: func(c *cli.Context) error {
			if env.closer != nil {
				return env.closer.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			hadamardCommand(env),
			sampleCommand(env),
			stateCommand(env),
			devicesCommand(env),
		},
	}
}

func newLogger(config qsim.LogConfig) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(config.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", config.Level, err)
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)

	if config.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}

		w = io.MultiWriter(os.Stderr, rotating)
		closer = rotating
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "qsim",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	return logger, closer, nil
}

func baseSeed(c *cli.Context) uint64 {
	if seed := c.Uint64("seed"); seed != 0 {
		return seed
	}

	return uint64(time.Now().UnixNano())
}
