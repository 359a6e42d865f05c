package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/qsim"
	"github.com/theapemachine/qsim/entropy"
	"golang.org/x/sync/errgroup"
)

func entropyOptions(config qsim.EntropyConfig, logger *log.Logger) entropy.Options {
	return entropy.Options{
		DeviceDir:      config.DeviceDir,
		DevicePrefixes: config.DevicePrefixes,
		DeviceMatch:    config.DeviceMatch,
		BaudRate:       config.BaudRate,
		ReadInterval:   config.ReadInterval,
		Logger:         logger.WithPrefix("entropy"),
	}
}

/*
startEntropy connects the seed unit and feeds its seeds into source until ctx
ends. The returned wait blocks until both goroutines have stopped. Without
--device it does nothing.
*/
func startEntropy(ctx context.Context, env *runtimeEnv, enabled bool, source *qsim.SeededSource) (func() error, error) {
	if !enabled {
		return func() error { return nil }, nil
	}

	unit := entropy.NewSeedUnit(entropyOptions(env.config.Entropy, env.logger))
	if err := unit.Connect(); err != nil {
		return nil, err
	}

	feed := entropy.NewFeed(unit, source, env.config.Entropy.RefreshInterval, env.logger.WithPrefix("entropy"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return unit.Run(gctx) })
	g.Go(func() error { return feed.Run(gctx) })

	return g.Wait, nil
}
