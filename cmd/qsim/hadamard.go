package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/theapemachine/qsim"
	"github.com/urfave/cli/v2"
)

/*
hadamardCommand runs the coin-flip demo: a single qubit put through H, then on
every frame measured and put through H again. Each frame prints the outcome,
the seed in use and both amplitudes.
*/
func hadamardCommand(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:  "hadamard",
		Usage: "measure a qubit in superposition once per frame",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "frames", Value: 20, Usage: "frames to run, 0 runs until interrupted"},
			&cli.DurationFlag{Name: "interval", Value: time.Second, Usage: "time between frames"},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			source := qsim.NewSeededSource(baseSeed(c))

			wait, err := startEntropy(ctx, env, c.Bool("device"), source)
			if err != nil {
				return err
			}

			runErr := runHadamard(ctx, env, source, c.Int("frames"), c.Duration("interval"))

			cancel()

			if err := wait(); err != nil && runErr == nil {
				runErr = err
			}

			return runErr
		},
	}
}

func runHadamard(ctx context.Context, env *runtimeEnv, source *qsim.SeededSource, frames int, interval time.Duration) error {
	register, err := qsim.NewRegister(1, source, env.config.RegisterOptions()...)
	if err != nil {
		return err
	}

	if err := register.ApplyHadamard(0); err != nil {
		return err
	}

	zero := color.New(color.FgCyan, color.Bold).SprintFunc()
	one := color.New(color.FgMagenta, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	ticker := time.NewTicker(max(interval, time.Millisecond))
	defer ticker.Stop()

	for frame := 0; frames == 0 || frame < frames; frame++ {
		measured, err := register.MeasureBit(0)
		if err != nil {
			return err
		}

		if err := register.ApplyHadamard(0); err != nil {
			return err
		}

		a0, _ := register.State(0)
		a1, _ := register.State(1)

		outcome := zero(measured)
		if measured == 1 {
			outcome = one(measured)
		}

		env.logger.Info("Measured state", "state", measured, "frame", frame)

		fmt.Fprintf(
			color.Output, "%s measured %s  seed %s  |0⟩ %s  |1⟩ %s\n",
			dim(fmt.Sprintf("[%04d]", frame)), outcome, dim(source.Seed()), a0, a1,
		)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}

	return nil
}
