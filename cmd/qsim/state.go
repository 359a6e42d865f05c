package main

import (
	"os"

	"github.com/theapemachine/qsim"
	"github.com/urfave/cli/v2"
)

func stateCommand(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "apply gates to a fresh register and print its amplitudes",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "qubits", Aliases: []string{"n"}, Value: 2},
			&cli.IntSliceFlag{Name: "hadamard", Usage: "qubits to put through H, in order"},
			&cli.IntSliceFlag{Name: "x", Usage: "qubits to flip with X, after the H gates"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "include zero amplitudes"},
		},
		Action: func(c *cli.Context) error {
			register, err := qsim.NewRegister(
				c.Int("qubits"), qsim.NewSeededSource(baseSeed(c)), env.config.RegisterOptions()...,
			)
			if err != nil {
				return err
			}

			circuit := qsim.NewCircuit().H(c.IntSlice("hadamard")...).X(c.IntSlice("x")...)
			if err := circuit.Run(register); err != nil {
				return err
			}

			env.logger.Debug("applied", "circuit", circuit.String())

			return register.Dump(os.Stdout, c.Bool("verbose"))
		},
	}
}
