package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/theapemachine/qsim/entropy"
	"github.com/urfave/cli/v2"
)

func devicesCommand(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "list serial devices the seed unit would consider",
		Action: func(c *cli.Context) error {
			unit := entropy.NewSeedUnit(entropyOptions(env.config.Entropy, env.logger))

			candidates, err := unit.Devices()
			if err != nil {
				return err
			}

			if len(candidates) == 0 {
				fmt.Fprintln(color.Output, color.YellowString("no candidates in %s", env.config.Entropy.DeviceDir))
				return nil
			}

			match, _ := entropy.MatchDevice(candidates, env.config.Entropy.DeviceMatch)

			for _, path := range candidates {
				if path == match {
					fmt.Fprintf(color.Output, "%s %s\n", color.GreenString("*"), color.New(color.Bold).Sprint(path))
					continue
				}

				fmt.Fprintf(color.Output, "  %s\n", path)
			}

			return nil
		},
	}
}
