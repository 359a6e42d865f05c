package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/theapemachine/qsim"
	"github.com/urfave/cli/v2"
)

func sampleCommand(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "put every qubit in superposition, measure the register and histogram the outcomes",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "qubits", Aliases: []string{"n"}, Value: 3},
			&cli.IntFlag{Name: "shots", Aliases: []string{"s"}, Value: 1024},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "defaults to sampler.workers"},
		},
		Action: func(c *cli.Context) error {
			qubits := c.Int("qubits")
			logger := env.logger.With("run", uuid.NewString())

			sampler := qsim.NewSampler(env.config, qsim.WithWorkers(c.Int("workers")))

			bits := make([]int, max(qubits, 0))
			for i := range bits {
				bits[i] = i
			}

			circuit := qsim.NewCircuit().H(bits...)
			logger.Debug("sampling", "circuit", circuit.String())

			histogram, err := sampler.Run(c.Context, qubits, c.Int("shots"), baseSeed(c), circuit.Measured())
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Outcome", "Bits", "Count", "Frequency"})
			table.SetAlignment(tablewriter.ALIGN_RIGHT)

			for _, outcome := range histogram.Outcomes() {
				table.Append([]string{
					strconv.Itoa(outcome),
					fmt.Sprintf("%0*b", qubits, outcome),
					strconv.Itoa(histogram.Count(outcome)),
					strconv.FormatFloat(histogram.Frequency(outcome), 'f', 4, 64),
				})
			}

			table.SetFooter([]string{"", "", strconv.Itoa(histogram.Shots), "1.0000"})
			table.Render()

			stats := sampler.Metrics().Snapshot()
			logger.Info(
				"sampling done",
				"shots", stats.Shots,
				"workers", stats.Workers,
				"avg", stats.AverageShotLatency,
				"p95", stats.P95ShotLatency,
				"p99", stats.P99ShotLatency,
			)

			return nil
		},
	}
}
