package qsim

import (
	"fmt"
	"strings"
)

// Step is one gate applied to one qubit.
type Step struct {
	Gate Gate
	Bit  int
}

/*
Circuit is an ordered list of single-qubit gate steps. It holds no state of its
own and can be run against any number of registers, which makes it a
convenient way to build Sampler programs.
*/
type Circuit struct {
	steps []Step
}

func NewCircuit() *Circuit {
	return &Circuit{}
}

func (c *Circuit) Apply(g Gate, bits ...int) *Circuit {
	for _, bit := range bits {
		c.steps = append(c.steps, Step{Gate: g, Bit: bit})
	}
	return c
}

func (c *Circuit) H(bits ...int) *Circuit { return c.Apply(Hadamard, bits...) }
func (c *Circuit) X(bits ...int) *Circuit { return c.Apply(PauliX, bits...) }
func (c *Circuit) Y(bits ...int) *Circuit { return c.Apply(PauliY, bits...) }
func (c *Circuit) Z(bits ...int) *Circuit { return c.Apply(PauliZ, bits...) }

// Steps returns a copy of the step list.
func (c *Circuit) Steps() []Step {
	out := make([]Step, len(c.steps))
	copy(out, c.steps)
	return out
}

// Run applies every step in order and stops at the first failing one.
func (c *Circuit) Run(r *Register) error {
	for i, step := range c.steps {
		if err := r.Apply(step.Gate, step.Bit); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// Measured turns the circuit into a Program that runs it and then measures
// the whole register.
func (c *Circuit) Measured() Program {
	return func(r *Register) (int, error) {
		if err := c.Run(r); err != nil {
			return 0, err
		}
		return r.DecimalMeasure()
	}
}

func (c *Circuit) String() string {
	parts := make([]string, len(c.steps))
	for i, step := range c.steps {
		parts[i] = fmt.Sprintf("%s(%d)", step.Gate.Name, step.Bit)
	}
	return strings.Join(parts, " ")
}
