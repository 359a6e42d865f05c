package qsim

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/olekukonko/tablewriter"
)

/*
Dump writes the register as a table of basis states: the bit label, the state
index, both amplitude components and the probability. Unless verbose is set,
states with a zero amplitude are left out.
*/
func (r *Register) Dump(w io.Writer, verbose bool) error {
	if _, err := fmt.Fprintf(
		w, "register: %d qubits, %d states, total probability %.9f, fingerprint %016x\n",
		r.size, r.numStates, r.TotalProbability(), r.Fingerprint(),
	); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Bits", "State", "Real", "Imag", "Probability"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for i, a := range r.amplitudes {
		if !verbose && a.IsZero() {
			continue
		}

		table.Append([]string{
			r.bits.Label(i),
			strconv.Itoa(i),
			strconv.FormatFloat(a.Real, 'f', 6, 64),
			strconv.FormatFloat(a.Imag, 'f', 6, 64),
			strconv.FormatFloat(a.Norm(), 'f', 6, 64),
		})
	}

	table.Render()
	return nil
}

// Fingerprint hashes the IEEE-754 bits of every amplitude. Two registers with
// bit-identical states share a fingerprint.
func (r *Register) Fingerprint() uint64 {
	digest := xxhash.New()
	buf := make([]byte, 16)

	for _, a := range r.amplitudes {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(a.Real))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(a.Imag))
		_, _ = digest.Write(buf)
	}

	return digest.Sum64()
}
