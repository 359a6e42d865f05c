package qsim

/*
BitTable holds, for every basis state and every qubit, the classical value
that qubit takes in that state. Qubit j is bit j of the state index, so qubit 0
is the least significant bit. The table is filled once and never written again.
*/
type BitTable struct {
	size int
	bits []uint8
}

func newBitTable(size, numStates int) BitTable {
	bits := make([]uint8, numStates*size)

	for i := 0; i < numStates; i++ {
		for j := 0; j < size; j++ {
			bits[i*size+j] = uint8((i >> j) & 1)
		}
	}

	return BitTable{size: size, bits: bits}
}

// At returns the value of qubit j in basis state i.
func (t BitTable) At(i, j int) uint8 {
	return t.bits[i*t.size+j]
}

// Label renders state i with the most significant qubit first, so the label
// reads as the binary form of the index.
func (t BitTable) Label(i int) string {
	out := make([]byte, t.size)

	for j := 0; j < t.size; j++ {
		out[t.size-1-j] = '0' + t.At(i, j)
	}

	return string(out)
}
