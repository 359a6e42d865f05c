package entropy

/*
Assembler turns the seed unit's byte stream into 32-bit seeds. Newline bytes
are padding and skipped; every four data bytes form one seed, least
significant byte first.
*/
type Assembler struct {
	buf [4]byte
	n   int
}

// Feed consumes one byte and returns a seed once four data bytes are in.
func (a *Assembler) Feed(b byte) (uint32, bool) {
	if b == '\n' {
		return 0, false
	}

	a.buf[a.n] = b
	a.n++

	if a.n < len(a.buf) {
		return 0, false
	}

	a.n = 0

	return uint32(a.buf[0]) |
		uint32(a.buf[1])<<8 |
		uint32(a.buf[2])<<16 |
		uint32(a.buf[3])<<24, true
}

// Pending is the number of data bytes waiting for the next seed.
func (a *Assembler) Pending() int {
	return a.n
}

// Reset drops a partially assembled seed, e.g. after a reconnect.
func (a *Assembler) Reset() {
	a.n = 0
}
