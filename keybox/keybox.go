package keybox

// KeyBox is a permutation of the 256 byte values driving the audio substitution.
type KeyBox [256]byte

// Derive runs the one pass key scheduling over seed. Seed must not be empty.
func Derive(seed []byte) KeyBox {
	if len(seed) == 0 {
		panic("keybox: empty seed")
	}

	var box KeyBox
	for i := range box {
		box[i] = byte(i)
	}

	var last byte
	cursor := 0
	for i := 0; i < len(box); i++ {
		swap := box[i]
		c := swap + last + seed[cursor]

		cursor++
		if cursor >= len(seed) {
			cursor = 0
		}

		box[i], box[c] = box[c], swap
		last = c
	}

	return box
}

// Keystream returns the key byte applied at every payload offset, indexed by offset mod 256.
func (b *KeyBox) Keystream() (ks [256]byte) {
	for i := range ks {
		j := byte(i + 1)
		ks[i] = b[b[j]+b[b[j]+j]]
	}

	return ks
}
