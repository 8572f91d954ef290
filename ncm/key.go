package ncm

import (
	"fmt"

	ncmdump "github.com/devgianlu/go-ncmdump"
	"github.com/devgianlu/go-ncmdump/ecb"
	"github.com/devgianlu/go-ncmdump/keybox"
)

const (
	keyXor = 0x64

	// "neteasecloudmusic"
	keyPrefixLen = 17
)

// deriveKeyBox decrypts the key section and derives the audio key box from the seed in it.
func deriveKeyBox(raw []byte) (keybox.KeyBox, error) {
	data := make([]byte, len(raw))
	for i, b := range raw {
		data[i] = b ^ keyXor
	}

	plaintext, err := ecb.Decrypt(ncmdump.CoreKey, data)
	if err != nil {
		return keybox.KeyBox{}, fmt.Errorf("failed decrypting key: %w", err)
	}

	if len(plaintext) <= keyPrefixLen {
		return keybox.KeyBox{}, fmt.Errorf("%w: decrypted key is %d bytes long", ncmdump.ErrCipherFailure, len(plaintext))
	}

	return keybox.Derive(plaintext[keyPrefixLen:]), nil
}
