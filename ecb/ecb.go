// Package ecb implements AES decryption in electronic codebook mode with PKCS#7 padding removal.
package ecb

import (
	"crypto/aes"
	"fmt"

	ncmdump "github.com/devgianlu/go-ncmdump"
)

// Decrypt decrypts every block independently with key and strips the PKCS#7 padding.
func Decrypt(key, ciphertext []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ncmdump.ErrCipherFailure, err)
	}

	bs := c.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of %d", ncmdump.ErrCipherFailure, len(ciphertext), bs)
	}

	plaintext := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += bs {
		c.Decrypt(plaintext[i:i+bs], ciphertext[i:i+bs])
	}

	return Unpad(plaintext, bs)
}

// Unpad removes PKCS#7 padding, validating every padding byte.
func Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, fmt.Errorf("%w: padded length %d is not a multiple of %d", ncmdump.ErrCipherFailure, len(b), blockSize)
	}

	pad := int(b[len(b)-1])
	if pad == 0 || pad > blockSize {
		return nil, fmt.Errorf("%w: invalid padding length %d", ncmdump.ErrCipherFailure, pad)
	}

	for _, v := range b[len(b)-pad:] {
		if int(v) != pad {
			return nil, fmt.Errorf("%w: malformed padding", ncmdump.ErrCipherFailure)
		}
	}

	return b[:len(b)-pad], nil
}
