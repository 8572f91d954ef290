// Package fixture builds NCM containers for tests.
package fixture

import (
	"bytes"
	"crypto/aes"
	"encoding/base64"
	"encoding/binary"

	ncmdump "github.com/devgianlu/go-ncmdump"
)

// Container describes a container to build. A nil Metadata produces an empty section.
type Container struct {
	Seed     []byte
	Metadata []byte
	CRC      uint32
	Image    []byte
	Audio    []byte
}

// EncryptECB pads plaintext with PKCS#7 and encrypts it block by block.
func EncryptECB(key, plaintext []byte) []byte {
	c, err := aes.NewCipher(key)
	if err != nil {
		panic(err)
	}

	pad := aes.BlockSize - len(plaintext)%aes.BlockSize
	data := append(bytes.Clone(plaintext), bytes.Repeat([]byte{byte(pad)}, pad)...)
	for i := 0; i < len(data); i += aes.BlockSize {
		c.Encrypt(data[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}

	return data
}

func KeySection(seed []byte) []byte {
	data := EncryptECB(ncmdump.CoreKey, append([]byte("neteasecloudmusic"), seed...))
	for i := range data {
		data[i] ^= 0x64
	}

	return data
}

func MetadataSection(plaintext []byte) []byte {
	if plaintext == nil {
		return nil
	}

	enc := base64.StdEncoding.EncodeToString(EncryptECB(ncmdump.MetaKey, append([]byte("music:"), plaintext...)))
	return ObfuscateMetadata("163 key(Don't modify):" + enc)
}

// ObfuscateMetadata applies the metadata XOR to an already prefixed base64 string.
func ObfuscateMetadata(s string) []byte {
	data := []byte(s)
	for i := range data {
		data[i] ^= 0x63
	}

	return data
}

// Keystream computes the per-offset audio key byte straight from the key schedule.
func Keystream(seed []byte) [256]byte {
	var box [256]byte
	for i := range box {
		box[i] = byte(i)
	}

	last, cursor := 0, 0
	for i := 0; i < 256; i++ {
		swap := int(box[i])
		c := (swap + last + int(seed[cursor])) % 256
		cursor = (cursor + 1) % len(seed)
		box[i], box[c] = box[c], byte(swap)
		last = c
	}

	var ks [256]byte
	for i := range ks {
		j := (i + 1) % 256
		ks[i] = box[(int(box[j])+int(box[(int(box[j])+j)%256]))%256]
	}

	return ks
}

// EncodeAudio applies the audio substitution, which is its own inverse.
func EncodeAudio(seed, audio []byte) []byte {
	ks := Keystream(seed)
	out := make([]byte, len(audio))
	for i, b := range audio {
		out[i] = b ^ ks[i%256]
	}

	return out
}

func (c *Container) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("CTENFDAM")
	buf.Write([]byte{0x01, 0x70})

	writeSection(&buf, KeySection(c.Seed))
	writeSection(&buf, MetadataSection(c.Metadata))

	_ = binary.Write(&buf, binary.LittleEndian, c.CRC)
	buf.Write(make([]byte, 5))
	writeSection(&buf, c.Image)

	buf.Write(EncodeAudio(c.Seed, c.Audio))
	return buf.Bytes()
}

// Raw assembles a container from already encoded sections.
func Raw(key, meta, image, audio []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("CTENFDAM")
	buf.Write([]byte{0x01, 0x70})
	writeSection(&buf, key)
	writeSection(&buf, meta)
	buf.Write(make([]byte, 4+5))
	writeSection(&buf, image)
	buf.Write(audio)
	return buf.Bytes()
}

func writeSection(buf *bytes.Buffer, data []byte) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
}
