package container

import "fmt"

const imageGapSize = 5

// Image is the cover art section. CRC is carried as-is and never verified.
type Image struct {
	CRC  uint32
	Data []byte
}

// ExtractImage reads the checksum, the reserved gap and the length-prefixed image bytes.
// A zero length is valid and yields empty, non-nil Data.
func (r *Reader) ExtractImage() (*Image, error) {
	crc, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("failed reading image checksum: %w", err)
	}

	if err := r.Skip(imageGapSize); err != nil {
		return nil, fmt.Errorf("failed skipping image gap: %w", err)
	}

	data, err := r.ReadSection()
	if err != nil {
		return nil, fmt.Errorf("failed reading image: %w", err)
	}

	return &Image{CRC: crc, Data: data}, nil
}
