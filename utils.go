package go_ncmdump

import "bytes"

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ImageMimeType sniffs the cover image format. NCM covers are either PNG or JPEG, anything
// that does not carry the PNG signature is reported as JPEG.
func ImageMimeType(data []byte) string {
	if bytes.HasPrefix(data, pngSignature) {
		return "image/png"
	}

	return "image/jpeg"
}

