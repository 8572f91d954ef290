package go_ncmdump

import "encoding/hex"

const (
	coreKeyHex = "687A4852416D736F356B496E62617857"
	metaKeyHex = "2331346C6A6B5F215C5D2630553C2728"
)

// CoreKey decrypts the key section, MetaKey decrypts the metadata section.
var (
	CoreKey = mustDecodeKey(coreKeyHex)
	MetaKey = mustDecodeKey(metaKeyHex)
)

func mustDecodeKey(s string) []byte {
	key, err := hex.DecodeString(s)
	if err != nil || len(key) != 16 {
		panic("invalid embedded key: " + s)
	}

	return key
}
