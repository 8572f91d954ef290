package metadata

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	ncmdump "github.com/devgianlu/go-ncmdump"
	"github.com/devgianlu/go-ncmdump/ecb"
)

const (
	xorKey = 0x63

	// "163 key(Don't modify):"
	encodedPrefixLen = 22
	// "music:"
	plainPrefixLen = 6
)

// ID is an identifier that containers store either as a JSON number or as a string.
type ID string

// Int returns the identifier as an integer, or zero if it is not numeric.
func (id ID) Int() int64 {
	v, _ := strconv.ParseInt(string(id), 10, 64)
	return v
}

// Record is the decoded track metadata. Unknown fields, and known fields holding a value of an
// unexpected type, end up in Extra.
type Record struct {
	MusicID       ID              `json:"musicId"`
	MusicName     string          `json:"musicName"`
	Artist        [][]interface{} `json:"artist"`
	AlbumID       ID              `json:"albumId"`
	Album         string          `json:"album"`
	AlbumPicDocID ID              `json:"albumPicDocId"`
	AlbumPic      string          `json:"albumPic"`
	Bitrate       int64           `json:"bitrate"`
	Mp3DocID      string          `json:"mp3DocId"`
	Duration      int64           `json:"duration"`
	MvID          ID              `json:"mvId"`
	Alias         []string        `json:"alias"`
	TransNames    []interface{}   `json:"transNames"`
	Format        string          `json:"format"`

	Extra map[string]interface{} `json:"-"`
}

// AudioFormat returns the audio file extension, failing if the container did not carry one.
func (r *Record) AudioFormat() (string, error) {
	if r == nil || len(r.Format) == 0 {
		return "", fmt.Errorf("%w: format", ncmdump.ErrMissingField)
	}

	return r.Format, nil
}

// Artists flattens the [[name, id], ...] artist list into names.
func (r *Record) Artists() []string {
	if r == nil {
		return nil
	}

	names := make([]string, 0, len(r.Artist))
	for _, entry := range r.Artist {
		if len(entry) == 0 {
			continue
		}

		if name, ok := entry[0].(string); ok && len(name) > 0 {
			names = append(names, name)
		}
	}

	return names
}

// Decode un-obfuscates, decrypts and parses the raw metadata section. An empty section means
// the container has no metadata and yields a nil record.
func Decode(raw []byte) (*Record, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	if len(raw) < encodedPrefixLen {
		return nil, fmt.Errorf("%w: section is %d bytes long", ncmdump.ErrBase64, len(raw))
	}

	data := make([]byte, len(raw)-encodedPrefixLen)
	for i, b := range raw[encodedPrefixLen:] {
		data[i] = b ^ xorKey
	}

	ciphertext, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ncmdump.ErrBase64, err)
	}

	plaintext, err := ecb.Decrypt(ncmdump.MetaKey, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed decrypting metadata: %w", err)
	}

	if len(plaintext) < plainPrefixLen {
		return nil, fmt.Errorf("%w: decrypted metadata is %d bytes long", ncmdump.ErrCipherFailure, len(plaintext))
	}

	plaintext = plaintext[plainPrefixLen:]
	if !utf8.Valid(plaintext) {
		return nil, ncmdump.ErrUtf8
	}

	return Parse(plaintext)
}

// Parse parses the plaintext JSON metadata. Only a document that is not a JSON object is an
// error, known fields holding a value of an unexpected type are moved to Extra.
func Parse(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ncmdump.ErrJSONParse, err)
	} else if doc == nil {
		return nil, fmt.Errorf("%w: not a json object", ncmdump.ErrJSONParse)
	} else if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ncmdump.ErrJSONParse)
	}

	var rec Record
	for k, v := range doc {
		if !rec.set(k, v) {
			if rec.Extra == nil {
				rec.Extra = map[string]interface{}{}
			}

			rec.Extra[k] = v
		}
	}

	return &rec, nil
}

// set stores v into the known field k, it returns false if k is unknown or v has a type that
// does not fit.
func (r *Record) set(k string, v interface{}) (ok bool) {
	switch k {
	case "musicId":
		r.MusicID, ok = toID(v)
	case "albumId":
		r.AlbumID, ok = toID(v)
	case "albumPicDocId":
		r.AlbumPicDocID, ok = toID(v)
	case "mvId":
		r.MvID, ok = toID(v)
	case "musicName":
		r.MusicName, ok = toString(v)
	case "album":
		r.Album, ok = toString(v)
	case "albumPic":
		r.AlbumPic, ok = toString(v)
	case "mp3DocId":
		r.Mp3DocID, ok = toString(v)
	case "format":
		r.Format, ok = v.(string)
	case "bitrate":
		r.Bitrate, ok = toInt(v)
	case "duration":
		r.Duration, ok = toInt(v)
	case "artist":
		r.Artist, ok = toArtists(v)
	case "alias":
		r.Alias, ok = toStrings(v)
	case "transNames":
		r.TransNames, ok = v.([]interface{})
	}

	return ok
}

func toString(v interface{}) (string, bool) {
	switch vv := v.(type) {
	case nil:
		return "", true
	case string:
		return vv, true
	case json.Number:
		return vv.String(), true
	default:
		return "", false
	}
}

func toID(v interface{}) (ID, bool) {
	s, ok := toString(v)
	return ID(s), ok
}

func toInt(v interface{}) (int64, bool) {
	var s string
	switch vv := v.(type) {
	case nil:
		return 0, true
	case json.Number:
		s = vv.String()
	case string:
		s = vv
	default:
		return 0, false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	} else if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}

	return 0, false
}

func toStrings(v interface{}) ([]string, bool) {
	arr, ok := v.([]interface{})
	if !ok {
		return nil, v == nil
	}

	res := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}

		res = append(res, s)
	}

	return res, true
}

// toArtists accepts the usual [[name, id], ...] list as well as a bare name or a list of names.
func toArtists(v interface{}) ([][]interface{}, bool) {
	switch vv := v.(type) {
	case nil:
		return nil, true
	case string:
		return [][]interface{}{{vv}}, true
	case []interface{}:
		res := make([][]interface{}, 0, len(vv))
		for _, item := range vv {
			switch entry := item.(type) {
			case []interface{}:
				res = append(res, entry)
			case string:
				res = append(res, []interface{}{entry})
			default:
				return nil, false
			}
		}

		return res, true
	default:
		return nil, false
	}
}
