package catalog

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DataURLPrefix marks a string as an inline base64 payload.
const DataURLPrefix = "data:"

// DefaultImageMIME is assumed when a data URL omits its media type.
const DefaultImageMIME = "image/png"

// IsDataURL reports whether s should be decoded as inline artwork rather
// than treated as a remote URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, DataURLPrefix)
}

// EncodeDataURL renders img as "data:<mime>;base64,<payload>".
func EncodeDataURL(img *Image) string {
	mime := img.MIME
	if mime == "" {
		mime = DefaultImageMIME
	}
	return DataURLPrefix + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// DecodeDataURL parses a base64 data URL back into an Image.
func DecodeDataURL(s string) (*Image, error) {
	if !IsDataURL(s) {
		return nil, fmt.Errorf("decode data url: missing %q prefix", DataURLPrefix)
	}
	header, payload, ok := strings.Cut(s[len(DataURLPrefix):], ",")
	if !ok {
		return nil, fmt.Errorf("decode data url: missing payload separator")
	}

	params := strings.Split(header, ";")
	if params[len(params)-1] != "base64" {
		return nil, fmt.Errorf("decode data url: only base64 payloads are supported")
	}
	mime := params[0]
	if len(params) == 1 || mime == "" {
		mime = DefaultImageMIME
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("decode data url: empty payload")
	}
	return &Image{MIME: mime, Data: data}, nil
}
