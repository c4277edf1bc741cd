package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func TestEncodeDataURL(t *testing.T) {
	got := EncodeDataURL(&Image{MIME: "image/png", Data: pngMagic})
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", got)
}

func TestEncodeDataURL_DefaultMIME(t *testing.T) {
	got := EncodeDataURL(&Image{Data: []byte("x")})
	assert.Equal(t, "data:image/png;base64,eA==", got)
}

func TestDataURL_RoundTrip(t *testing.T) {
	for _, mime := range []string{"image/png", "image/jpeg", "image/webp"} {
		img := &Image{MIME: mime, Data: []byte{0, 1, 2, 3, 254, 255}}
		decoded, err := DecodeDataURL(EncodeDataURL(img))
		require.NoError(t, err)
		assert.True(t, img.Equal(decoded), "mime %s", mime)
	}
}

func TestDecodeDataURL_MissingMIME(t *testing.T) {
	img, err := DecodeDataURL("data:;base64,eA==")
	require.NoError(t, err)
	assert.Equal(t, DefaultImageMIME, img.MIME)
	assert.Equal(t, []byte("x"), img.Data)
}

func TestDecodeDataURL_Errors(t *testing.T) {
	tests := map[string]string{
		"no prefix":    "https://example.com/a.png",
		"no separator": "data:image/png;base64",
		"not base64":   "data:image/png,plain",
		"bad payload":  "data:image/png;base64,!!!not-base64!!!",
		"empty":        "data:image/png;base64,",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDataURL(in)
			assert.Error(t, err)
		})
	}
}

func TestIsDataURL(t *testing.T) {
	assert.True(t, IsDataURL("data:image/png;base64,AAAA"))
	assert.False(t, IsDataURL("https://upload.wikimedia.org/x.jpg"))
	assert.False(t, IsDataURL(""))
}
