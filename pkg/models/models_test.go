package models

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopDomain(t *testing.T) {
	assert.Equal(t, "foo.myshopify.com", ShopDomain("foo", ""))
	assert.Equal(t, "foo.myshopify.com", ShopDomain("Foo ", "myshopify.com"))
	assert.Equal(t, "foo.myshopify.com", ShopDomain("foo.myshopify.com", ""))
}

func TestParseAPIPair(t *testing.T) {
	creds, err := ParseAPIPair("foo.myshopify.com", "abc:s3:cret")
	require.NoError(t, err)
	assert.Equal(t, "abc", creds.Key)
	assert.Equal(t, "s3:cret", creds.Secret)

	for _, bad := range []string{"abc", ":secret", "abc:", ""} {
		_, err := ParseAPIPair("foo.myshopify.com", bad)
		assert.Error(t, err, bad)
	}
}

func TestThemeRefNames(t *testing.T) {
	ref := ThemeRef{ShopDomain: "foo.myshopify.com", ThemeID: 42}
	assert.Equal(t, "foo.myshopify.com-42", ref.Name())
	assert.Equal(t, "foo.myshopify.com-42.tar", ref.ArchiveName())
}

func TestAssetContentBytes(t *testing.T) {
	raw := &AssetContent{Key: "templates/index.liquid", Payload: []byte("{{ content }}")}
	got, err := raw.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "{{ content }}", string(got))

	original := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff, 0x10}
	bin := &AssetContent{
		Key:      "assets/logo.png",
		Payload:  []byte(base64.StdEncoding.EncodeToString(original)),
		Encoding: EncodingBase64,
	}
	got, err = bin.Bytes()
	require.NoError(t, err)
	assert.Equal(t, original, got)

	broken := &AssetContent{Key: "x.png", Payload: []byte("!!!"), Encoding: EncodingBase64}
	_, err = broken.Bytes()
	assert.Error(t, err)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 100, Percent(1, 1))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 1, Percent(1, 200))
	assert.Equal(t, 0, Percent(1, 201))

	for n := 1; n <= 250; n++ {
		prev := 0
		for i := 1; i <= n; i++ {
			p := Percent(i, n)
			assert.GreaterOrEqual(t, p, prev)
			prev = p
		}
		assert.Equal(t, 100, prev)
	}
}

func TestAssetStatusString(t *testing.T) {
	assert.Equal(t, "Downloading...", StatusDownloading.String())
	assert.Equal(t, "Downloaded", StatusDownloaded.String())
}
