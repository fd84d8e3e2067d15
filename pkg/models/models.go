package models

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
)

// DefaultDomainSuffix is appended to bare shop names
const DefaultDomainSuffix = "myshopify.com"

// ShopCredentials holds the static key/secret pair for a shop's admin API
type ShopCredentials struct {
	Domain string
	Key    string
	Secret string
}

// ParseAPIPair splits a "key:secret" argument
func ParseAPIPair(domain, pair string) (ShopCredentials, error) {
	key, secret, ok := strings.Cut(pair, ":")
	if !ok || key == "" || secret == "" {
		return ShopCredentials{}, fmt.Errorf("API credentials must be in key:secret form")
	}
	return ShopCredentials{Domain: domain, Key: key, Secret: secret}, nil
}

// ShopDomain turns a shop name into its full domain. Names that already
// carry the suffix are returned unchanged.
func ShopDomain(shop, suffix string) string {
	shop = strings.TrimSpace(strings.ToLower(shop))
	if suffix == "" {
		suffix = DefaultDomainSuffix
	}
	if strings.HasSuffix(shop, "."+suffix) {
		return shop
	}
	return shop + "." + suffix
}

// ThemeRef identifies a theme within a shop
type ThemeRef struct {
	ShopDomain string
	ThemeID    int64
}

// Name returns "<shop>-<theme>", the base name shared by the output
// directory and the archive
func (t ThemeRef) Name() string {
	return fmt.Sprintf("%s-%d", t.ShopDomain, t.ThemeID)
}

// ArchiveName returns the tar file name for the theme
func (t ThemeRef) ArchiveName() string {
	return t.Name() + ".tar"
}

// AssetDescriptor is one entry from the asset listing
type AssetDescriptor struct {
	Key string `json:"key"`
}

// Encoding tags how an asset payload is carried
type Encoding int

const (
	EncodingRaw Encoding = iota
	EncodingBase64
)

func (e Encoding) String() string {
	switch e {
	case EncodingBase64:
		return "base64"
	default:
		return "raw"
	}
}

// AssetContent is a fetched asset. Payload holds the text value for raw
// assets and the base64 attachment for binary ones.
type AssetContent struct {
	Key      string
	Payload  []byte
	Encoding Encoding
}

// Bytes returns the decoded file contents
func (a *AssetContent) Bytes() ([]byte, error) {
	if a.Encoding != EncodingBase64 {
		return a.Payload, nil
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(a.Payload)))
	n, err := base64.StdEncoding.Decode(out, a.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment for %s: %w", a.Key, err)
	}
	return out[:n], nil
}

// AssetStatus is the state shown for an asset in the progress slot
type AssetStatus int

const (
	StatusDownloading AssetStatus = iota
	StatusDownloaded
)

func (s AssetStatus) String() string {
	if s == StatusDownloaded {
		return "Downloaded"
	}
	return "Downloading..."
}

// ProgressEvent reports one asset's position in the run. Index is 1-based.
type ProgressEvent struct {
	Index   int
	Total   int
	Percent int
	Key     string
	Status  AssetStatus
	Bytes   int64
}

// Percent returns round(index/total*100). A zero total yields 0.
func Percent(index, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(index) / float64(total) * 100))
}
