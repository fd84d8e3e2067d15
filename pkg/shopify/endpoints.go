package shopify

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// CallLimitHeader reports "used/limit" for the shop's REST bucket
	CallLimitHeader = "X-Shopify-Shop-Api-Call-Limit"

	// DefaultBucketSize is the REST bucket size assumed before any response
	DefaultBucketSize = 40
)

// BaseURL returns the admin host URL for a shop domain
func BaseURL(domain string) string {
	return "https://" + domain
}

// AssetsPath returns the assets endpoint path for a theme. An empty
// version selects the unversioned admin path.
func AssetsPath(apiVersion string, themeID int64) string {
	if apiVersion == "" {
		return fmt.Sprintf("/admin/themes/%d/assets.json", themeID)
	}
	return fmt.Sprintf("/admin/api/%s/themes/%d/assets.json", apiVersion, themeID)
}

// AssetQuery returns the query string selecting a single asset
func AssetQuery(key string) string {
	params := url.Values{}
	params.Set("asset[key]", key)
	return params.Encode()
}

// ParseCallLimit parses a "used/limit" header value
func ParseCallLimit(value string) (used, limit int, ok bool) {
	left, right, found := strings.Cut(strings.TrimSpace(value), "/")
	if !found {
		return 0, 0, false
	}
	used, err := strconv.Atoi(left)
	if err != nil {
		return 0, 0, false
	}
	limit, err = strconv.Atoi(right)
	if err != nil || limit <= 0 {
		return 0, 0, false
	}
	return used, limit, true
}
