package shopify

import "themedl/pkg/models"

// assetListResponse is the body of the asset listing call. Assets is a
// pointer so a body without the field can be told apart from an empty theme.
type assetListResponse struct {
	Assets *[]models.AssetDescriptor `json:"assets"`
}

// assetResponse is the body of a single asset call
type assetResponse struct {
	Asset *assetBody `json:"asset"`
}

// assetBody carries either a text value or a base64 attachment
type assetBody struct {
	Key         string  `json:"key"`
	Value       *string `json:"value"`
	Attachment  *string `json:"attachment"`
	ContentType string  `json:"content_type"`
	Size        int64   `json:"size"`
}

// content converts the body into the tagged AssetContent variant
func (b *assetBody) content(requestedKey string) (*models.AssetContent, bool) {
	key := b.Key
	if key == "" {
		key = requestedKey
	}
	switch {
	case b.Attachment != nil:
		return &models.AssetContent{Key: key, Payload: []byte(*b.Attachment), Encoding: models.EncodingBase64}, true
	case b.Value != nil:
		return &models.AssetContent{Key: key, Payload: []byte(*b.Value), Encoding: models.EncodingRaw}, true
	default:
		return nil, false
	}
}
