package fetcher

import (
	"context"
	"time"

	"themedl/pkg/models"
)

// ThemeAPI is the remote capability the fetcher drives
type ThemeAPI interface {
	ListAssets(ctx context.Context, themeID int64) ([]models.AssetDescriptor, error)
	GetAsset(ctx context.Context, themeID int64, key string) (*models.AssetContent, error)
	CallsRemaining() int
}

// AssetWriter persists fetched assets
type AssetWriter interface {
	Save(content *models.AssetContent) error
	BytesWritten() int64
}

// Gate blocks before each asset call until the rate policy allows it
type Gate interface {
	CheckCycle(ctx context.Context) (time.Duration, error)
	Reset()
}

// Progress receives run progress
type Progress interface {
	Listed(total int)
	Update(ev models.ProgressEvent)
	Paused(wait time.Duration, reason string)
}

type nopProgress struct{}

func (nopProgress) Listed(int)                   {}
func (nopProgress) Update(models.ProgressEvent)  {}
func (nopProgress) Paused(time.Duration, string) {}
