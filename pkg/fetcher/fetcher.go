package fetcher

import (
	"context"
	"errors"

	errs "themedl/pkg/errors"
	"themedl/pkg/logger"
	"themedl/pkg/models"
)

// Fetcher lists a theme's assets and downloads them one by one, in listing
// order, through the rate gate
type Fetcher struct {
	api      ThemeAPI
	store    AssetWriter
	gate     Gate
	progress Progress
	logger   logger.Logger
}

// New creates a Fetcher. A nil progress discards events.
func New(api ThemeAPI, store AssetWriter, gate Gate, progress Progress, log logger.Logger) *Fetcher {
	if progress == nil {
		progress = nopProgress{}
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Fetcher{
		api:      api,
		store:    store,
		gate:     gate,
		progress: progress,
		logger:   log,
	}
}

// Run lists and downloads every asset of the theme
func (f *Fetcher) Run(ctx context.Context, theme models.ThemeRef) error {
	assets, err := f.List(ctx, theme)
	if err != nil {
		return err
	}
	return f.Download(ctx, theme, assets)
}

// List issues the single listing call
func (f *Fetcher) List(ctx context.Context, theme models.ThemeRef) ([]models.AssetDescriptor, error) {
	assets, err := f.api.ListAssets(ctx, theme.ThemeID)
	if err != nil {
		f.logger.WithError(err).WithField("theme", theme.Name()).Error("Failed to list theme assets")
		if cerr := cancellation(ctx, err); cerr != nil {
			return nil, cerr
		}
		return nil, errs.Wrap(errs.ErrorTypeListing, err, "failed to list theme assets")
	}

	f.logger.InfoWithFields("Listed theme assets", map[string]interface{}{
		"theme": theme.Name(),
		"total": len(assets),
	})
	f.progress.Listed(len(assets))
	return assets, nil
}

// Download fetches and stores each asset in order. The first failure stops
// the run; nothing is retried.
func (f *Fetcher) Download(ctx context.Context, theme models.ThemeRef, assets []models.AssetDescriptor) error {
	total := len(assets)
	f.gate.Reset()

	for i, asset := range assets {
		index := i + 1
		ev := models.ProgressEvent{
			Index:   index,
			Total:   total,
			Percent: models.Percent(index, total),
			Key:     asset.Key,
			Status:  models.StatusDownloading,
		}
		f.progress.Update(ev)

		if _, err := f.gate.CheckCycle(ctx); err != nil {
			if cerr := cancellation(ctx, err); cerr != nil {
				return cerr
			}
			return errs.Wrap(errs.ErrorTypeAssetFetch, err, "rate limit gate failed").WithKey(asset.Key)
		}

		content, err := f.api.GetAsset(ctx, theme.ThemeID, asset.Key)
		if err != nil {
			logger.LogDownload(f.logger, asset.Key, index, total, err)
			if cerr := cancellation(ctx, err); cerr != nil {
				return cerr
			}
			return errs.Wrap(errs.ErrorTypeAssetFetch, err, "failed to fetch asset").WithKey(asset.Key)
		}

		before := f.store.BytesWritten()
		if err := f.store.Save(content); err != nil {
			logger.LogDownload(f.logger, asset.Key, index, total, err)
			return err
		}
		logger.LogDownload(f.logger, asset.Key, index, total, nil)

		ev.Status = models.StatusDownloaded
		ev.Bytes = f.store.BytesWritten() - before
		f.progress.Update(ev)
	}

	return nil
}

// cancellation returns the context error when a failure came from cancelling
// the run rather than from the API, or nil otherwise. It is returned untyped
// so it maps to the generic exit status.
func cancellation(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	return nil
}
