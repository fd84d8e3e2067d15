package fetcher

import (
	"context"
	"path/filepath"
	"time"

	"themedl/pkg/archive"
	"themedl/pkg/config"
	"themedl/pkg/logger"
	"themedl/pkg/models"
	"themedl/pkg/ratelimit"
	"themedl/pkg/storage"
)

// State is a stage of a download run
type State int

const (
	StateInit State = iota
	StateDirectorySetup
	StateListing
	StateDownloading
	StatePackaging
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateDirectorySetup:
		return "directory_setup"
	case StateListing:
		return "listing"
	case StateDownloading:
		return "downloading"
	case StatePackaging:
		return "packaging"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result describes a completed run
type Result struct {
	Theme       models.ThemeRef
	OutputDir   string
	ArchivePath string
	Assets      int
	Bytes       int64
	Entries     int
	Elapsed     time.Duration
}

// Runner drives one theme download from directory setup to the archive
type Runner struct {
	api          ThemeAPI
	cfg          *config.Config
	progress     Progress
	logger       logger.Logger
	limiterOpts  []ratelimit.Option
	state        State
	onTransition func(from, to State)
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithLimiterOptions passes options to the rate limiter built for the run
func WithLimiterOptions(opts ...ratelimit.Option) RunnerOption {
	return func(r *Runner) { r.limiterOpts = append(r.limiterOpts, opts...) }
}

// OnTransition registers a callback for every state change
func OnTransition(fn func(from, to State)) RunnerOption {
	return func(r *Runner) { r.onTransition = fn }
}

// NewRunner creates a Runner. A nil cfg uses the defaults.
func NewRunner(api ThemeAPI, cfg *config.Config, progress Progress, log logger.Logger, opts ...RunnerOption) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if progress == nil {
		progress = nopProgress{}
	}
	if log == nil {
		log = logger.GetLogger()
	}
	r := &Runner{
		api:      api,
		cfg:      cfg,
		progress: progress,
		logger:   log,
		state:    StateInit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current state
func (r *Runner) State() State {
	return r.state
}

// Run downloads the theme into <base>/<shop>-<theme> and packs it into
// <base>/<shop>-<theme>.tar. A pre-existing output directory aborts the run
// before any API call. On failure the partial directory is left in place.
func (r *Runner) Run(ctx context.Context, theme models.ThemeRef) (*Result, error) {
	start := time.Now()
	base := r.cfg.Output.BaseDirectory
	result := &Result{
		Theme:       theme,
		OutputDir:   filepath.Join(base, theme.Name()),
		ArchivePath: filepath.Join(base, theme.ArchiveName()),
	}

	r.transition(theme, StateDirectorySetup)
	store, err := storage.Prepare(result.OutputDir)
	if err != nil {
		return nil, r.abort(theme, err)
	}

	limiter := ratelimit.NewCycleLimiter(r.policy(), r.api, r.limiterOptions()...)
	f := New(r.api, store, limiter, r.progress, r.logger)

	r.transition(theme, StateListing)
	assets, err := f.List(ctx, theme)
	if err != nil {
		return nil, r.abort(theme, err)
	}

	r.transition(theme, StateDownloading)
	if err := f.Download(ctx, theme, assets); err != nil {
		return nil, r.abort(theme, err)
	}
	result.Assets = len(assets)
	result.Bytes = store.BytesWritten()

	r.transition(theme, StatePackaging)
	entries, err := archive.Pack(result.OutputDir, result.ArchivePath)
	if err != nil {
		return nil, r.abort(theme, err)
	}
	result.Entries = entries

	r.transition(theme, StateDone)
	result.Elapsed = time.Since(start)
	return result, nil
}

func (r *Runner) policy() ratelimit.Policy {
	rl := r.cfg.RateLimit
	return ratelimit.Policy{
		Cycle:       rl.Cycle,
		Unit:        rl.Unit,
		BudgetFloor: rl.BudgetFloor,
		BudgetPause: rl.BudgetPause,
	}
}

func (r *Runner) limiterOptions() []ratelimit.Option {
	opts := []ratelimit.Option{
		ratelimit.WithLogger(r.logger),
		ratelimit.OnPause(func(d ratelimit.Decision) {
			r.progress.Paused(d.Wait, string(d.Reason))
		}),
	}
	return append(opts, r.limiterOpts...)
}

func (r *Runner) transition(theme models.ThemeRef, to State) {
	from := r.state
	r.state = to
	logger.LogStateChange(r.logger, theme.Name(), from.String(), to.String())
	if r.onTransition != nil {
		r.onTransition(from, to)
	}
}

func (r *Runner) abort(theme models.ThemeRef, err error) error {
	r.logger.WithError(err).WithField("state", r.state.String()).Error("Download aborted")
	r.transition(theme, StateAborted)
	return err
}
