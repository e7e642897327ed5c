// Package app wires the wardlink components into one application root.
//
// One App exists per process. It constructs the cache manager, the API
// client and the live session client and hands them to whoever needs them,
// so nothing reaches for hidden globals.
package app

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cristianoliveira/wardlink/internal/api"
	"github.com/cristianoliveira/wardlink/internal/cache"
	"github.com/cristianoliveira/wardlink/internal/channel"
	"github.com/cristianoliveira/wardlink/internal/colors"
	"github.com/cristianoliveira/wardlink/internal/config"
	"github.com/cristianoliveira/wardlink/internal/logging"
	"github.com/cristianoliveira/wardlink/internal/search"
	"github.com/cristianoliveira/wardlink/internal/session"
	"github.com/cristianoliveira/wardlink/internal/settings"
	"github.com/cristianoliveira/wardlink/internal/toast"
	"github.com/cristianoliveira/wardlink/internal/tray"
)

// Options carry the per-session values the server embeds in the page.
type Options struct {
	// UserID addresses the notification channel.
	UserID string
	// CSRFToken is attached to every mutating API call.
	CSRFToken string
	// NotifyPermitted mirrors platform notification permission.
	NotifyPermitted bool
	// OfflinePage is the bundled page served when offline and uncached.
	OfflinePage []byte
	// Dialer overrides the channel dialer; nil uses websockets.
	Dialer channel.Dialer
}

// App is the application root.
type App struct {
	Config    config.Config
	Logger    logging.Logger
	Manager   *cache.Manager
	API       *api.Client
	Session   *session.Client
	Suggester *search.Suggester
	Prefs     *settings.Manager
}

// New builds and activates the full component graph from configuration.
func New(cfg config.Config, opts Options) (*App, error) {
	logger, err := logging.Init(logging.Config{
		Enabled:  cfg.LogEnabled,
		Level:    cfg.LogLevel,
		MaxFiles: 5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	colors.SetLogger(logger)

	origin, err := url.Parse(cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", cfg.Origin, err)
	}

	store, err := cache.NewStoreForBackend(cfg.CacheBackend)
	if err != nil {
		return nil, err
	}
	manager := cache.NewManager(store, cache.Options{
		Origin:       origin,
		StaticPrefix: cfg.StaticPrefix,
		APIPrefix:    cfg.APIPrefix,
		Version:      cfg.CacheVersion,
		Allowlist:    cfg.CacheAllowlist,
		OfflinePage:  opts.OfflinePage,
		Logger:       logger,
	})
	// Activation retires stale generations and must finish before any
	// request is served from cache.
	if err := manager.Activate(cfg.CacheVersion); err != nil {
		store.Close()
		return nil, err
	}

	apiClient := api.NewClient(origin, opts.UserID, opts.CSRFToken, manager)

	dialer := opts.Dialer
	if dialer == nil {
		dialer = &channel.WebsocketDialer{}
	}
	sess := session.New(session.Options{
		WSOrigin:          cfg.WSOrigin,
		UserID:            opts.UserID,
		Tray:              tray.New(cfg.TrayCapacity),
		Toasts:            toast.NewStack(),
		Dialer:            dialer,
		NotificationRetry: cfg.NotificationRetry(),
		StatusRetry:       cfg.StatusRetry(),
		PollInterval:      cfg.PollInterval(),
		Poll: func(ctx context.Context) error {
			_, err := apiClient.DashboardStats(ctx)
			return err
		},
		NotifyPermitted: opts.NotifyPermitted,
		Logger:          logger,
	})

	suggester := search.NewSuggester(
		search.NewSubstringProvider(),
		search.DefaultDataset(),
		func(string, []search.Record) {},
		search.WithDebounce(cfg.SearchDebounce()),
	)

	prefs, err := settings.NewManager()
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Manager:   manager,
		API:       apiClient,
		Session:   sess,
		Suggester: suggester,
		Prefs:     prefs,
	}, nil
}

// Run starts the session client and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.Session.Start(ctx)
	<-ctx.Done()
	a.Session.Stop()
	return a.Close()
}

// Install precaches the manifest at path into a fresh generation and
// activates it.
func (a *App) Install(ctx context.Context, manifestPath string) error {
	manifest, err := cache.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	if err := a.Manager.Install(ctx, manifest); err != nil {
		return err
	}
	version := manifest.Version
	if version == "" {
		version = a.Config.CacheVersion
	}
	return a.Manager.Activate(version)
}

// Status is a point-in-time summary for the status command.
type Status struct {
	Backend    string
	Version    string
	Active     bool
	Partitions map[string]int
	Unread     int
}

// Status summarizes the cache and tray state.
func (a *App) Status() (Status, error) {
	parts, err := a.Manager.Stats()
	if err != nil {
		return Status{}, err
	}
	return Status{
		Backend:    a.Config.CacheBackend,
		Version:    a.Manager.Version(),
		Active:     a.Manager.Active(),
		Partitions: parts,
		Unread:     a.Session.Tray().Unread(),
	}, nil
}

// Close flushes and releases resources.
func (a *App) Close() error {
	err := a.Manager.Close()
	if serr := a.Logger.Shutdown(); err == nil {
		err = serr
	}
	return err
}
