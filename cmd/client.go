/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"context"
	"os"

	"github.com/cristianoliveira/wardlink/internal/app"
	"github.com/cristianoliveira/wardlink/internal/assets"
	"github.com/cristianoliveira/wardlink/internal/config"
	"github.com/cristianoliveira/wardlink/internal/search"
	"github.com/cristianoliveira/wardlink/internal/settings"
)

// Session identity flags, shared by the commands that talk to the backend.
// The web page embeds these values in the DOM; the CLI takes them from
// flags with environment fallbacks.
var (
	flagUserID    string
	flagCSRFToken string
	flagNotify    bool
)

// defaultClient builds the application root on demand. Commands depend on
// narrow interfaces so tests can substitute fakes.
type defaultClient struct{}

func (defaultClient) newApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	userID := flagUserID
	if userID == "" {
		userID = os.Getenv("WARDLINK_USER_ID")
	}
	csrf := flagCSRFToken
	if csrf == "" {
		csrf = os.Getenv("WARDLINK_CSRF_TOKEN")
	}
	return app.New(cfg, app.Options{
		UserID:          userID,
		CSRFToken:       csrf,
		NotifyPermitted: flagNotify,
		OfflinePage:     assets.OfflinePage(),
	})
}

func (c defaultClient) Run(ctx context.Context) error {
	a, err := c.newApp()
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func (c defaultClient) Install(ctx context.Context, manifestPath string) error {
	a, err := c.newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Install(ctx, manifestPath)
}

func (c defaultClient) Lookup(query string) []search.Record {
	suggester := search.NewSuggester(
		search.NewSubstringProvider(),
		search.DefaultDataset(),
		func(string, []search.Record) {},
	)
	return suggester.Lookup(query)
}

func (c defaultClient) LoadSettings() (*settings.Settings, error) {
	m, err := settings.NewManager()
	if err != nil {
		return nil, err
	}
	return m.Load()
}

func (c defaultClient) SaveSettings(s *settings.Settings) error {
	m, err := settings.NewManager()
	if err != nil {
		return err
	}
	return m.Save(s)
}

func (c defaultClient) Status() (app.Status, error) {
	a, err := c.newApp()
	if err != nil {
		return app.Status{}, err
	}
	defer a.Close()
	return a.Status()
}

func (c defaultClient) Version() string {
	return Version
}

var coreClient = defaultClient{}
