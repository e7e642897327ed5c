package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	werrors "github.com/cristianoliveira/wardlink/internal/errors"
)

// Manifest lists the assets precached at install time for one cache
// generation.
type Manifest struct {
	// Version tags the generation being installed. Empty means the
	// manager's current version.
	Version string `yaml:"version"`
	// Assets are the asset paths (or absolute URLs) to precache.
	Assets []string `yaml:"assets"`
}

// LoadManifest reads a YAML asset manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(m.Assets) == 0 {
		return nil, fmt.Errorf("manifest lists no assets")
	}
	return &m, nil
}

// Install precaches every manifest asset into the static partition of the
// manifest's generation. It is all-or-nothing: every asset is fetched
// before anything is written, so a single failing asset leaves the
// previous generation fully intact and serving.
func (m *Manager) Install(ctx context.Context, manifest *Manifest) error {
	version := manifest.Version
	if version == "" {
		version = m.Version()
	}
	part := PartitionName(PartitionStatic, version)

	type staged struct {
		key   string
		entry *Entry
	}
	var entries []staged
	for _, asset := range manifest.Assets {
		req, err := m.manifestRequest(ctx, asset)
		if err != nil {
			return werrors.Install("install", err)
		}
		resp, err := m.opts.Transport.RoundTrip(req)
		if err != nil {
			return werrors.Install("install", fmt.Errorf("fetch %s: %w", asset, err))
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return werrors.Install("install", fmt.Errorf("read %s: %w", asset, err))
		}
		if !isSuccess(resp) {
			return werrors.Install("install", fmt.Errorf("fetch %s: status %d", asset, resp.StatusCode))
		}
		entries = append(entries, staged{
			key: Key(req),
			entry: &Entry{
				Status:   resp.StatusCode,
				Header:   resp.Header.Clone(),
				Body:     body,
				StoredAt: time.Now().UTC(),
			},
		})
	}

	for _, s := range entries {
		if err := m.store.Put(part, s.key, s.entry); err != nil {
			// A half-written partition must not be left behind.
			if derr := m.store.DeletePartition(part); derr != nil {
				m.opts.Logger.Error("failed to roll back partial install", "partition", part, "error", derr)
			}
			return werrors.Install("install", fmt.Errorf("store %s: %w", s.key, err))
		}
	}
	m.opts.Logger.Info("install complete", "version", version, "assets", len(entries))
	return nil
}

// manifestRequest builds the GET request for a manifest asset. Relative
// paths resolve against the serving origin.
func (m *Manager) manifestRequest(ctx context.Context, asset string) (*http.Request, error) {
	target := asset
	if strings.HasPrefix(asset, "/") {
		if m.opts.Origin == nil {
			return nil, fmt.Errorf("relative asset %s without origin", asset)
		}
		u := *m.opts.Origin
		u.Path = asset
		target = u.String()
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
}

// Activate makes version the active generation: every partition tagged
// with a different version is deleted, irreversibly. It must complete
// before the manager starts serving, and the manager refuses to serve
// from cache until it has.
func (m *Manager) Activate(version string) error {
	if version == "" {
		version = m.Version()
	}
	keep := map[string]bool{
		PartitionName(PartitionStatic, version):  true,
		PartitionName(PartitionDynamic, version): true,
		PartitionName(PartitionAPI, version):     true,
	}
	parts, err := m.store.Partitions()
	if err != nil {
		return fmt.Errorf("activate: list partitions: %w", err)
	}
	for _, part := range parts {
		if keep[part] {
			continue
		}
		if err := m.store.DeletePartition(part); err != nil {
			return fmt.Errorf("activate: delete partition %s: %w", part, err)
		}
		m.opts.Logger.Info("retired cache generation", "partition", part)
	}
	m.mu.Lock()
	m.version = version
	m.active = true
	m.mu.Unlock()
	return nil
}
