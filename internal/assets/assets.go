// Package assets provides embedded files for wardlink.
package assets

import "embed"

//go:embed offline.html
//go:embed manifest.yaml
var FS embed.FS

// OfflinePage returns the bundled offline fallback page.
func OfflinePage() []byte {
	data, err := FS.ReadFile("offline.html")
	if err != nil {
		return nil
	}
	return data
}

// SampleManifest returns the bundled example install manifest.
func SampleManifest() []byte {
	data, err := FS.ReadFile("manifest.yaml")
	if err != nil {
		return nil
	}
	return data
}
