package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `
<html>
<body>
  <h1>Play NES Games</h1>
  <figure>
    <img src="/wp-content/NES_Covers-2D/Contra-USA.png" alt="Contra">
  </figure>
  <figure>
    <img src="placeholder.gif" data-src="/wp-content/NES_Covers-2D/Castlevania-USA.png" alt="Castlevania">
  </figure>
  <figure>
    <img src="https://cdn.example.com/NES_Covers-2D/Metroid-USA.png" alt="">
  </figure>
  <figure>
    <img src="/wp-content/uploads/site-logo.png" alt="Site Logo">
  </figure>
  <figure>
    <img alt="No Source At All">
  </figure>
</body>
</html>
`

func TestExtractResources(t *testing.T) {
	resources, err := ExtractResources([]byte(listingPage), "https://rec0ded88.com/play-nes-games/", "NES_Covers")
	require.NoError(t, err)
	require.Len(t, resources, 3)

	// Plain src, alt title, root-relative link resolved
	assert.Equal(t, "contra", resources[0].Name)
	assert.Equal(t, "https://rec0ded88.com/wp-content/NES_Covers-2D/Contra-USA.png", resources[0].URL)

	// data-src wins over the lazy-load placeholder
	assert.Equal(t, "castlevania", resources[1].Name)
	assert.Equal(t, "https://rec0ded88.com/wp-content/NES_Covers-2D/Castlevania-USA.png", resources[1].URL)

	// Missing alt falls back to a filename-derived title
	assert.Equal(t, "metroid", resources[2].Name)
	assert.Equal(t, "https://cdn.example.com/NES_Covers-2D/Metroid-USA.png", resources[2].URL)
}

func TestExtractResourcesNoFilter(t *testing.T) {
	resources, err := ExtractResources([]byte(listingPage), "https://rec0ded88.com/play-nes-games/", "")
	require.NoError(t, err)

	// Without a filter every img with a source qualifies
	assert.Len(t, resources, 4)
}

func TestExtractResourcesEmptyPage(t *testing.T) {
	resources, err := ExtractResources([]byte("<html><body></body></html>"), "https://rec0ded88.com/", "NES_Covers")
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"/covers/Contra-USA.png", "Contra"},
		{"/covers/Mega-Man-2-USA.png", "Mega Man 2"},
		{"/covers/metroid.jpg?v=3", "metroid"},
	}

	for _, tt := range tests {
		if got := titleFromFilename(tt.src); got != tt.want {
			t.Errorf("titleFromFilename(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestFileDiscoverer(t *testing.T) {
	dir := t.TempDir()
	pagePath := filepath.Join(dir, "debug_page.html")
	require.NoError(t, os.WriteFile(pagePath, []byte(listingPage), 0644))

	d := &File{
		Path:    pagePath,
		BaseURL: "https://rec0ded88.com/play-nes-games/",
		Filter:  "NES_Covers",
	}

	resources, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Len(t, resources, 3)
}

func TestFileDiscovererMissing(t *testing.T) {
	d := &File{Path: "/nonexistent/page.html", BaseURL: "https://example.com/", Filter: ""}

	_, err := d.Discover(context.Background())
	require.Error(t, err)
}

func TestFileDiscovererNoMatches(t *testing.T) {
	dir := t.TempDir()
	pagePath := filepath.Join(dir, "empty.html")
	require.NoError(t, os.WriteFile(pagePath, []byte("<html><body><p>nothing here</p></body></html>"), 0644))

	d := &File{Path: pagePath, BaseURL: "https://example.com/", Filter: "NES_Covers"}

	_, err := d.Discover(context.Background())
	require.Error(t, err)
}
