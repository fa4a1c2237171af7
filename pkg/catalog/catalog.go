package catalog

import (
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Resource is a single downloadable item discovered on the listing page.
type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// maxSlugLen caps slug length so derived filenames stay portable.
const maxSlugLen = 100

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify converts a display title into a filesystem-safe name: lowercase,
// invalid characters stripped, whitespace and hyphen runs collapsed to a
// single hyphen, no leading or trailing hyphen.
func Slugify(title string) string {
	s := invalidChars.ReplaceAllString(title, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	s = strings.ToLower(s)
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	return s
}

// knownExtensions are the image extensions we trust from a URL suffix.
var knownExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// Extension picks a file extension for a fetched resource. The response
// Content-Type wins when it maps to an image type; otherwise the URL path
// suffix is used when it looks like an image; otherwise ".jpg".
func Extension(rawURL, contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "image/jpeg":
			return ".jpg"
		case "image/png":
			return ".png"
		case "image/gif":
			return ".gif"
		case "image/webp":
			return ".webp"
		case "image/bmp":
			return ".bmp"
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); knownExtensions[ext] {
			return ext
		}
	}
	return ".jpg"
}

// Dedupe removes duplicate names from a discovered resource list, keeping
// the first occurrence of each name. Order is otherwise preserved so runs
// over the same page are deterministic.
func Dedupe(resources []Resource) []Resource {
	seen := make(map[string]bool, len(resources))
	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		out = append(out, r)
	}
	return out
}

// ResolveURL resolves a possibly page-relative link against the page base
// URL, returning an absolute URL.
func ResolveURL(base, link string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	rel, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(rel).String(), nil
}
