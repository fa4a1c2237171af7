package discover

import (
	"bytes"
	"path"
	"strings"

	"golang.org/x/net/html"

	"boxart/pkg/catalog"
)

// ExtractResources walks the rendered page HTML and collects candidate box
// art images. An image qualifies when its src (or lazy-load data-src)
// contains the filter substring. The display name comes from the alt
// attribute, falling back to a title derived from the image filename.
// Relative links are resolved against the page base URL.
func ExtractResources(pageHTML []byte, baseURL, filter string) ([]catalog.Resource, error) {
	doc, err := html.Parse(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	var resources []catalog.Resource

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			if res, ok := imageResource(n, baseURL, filter); ok {
				resources = append(resources, res)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return resources, nil
}

// imageResource turns an img node into a Resource if it passes the filter
func imageResource(n *html.Node, baseURL, filter string) (catalog.Resource, bool) {
	var src, alt string
	for _, a := range n.Attr {
		switch a.Key {
		case "src":
			if src == "" {
				src = strings.TrimSpace(a.Val)
			}
		case "data-src":
			// Lazy loaders leave the real URL in data-src
			if strings.TrimSpace(a.Val) != "" {
				src = strings.TrimSpace(a.Val)
			}
		case "alt":
			alt = strings.TrimSpace(a.Val)
		}
	}

	if src == "" || (filter != "" && !strings.Contains(src, filter)) {
		return catalog.Resource{}, false
	}

	title := alt
	if title == "" {
		title = titleFromFilename(src)
	}

	name := catalog.Slugify(title)
	if name == "" {
		return catalog.Resource{}, false
	}

	absolute, err := catalog.ResolveURL(baseURL, src)
	if err != nil {
		return catalog.Resource{}, false
	}

	return catalog.Resource{Name: name, URL: absolute}, true
}

// titleFromFilename recovers a readable title from an image filename when
// the alt attribute is missing, e.g. "Contra-USA.png" -> "Contra".
func titleFromFilename(src string) string {
	filename := path.Base(src)
	if idx := strings.Index(filename, "?"); idx != -1 {
		filename = filename[:idx]
	}
	filename = strings.TrimSuffix(filename, path.Ext(filename))
	filename = strings.ReplaceAll(filename, "-USA", "")
	return strings.ReplaceAll(filename, "-", " ")
}
