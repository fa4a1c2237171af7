package discover

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"boxart/pkg/catalog"
	"boxart/pkg/config"
	"boxart/pkg/errors"
	"boxart/pkg/logger"
)

// Discoverer produces the resource list from the target page. The
// downloader treats the output as opaque: possibly empty, possibly holding
// duplicate names.
type Discoverer interface {
	Discover(ctx context.Context) ([]catalog.Resource, error)
}

// Browser discovers resources by driving a real headless browser: the
// target site sits behind an anti-bot interstitial and lazy-loads its
// images, so a plain GET of the page HTML sees neither.
type Browser struct {
	target config.TargetConfig
	logger logger.Logger
}

// NewBrowser creates a browser-based discoverer for the configured target
func NewBrowser(target config.TargetConfig, log logger.Logger) *Browser {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Browser{target: target, logger: log}
}

// Discover loads the page, waits out the interstitial, scrolls the full
// page to trigger lazy loading, and extracts the image list from the final
// DOM. Zero extracted resources is a discovery failure: there is nothing
// for a run to do, and it usually means the page structure changed.
func (b *Browser) Discover(ctx context.Context) ([]catalog.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, b.target.PageTimeout.Std())
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(b.target.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	b.logger.InfoWithFields("Loading target page", map[string]interface{}{
		"url": b.target.URL,
	})

	var pageHTML string
	err := chromedp.Run(taskCtx,
		chromedp.EmulateViewport(1920, 1080),
		chromedp.Navigate(b.target.URL),
		b.waitForContent(),
		b.scrollThroughPage(),
		b.clickAllTab(),
		chromedp.OuterHTML("html", &pageHTML),
	)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeDiscovery, "page load failed: %v", err)
	}

	resources, err := ExtractResources([]byte(pageHTML), b.target.URL, b.target.Filter)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeDiscovery, "page parse failed: %v", err)
	}

	if len(resources) == 0 {
		// Keep the rendered page around so the selector mismatch can be
		// diagnosed offline.
		if path := saveDebugPage(pageHTML); path != "" {
			b.logger.WarnWithFields("No resources found, page saved for inspection", map[string]interface{}{
				"path": path,
			})
		}
		return nil, errors.New(errors.ErrorTypeDiscovery, "no matching images found on page")
	}

	b.logger.InfoWithFields("Discovery finished", map[string]interface{}{
		"resources": len(resources),
	})

	return resources, nil
}

// waitForContent polls the DOM until the anti-bot interstitial has cleared
// and real content is present, up to the configured challenge wait.
func (b *Browser) waitForContent() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		deadline := time.Now().Add(b.target.ChallengeWait.Std())

		for time.Now().Before(deadline) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}

			var content string
			if err := chromedp.OuterHTML("html", &content).Do(ctx); err != nil {
				continue
			}

			lower := strings.ToLower(content)
			if strings.Contains(lower, "challenge") || strings.Contains(lower, "checking") {
				b.logger.Debug("Still waiting out the interstitial")
				continue
			}
			if b.target.Filter == "" || strings.Contains(content, b.target.Filter) || strings.Contains(lower, "<img") {
				return nil
			}
		}

		// Proceed anyway; extraction decides whether the page is usable
		b.logger.Warn("Challenge wait elapsed without confirmed content")
		return nil
	})
}

// scrollThroughPage scrolls half a viewport at a time so lazy loaders fire,
// growing the scroll target as new content lengthens the page, then returns
// to the top. Two passes catch loaders that only arm after the first.
func (b *Browser) scrollThroughPage() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var totalHeight, viewportHeight int
		if err := chromedp.Evaluate("document.body.scrollHeight", &totalHeight).Do(ctx); err != nil {
			return err
		}
		if err := chromedp.Evaluate("window.innerHeight", &viewportHeight).Do(ctx); err != nil {
			return err
		}

		step := viewportHeight / 2
		if step <= 0 {
			step = 540
		}
		pause := b.target.ScrollPause.Std()

		for pass := 0; pass < 2; pass++ {
			for pos := 0; pos < totalHeight; pos += step {
				if err := chromedp.Evaluate(fmt.Sprintf("window.scrollTo(0, %d)", pos), nil).Do(ctx); err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(pause):
				}

				var newHeight int
				if err := chromedp.Evaluate("document.body.scrollHeight", &newHeight).Do(ctx); err == nil && newHeight > totalHeight {
					totalHeight = newHeight
				}
			}

			if err := chromedp.Evaluate("window.scrollTo(0, 0)", nil).Do(ctx); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pause):
			}
		}

		return nil
	})
}

// clickAllTab clicks the catalog's "ALL" pagination tab when one is
// present, so every entry lands in the DOM instead of the default page.
// Best effort: the tab may already be selected or not exist at all, and
// either way the scrolled page is still usable.
func (b *Browser) clickAllTab() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		const clickJS = `(() => {
			const tab = Array.from(document.querySelectorAll('a')).find(a => a.textContent.trim() === 'ALL');
			if (!tab) return false;
			tab.click();
			return true;
		})()`

		var clicked bool
		if err := chromedp.Evaluate(clickJS, &clicked).Do(ctx); err != nil || !clicked {
			return nil
		}

		b.logger.Debug("Clicked ALL tab, rescrolling")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
		return b.scrollThroughPage().Do(ctx)
	})
}

// saveDebugPage writes the rendered HTML next to the working directory and
// returns the path, or "" if the write failed.
func saveDebugPage(pageHTML string) string {
	const path = "debug_page.html"
	if err := os.WriteFile(path, []byte(pageHTML), 0644); err != nil {
		return ""
	}
	return path
}

// File reads a previously saved page instead of driving a browser. Useful
// when iterating on extraction against a captured debug_page.html.
type File struct {
	Path    string
	BaseURL string
	Filter  string
}

// Discover parses the saved page and extracts resources from it
func (f *File) Discover(ctx context.Context) ([]catalog.Resource, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeDiscovery, "cannot read page file: %v", err)
	}

	resources, err := ExtractResources(data, f.BaseURL, f.Filter)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeDiscovery, "page parse failed: %v", err)
	}
	if len(resources) == 0 {
		return nil, errors.New(errors.ErrorTypeDiscovery, "no matching images found in page file")
	}

	return resources, nil
}
