package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// RenderMode records which step of the render strategy produced the
// markup, so the fallback is observable instead of silent.
type RenderMode string

const (
	RenderStatic  RenderMode = "static"
	RenderDynamic RenderMode = "dynamic"
)

// Renderer executes a page's scripts and returns the settled markup.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// renderHTML applies the two-step strategy: dynamic render first, then
// the already-fetched static body when rendering fails for any reason.
func renderHTML(ctx context.Context, r Renderer, url, staticBody string) (string, RenderMode) {
	if r == nil {
		return staticBody, RenderStatic
	}
	markup, err := r.Render(ctx, url)
	if err != nil || strings.TrimSpace(markup) == "" {
		log.Debug().Err(err).Str("url", url).Msg("dynamic render failed, using static body")
		return staticBody, RenderStatic
	}
	return markup, RenderDynamic
}

// ChromeRenderer loads pages in headless Chrome with a bounded load
// timeout and returns the post-JavaScript document markup.
type ChromeRenderer struct {
	// LoadTimeout bounds one page load; zero means 20 seconds.
	LoadTimeout time.Duration
}

func (c *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	timeout := c.LoadTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	browserCtx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var markup string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return markup, nil
}
