// Package fetch retrieves candidate URL content and renders it to plain
// text. Dispatch is by declared content type: PDFs are size-gated and
// text-extracted page by page, text-like content goes through a two-step
// dynamic/static render strategy, everything else is unsupported.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/vdpscout/vdpscout/internal/extract"
)

var (
	// ErrUnsupportedContent marks content types that are neither PDF nor
	// text-like; the candidate is skipped.
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrSizeExceeded marks a PDF above the configured ceiling.
	ErrSizeExceeded = errors.New("pdf size limit exceeded")
)

// Content is the fetched representation of one URL. Raw is present only
// for HTML so DOM-level platform checks can run against the markup; Text
// is always the whitespace-collapsed plain-text rendering. Mode records
// which render strategy produced an HTML result.
type Content struct {
	Raw  string
	Text string
	Mode RenderMode
}

// Fetcher dispatches by content type and owns the per-request timeout.
type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
	// PDFSizeLimitMB caps PDF downloads; zero means the 1 MB default.
	PDFSizeLimitMB int
	// Renderer, when set, is tried before falling back to the static
	// body. Leaving it nil skips the dynamic step entirely.
	Renderer Renderer
}

// Fetch returns the content of a URL, or (nil, error) when nothing
// usable could be produced. All errors are per-candidate: callers log
// and move on.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Content, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	hc := f.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(contentType, "application/pdf"):
		return f.handlePDF(resp, rawURL)
	case strings.HasPrefix(contentType, "text/"), strings.Contains(contentType, "application/xhtml+xml"):
		return f.handleText(ctx, resp, rawURL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}
}

func (f *Fetcher) handlePDF(resp *http.Response, rawURL string) (*Content, error) {
	limitMB := f.PDFSizeLimitMB
	if limitMB <= 0 {
		limitMB = 1
	}
	limit := int64(limitMB) * 1024 * 1024

	// The declared length gates the download before extraction starts.
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n > limit {
			return nil, fmt.Errorf("%w: %d bytes at %s", ErrSizeExceeded, n, rawURL)
		}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: body over %d MB at %s", ErrSizeExceeded, limitMB, rawURL)
	}

	text, err := extractPDFText(body)
	if err != nil {
		return nil, fmt.Errorf("pdf extraction: %w", err)
	}
	return &Content{Text: collapseWhitespace(text)}, nil
}

func (f *Fetcher) handleText(ctx context.Context, resp *http.Response, rawURL string) (*Content, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	markup, mode := renderHTML(ctx, f.Renderer, rawURL, string(body))
	doc := extract.FromHTML([]byte(markup))
	return &Content{
		Raw:  markup,
		Text: collapseWhitespace(doc.Text),
		Mode: mode,
	}, nil
}

// extractPDFText walks pages independently so one broken page costs only
// its own text. A panic inside the PDF reader counts as a hard failure.
func extractPDFText(body []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			log.Debug().Err(perr).Int("page", i).Msg("pdf page skipped")
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
