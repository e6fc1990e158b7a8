package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/panjf2000/ants/v2"
)

const (
	// maxContentLength bounds the extracted text per page.
	maxContentLength = 500

	defaultSearchTimeout = 10 * time.Second
	defaultFetchTimeout  = 8 * time.Second
	fetchPoolSize        = 4
)

// SearXNG queries a SearXNG instance's JSON API and enriches each result
// with text extracted from the target page. Implements Provider.
type SearXNG struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ Provider = (*SearXNG)(nil)

// SearXNGOption configures a SearXNG provider.
type SearXNGOption func(*SearXNG)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) SearXNGOption {
	return func(s *SearXNG) {
		if client != nil {
			s.client = client
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SearXNGOption {
	return func(s *SearXNG) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSearXNG creates a provider against the given SearXNG base URL, for
// example "http://localhost:8888".
func NewSearXNG(baseURL string, opts ...SearXNGOption) *SearXNG {
	s := &SearXNG{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultSearchTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type searxResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search queries the SearXNG JSON API, fetches the top result pages
// concurrently, and returns candidates carrying the extracted text. Pages
// that fail to fetch fall back to the result snippet.
func (s *SearXNG) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = 3
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("language", "bn")

	endpoint := fmt.Sprintf("%s/search?%s", s.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying search engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search engine returned status %d", resp.StatusCode)
	}

	var parsed searxResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	if len(parsed.Results) == 0 {
		return nil, ErrNoResults
	}
	if len(parsed.Results) > limit {
		parsed.Results = parsed.Results[:limit]
	}

	candidates := make([]Candidate, len(parsed.Results))
	for i, r := range parsed.Results {
		candidates[i] = Candidate{URL: r.URL, Title: r.Title, Content: r.Content}
	}

	s.fetchPages(ctx, candidates)

	usable := candidates[:0]
	for _, c := range candidates {
		if strings.TrimSpace(c.Content) != "" {
			usable = append(usable, c)
		}
	}
	if len(usable) == 0 {
		return nil, ErrNoResults
	}
	return usable, nil
}

// fetchPages replaces each candidate's snippet with extracted page text where
// the fetch succeeds. Errors leave the snippet in place.
func (s *SearXNG) fetchPages(ctx context.Context, candidates []Candidate) {
	pool, err := ants.NewPool(fetchPoolSize)
	if err != nil {
		s.logger.Warn("creating fetch pool failed, keeping snippets", "err", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		i := i
		if err := pool.Submit(func() {
			defer wg.Done()
			text, err := s.extractPage(ctx, candidates[i].URL)
			if err != nil {
				s.logger.Debug("page fetch failed, keeping snippet",
					"url", candidates[i].URL, "err", err)
				return
			}
			candidates[i].Content = text
		}); err != nil {
			wg.Done()
			s.logger.Warn("submitting fetch task failed", "err", err)
		}
	}
	wg.Wait()
}

// extractPage downloads a page and returns its paragraph text, truncated to
// maxContentLength runes.
func (s *SearXNG) extractPage(ctx context.Context, pageURL string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, defaultFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building page request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; jiggasa/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return "", fmt.Errorf("unsupported content type %q", ct)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	var sb strings.Builder
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	})

	text := strings.Join(strings.Fields(sb.String()), " ")
	if text == "" {
		// Pages without paragraph markup still often carry body text.
		text = strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	}
	if text == "" {
		return "", fmt.Errorf("no text content")
	}

	runes := []rune(text)
	if len(runes) > maxContentLength {
		text = string(runes[:maxContentLength])
	}
	return text, nil
}
