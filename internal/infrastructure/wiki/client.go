package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/baechuer/france-explorer/internal/application/location"
	"github.com/baechuer/france-explorer/internal/domain"
	"github.com/baechuer/france-explorer/internal/infrastructure/breaker"
	"github.com/baechuer/france-explorer/internal/metrics"
	appCtx "github.com/baechuer/france-explorer/internal/pkg/context"
)

const (
	DefaultAPIURL    = "https://commons.wikimedia.org/w/api.php"
	DefaultUserAgent = "france-explorer/1.0 (https://github.com/baechuer/france-explorer)"

	thumbWidth = 640
)

type Config struct {
	APIURL     string
	UserAgent  string
	Limit      int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client searches Wikimedia Commons for pictures of a town.
type Client struct {
	cfg Config
	cb  *gobreaker.CircuitBreaker[[]domain.Image]
}

var _ location.ImageFetcher = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 6
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		cfg: cfg,
		cb:  breaker.New[[]domain.Image]("wiki-images", breaker.Settings{OpenFor: time.Minute}),
	}
}

type searchResponse struct {
	Query struct {
		Pages []struct {
			Title     string `json:"title"`
			Index     int    `json:"index"`
			ImageInfo []struct {
				URL            string `json:"url"`
				ThumbURL       string `json:"thumburl"`
				DescriptionURL string `json:"descriptionurl"`
				Mime           string `json:"mime"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

func (c *Client) FetchImages(ctx context.Context, townName, departmentName string) ([]domain.Image, error) {
	imgs, err := c.cb.Execute(func() ([]domain.Image, error) {
		return c.search(ctx, strings.TrimSpace(townName+" "+departmentName))
	})
	if err != nil {
		metrics.ImagesFetchFailuresTotal.Inc()
		return nil, err
	}
	return imgs, nil
}

func (c *Client) searchURL(term string) (string, error) {
	u, err := url.Parse(c.cfg.APIURL)
	if err != nil {
		return "", fmt.Errorf("parse wiki api url: %w", err)
	}
	q := u.Query()
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	q.Set("generator", "search")
	q.Set("gsrsearch", term)
	q.Set("gsrnamespace", "6") // File:
	q.Set("gsrlimit", strconv.Itoa(c.cfg.Limit))
	q.Set("prop", "imageinfo")
	q.Set("iiprop", "url|mime")
	q.Set("iiurlwidth", strconv.Itoa(thumbWidth))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) search(ctx context.Context, term string) ([]domain.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint, err := c.searchURL(term)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build wiki request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if id := appCtx.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wiki request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("wiki request status %d", res.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode wiki response: %w", err)
	}

	pages := payload.Query.Pages
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	out := make([]domain.Image, 0, len(pages))
	for _, p := range pages {
		if len(p.ImageInfo) == 0 {
			continue
		}
		info := p.ImageInfo[0]
		if info.URL == "" || (info.Mime != "" && !strings.HasPrefix(info.Mime, "image/")) {
			continue
		}
		out = append(out, domain.Image{
			Title:        p.Title,
			URL:          info.URL,
			ThumbnailURL: info.ThumbURL,
			PageURL:      info.DescriptionURL,
		})
	}
	return out, nil
}
