package dealapi

import (
	"dealdesk/internal/logger"
	"dealdesk/internal/reqcache"
	"net/http"
	"time"
)

type Client struct {
	baseURL     string
	basePath    string
	token       string
	phoneRegion string
	httpClient  *http.Client
	cache       reqcache.Cache
	log         *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRenderCache memoizes GET responses. Only the server-render path
// should enable it: entries are never invalidated until Clear.
func WithRenderCache(cache reqcache.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithPhoneRegion(region string) Option {
	return func(c *Client) {
		c.phoneRegion = region
	}
}

func New(baseURL, basePath string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		basePath:    basePath,
		phoneRegion: "RU",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
