// Package holdings fetches the user's holdings from the remote endpoint.
package holdings

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/STTM-NSU/holdings/internal/config"
	"github.com/STTM-NSU/holdings/internal/logger"
	"github.com/STTM-NSU/holdings/internal/model"
	"github.com/bytedance/sonic"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// resty writes its own diagnostics through the module logger.
var _ resty.Logger = (logger.Logger)(nil)

type Client struct {
	c           *resty.Client
	rateLimiter ratelimit.Limiter

	logger logger.Logger
}

func NewClient(cfg config.ClientConfig, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RequestsPerMinute > 0 {
		limiter = ratelimit.New(cfg.RequestsPerMinute, ratelimit.Per(time.Minute))
	}

	return &Client{
		c:           client,
		rateLimiter: limiter,
		logger:      logger,
	}
}

// FetchPortfolio performs one GET against rawURL. Failures are always *Error;
// nothing is returned on failure.
func (c *Client) FetchPortfolio(ctx context.Context, rawURL string) (model.Portfolio, error) {
	if !validURL(rawURL) {
		return model.Portfolio{}, &Error{Kind: KindInvalidURL}
	}

	c.rateLimiter.Take()
	resp, err := c.c.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return model.Portfolio{}, &Error{Kind: KindNetwork, Err: err}
	}
	if resp == nil || resp.RawResponse == nil {
		return model.Portfolio{}, &Error{Kind: KindInvalidResponse}
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", rawURL, resp.Status(), resp.Duration())

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() > 299 {
		return model.Portfolio{}, &Error{Kind: KindInvalidResponse}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Portfolio{}, &Error{Kind: KindNetwork, Err: err}
	}

	var p model.Portfolio
	if err := sonic.Unmarshal(body, &p); err != nil {
		c.logger.Debugf("%s: can't decode holdings response", err)
		return model.Portfolio{}, &Error{Kind: KindDecoding, Err: err}
	}

	return p, nil
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
