package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ohmynofan/honeygain-pot-bot/internal/domain/model"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/logger"
	"github.com/ohmynofan/honeygain-pot-bot/pkg/utils"
)

type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, e.Status)
}

type FetchOptions struct {
	Method            string
	Body              interface{}
	RawBody           []byte
	Query             string
	AdditionalHeaders map[string]string
}

type APIClient struct {
	Proxy     string
	UserAgent string
	client    *resty.Client
	Log       *logger.ClassLogger
}

func NewAPIClient(proxy, userAgent string, timeout time.Duration, session *model.Session) (*APIClient, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().SetTimeout(timeout)

	if proxy != "" {
		if _, err := url.Parse(proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		client.SetProxy(proxy)
	}

	apiClient := &APIClient{
		Proxy:     proxy,
		UserAgent: userAgent,
		client:    client,
	}
	apiClient.Log = logger.NewLogger(apiClient, session)

	return apiClient, nil
}

func (c *APIClient) generateHeaders() map[string]string {
	headers := map[string]string{
		"Accept":        "application/json, text/plain, */*",
		"Cache-Control": "no-cache",
		"Pragma":        "no-cache",
	}
	if c.UserAgent != "" {
		headers["User-Agent"] = c.UserAgent
	}
	return headers
}

// RedactURL keeps only scheme and host. Webhook paths and queries often carry tokens.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "<invalid url>"
	}
	redacted := u.Scheme + "://" + u.Host
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" {
		redacted += "/…"
	}
	return redacted
}

// Fetch performs one request. Non-2xx responses come back as *HTTPError; JSON bodies are decoded,
// anything else is returned as a string.
func (c *APIClient) Fetch(ctx context.Context, endpoint string, opts *FetchOptions) (interface{}, error) {
	if opts == nil {
		opts = &FetchOptions{}
	}
	if opts.Method == "" {
		opts.Method = resty.MethodGet
	}
	if opts.RawBody != nil && opts.Body != nil {
		return nil, fmt.Errorf("cannot specify both Body and RawBody")
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeaders(c.generateHeaders()).
		SetHeaders(opts.AdditionalHeaders)

	hasBody := opts.RawBody != nil || (opts.Method != resty.MethodGet && opts.Body != nil)
	var logBody []byte
	if hasBody {
		if opts.RawBody != nil {
			logBody = opts.RawBody
			req.SetBody(opts.RawBody)
		} else {
			b, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			logBody = b
			req.SetHeader("Content-Type", "application/json").SetBody(b)
		}
	}
	if opts.Query != "" {
		req.SetQueryString(opts.Query)
	}

	target := RedactURL(endpoint)
	if hasBody {
		c.Log.JustLog(fmt.Sprintf("%s %s\nBody:\n%s", opts.Method, target, utils.BeautifyJSON(logBody)))
	} else {
		c.Log.JustLog(fmt.Sprintf("%s %s", opts.Method, target))
	}

	res, err := req.Execute(opts.Method, endpoint)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = target
		}
		return nil, fmt.Errorf("request error: %w", err)
	}

	body := res.Body()
	c.Log.JustLog(fmt.Sprintf("Response %d:\n%s", res.StatusCode(), utils.BeautifyJSON(body)))

	if res.IsSuccess() {
		var data interface{}
		if strings.Contains(res.Header().Get("Content-Type"), "application/json") {
			if err := json.Unmarshal(body, &data); err == nil {
				return data, nil
			}
		}
		return string(body), nil
	}

	return nil, &HTTPError{
		StatusCode: res.StatusCode(),
		Status:     res.Status(),
		Body:       body,
	}
}
