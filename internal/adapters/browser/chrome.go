package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ohmynofan/honeygain-pot-bot/internal/domain/model"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/logger"
)

var ErrClosed = errors.New("browser page closed")

type Options struct {
	Headless   bool
	ExecPath   string
	UserAgent  string
	Proxy      string
	CookieURLs []string
	Cookies    *CookieStore
}

// Page is one Chrome tab. Each operation runs under its own timeout and also stops when the
// caller's context is cancelled.
type Page struct {
	opts        Options
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	Log         *logger.ClassLogger

	closeOnce sync.Once
}

func Launch(ctx context.Context, opts Options, session *model.Session) (*Page, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-accelerated-2d-canvas", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-zygote", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1366, 768),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	p := &Page{
		opts:        opts,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}
	p.Log = logger.NewLogger(p, session)

	if err := chromedp.Run(tabCtx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if err := p.restoreCookies(ctx); err != nil {
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		p.Log.JustLog(fmt.Sprintf("Stored cookies not restored: %v", err))
	}
	return p, nil
}

func (p *Page) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := p.tabCtx.Err(); err != nil {
		return ErrClosed
	}
	opCtx, cancel := context.WithTimeout(p.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(opCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := p.run(ctx, timeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *Page) Reload(ctx context.Context, timeout time.Duration) error {
	if err := p.run(ctx, timeout, chromedp.Reload()); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

func (p *Page) Location(ctx context.Context) (string, error) {
	var loc string
	err := p.run(ctx, 10*time.Second, chromedp.Location(&loc))
	return loc, err
}

func (p *Page) Content(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, 10*time.Second, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (p *Page) WaitReady(ctx context.Context, selector string, timeout time.Duration) error {
	return p.run(ctx, timeout, chromedp.WaitReady(selector, chromedp.ByQuery))
}

// Text waits for selector and returns its textContent.
func (p *Page) Text(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	var text string
	err := p.run(ctx, timeout,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.TextContent(selector, &text, chromedp.ByQuery),
	)
	return text, err
}

func (p *Page) Click(ctx context.Context, selector string, timeout time.Duration) error {
	return p.run(ctx, timeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
}

func (p *Page) Type(ctx context.Context, selector, value string, timeout time.Duration) error {
	return p.run(ctx, timeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

// ScanText polls every element matching tags for one whose text contains marker and returns
// that text. It gives up after timeout with context.DeadlineExceeded.
func (p *Page) ScanText(ctx context.Context, tags, marker string, timeout time.Duration) (string, error) {
	script, err := scanScript(tags, marker)
	if err != nil {
		return "", err
	}

	deadline := time.Now().Add(timeout)
	for {
		var found string
		if err := p.run(ctx, 5*time.Second, chromedp.Evaluate(script, &found)); err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrClosed) {
				return "", err
			}
		} else if found != "" {
			return found, nil
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("scan for %q: %w", marker, context.DeadlineExceeded)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func scanScript(tags, marker string) (string, error) {
	t, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	m, err := json.Marshal(marker)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(() => {
	const marker = %s.toLowerCase();
	for (const el of document.querySelectorAll(%s)) {
		const text = el.textContent;
		if (text && text.toLowerCase().includes(marker)) return text;
	}
	return "";
})()`, m, t), nil
}

// SaveSession writes the cookies of the configured URLs to the cookie store.
func (p *Page) SaveSession(ctx context.Context) error {
	if p.opts.Cookies == nil || len(p.opts.CookieURLs) == 0 {
		return nil
	}

	var cookies []*network.Cookie
	err := p.run(ctx, 10*time.Second, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().WithUrls(p.opts.CookieURLs).Do(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}

	stored := make([]StoredCookie, 0, len(cookies))
	for _, c := range cookies {
		sc := StoredCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		}
		if !c.Session && c.Expires > 0 {
			sec, frac := math.Modf(c.Expires)
			sc.Expires = time.Unix(int64(sec), int64(frac*1e9))
		}
		stored = append(stored, sc)
	}
	return p.opts.Cookies.Save(stored)
}

// ForgetSession clears the browser's cookies and the cookie file when a stored session exists.
func (p *Page) ForgetSession(ctx context.Context) error {
	if p.opts.Cookies == nil || !p.opts.Cookies.HasCookies() {
		return nil
	}
	err := p.run(ctx, 10*time.Second, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.ClearBrowserCookies().Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("clear browser cookies: %w", err)
	}
	if err := p.opts.Cookies.Clear(); err != nil {
		return err
	}
	p.Log.JustLog("Stored session expired, cookies dropped")
	return nil
}

func (p *Page) restoreCookies(ctx context.Context) error {
	if p.opts.Cookies == nil {
		return nil
	}
	stored, err := p.opts.Cookies.Load()
	if err != nil || len(stored) == 0 {
		return err
	}

	params := make([]*network.CookieParam, 0, len(stored))
	for _, c := range stored {
		param := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
		if !c.Expires.IsZero() {
			exp := cdp.TimeSinceEpoch(c.Expires)
			param.Expires = &exp
		}
		params = append(params, param)
	}

	err = p.run(ctx, 10*time.Second, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(params).Do(ctx)
	}))
	if err == nil {
		p.Log.JustLog(fmt.Sprintf("Restored %d stored cookies", len(params)))
	}
	return err
}

func (p *Page) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = chromedp.Cancel(p.tabCtx)
		p.tabCancel()
		p.allocCancel()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
