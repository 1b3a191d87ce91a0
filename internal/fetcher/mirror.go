package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/Vodeneev/tipsbot/internal/pkg/config"
)

// MirrorResolver follows a mirror link to the provider URL it lands on.
type MirrorResolver interface {
	Resolve(ctx context.Context, mirrorURL string) (string, error)
}

// ChromeMirrorResolver executes the mirror page in headless Chrome so
// JavaScript redirects are followed.
type ChromeMirrorResolver struct {
	Timeout time.Duration
}

var chromeMu sync.Mutex

func (r ChromeMirrorResolver) Resolve(ctx context.Context, mirrorURL string) (string, error) {
	chromeMu.Lock()
	defer chromeMu.Unlock()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	chromeDir, err := os.MkdirTemp("", "tipsbot_chrome_")
	if err != nil {
		return "", fmt.Errorf("create chrome temp dir: %w", err)
	}
	defer os.RemoveAll(chromeDir)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserDataDir(chromeDir),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	ctx, cancel = chromedp.NewContext(allocCtx)
	defer cancel()

	var finalURL string
	err = chromedp.Run(ctx,
		chromedp.Navigate(mirrorURL),
		chromedp.Sleep(3*time.Second),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp navigation: %w", err)
	}
	if finalURL == "" {
		return "", fmt.Errorf("mirror %s did not report a location", mirrorURL)
	}
	return finalURL, nil
}

// normalizeBaseURL returns scheme://host from a full redirect URL (no path/query, no default port).
func normalizeBaseURL(resolved string) (string, error) {
	u, err := url.Parse(resolved)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return "", fmt.Errorf("resolved url %q has no scheme or host", resolved)
	}
	host := u.Hostname()
	if port := u.Port(); port != "" && port != "80" && port != "443" {
		host = net.JoinHostPort(host, port)
	}
	return u.Scheme + "://" + host, nil
}

// ResolveBaseURL resolves mirrorURL to a base URL, falling back to fallback
// when the mirror is unset or cannot be resolved.
func ResolveBaseURL(ctx context.Context, r MirrorResolver, mirrorURL, fallback string) string {
	if mirrorURL == "" || r == nil {
		return fallback
	}
	resolved, err := r.Resolve(ctx, mirrorURL)
	if err == nil {
		var base string
		if base, err = normalizeBaseURL(resolved); err == nil {
			slog.Info("Resolved provider mirror", "from", mirrorURL, "to", base)
			return base
		}
	}
	slog.Warn("Mirror resolution failed, using configured base URL", "mirror_url", mirrorURL, "fallback", fallback, "error", err)
	return fallback
}

// ResolveMirrors rewrites provider base URLs in cfg from their mirror URLs.
// It runs once at startup, never per request.
func ResolveMirrors(ctx context.Context, cfg *config.Config, r MirrorResolver) {
	af := &cfg.Providers.APIFootball
	af.BaseURL = ResolveBaseURL(ctx, r, af.MirrorURL, af.BaseURL)

	oa := &cfg.Providers.TheOddsAPI
	oa.BaseURL = ResolveBaseURL(ctx, r, oa.MirrorURL, oa.BaseURL)
}
