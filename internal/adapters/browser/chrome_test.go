package browser

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestScanScriptQuotesArguments(t *testing.T) {
	script, err := scanScript("div, span, p", `Current "Balance"`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(script, `document.querySelectorAll("div, span, p")`) {
		t.Errorf("tags not embedded as a JS string:\n%s", script)
	}
	if !strings.Contains(script, `"Current \"Balance\"".toLowerCase()`) {
		t.Errorf("marker not escaped:\n%s", script)
	}
}

func detachedPage(t *testing.T, store *CookieStore) *Page {
	t.Helper()
	tabCtx, tabCancel := context.WithCancel(context.Background())
	t.Cleanup(tabCancel)
	return &Page{
		opts:        Options{Cookies: store},
		allocCancel: func() {},
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}
}

func storeWithSession(t *testing.T) *CookieStore {
	t.Helper()
	store := NewCookieStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save([]StoredCookie{{Name: "sid", Value: "abc", Domain: "dashboard.honeygain.com", Path: "/"}}); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestRestoreCookiesStopsWithCallerContext(t *testing.T) {
	p := detachedPage(t, storeWithSession(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.restoreCookies(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestForgetSessionKeepsFileWhenCancelled(t *testing.T) {
	store := storeWithSession(t)
	p := detachedPage(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.ForgetSession(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !store.HasCookies() {
		t.Error("cookie file removed although the browser was not cleared")
	}
}

func TestForgetSessionWithoutStoredCookies(t *testing.T) {
	p := detachedPage(t, NewCookieStore(filepath.Join(t.TempDir(), "none.json")))
	if err := p.ForgetSession(context.Background()); err != nil {
		t.Fatalf("ForgetSession: %v", err)
	}
}
