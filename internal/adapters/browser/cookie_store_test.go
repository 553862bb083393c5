package browser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCookieStoreRoundTripDropsExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies", "session.json")
	store := NewCookieStore(path)

	if store.HasCookies() {
		t.Fatal("fresh store should be empty")
	}

	err := store.Save([]StoredCookie{
		{Name: "sid", Value: "abc", Domain: "dashboard.honeygain.com", Path: "/", Expires: time.Now().Add(time.Hour)},
		{Name: "old", Value: "x", Domain: "dashboard.honeygain.com", Path: "/", Expires: time.Now().Add(-time.Hour)},
		{Name: "session", Value: "y", Domain: "dashboard.honeygain.com", Path: "/"},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	cookies, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cookies) != 2 || cookies[0].Name != "sid" || cookies[1].Name != "session" {
		t.Fatalf("unexpected cookies %+v", cookies)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("cookie file mode = %v", info.Mode().Perm())
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.HasCookies() {
		t.Error("store should be empty after Clear")
	}
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestCookieStoreWithoutPath(t *testing.T) {
	store := NewCookieStore("")
	if err := store.Save([]StoredCookie{{Name: "a"}}); err != nil {
		t.Fatal(err)
	}
	cookies, err := store.Load()
	if err != nil || cookies != nil {
		t.Fatalf("expected no cookies, got %v, %v", cookies, err)
	}
}

func TestCookieStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCookieStore(path).Load(); err == nil {
		t.Fatal("expected a decode error")
	}
}
