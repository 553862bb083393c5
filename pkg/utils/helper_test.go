package utils

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeURLParams(t *testing.T) {
	params := struct {
		Account string `url:"account"`
		After   string `url:"after,omitempty"`
		Skipped string `url:"skipped,omitempty"`
	}{Account: "a@b.c", After: "105.25"}

	got, err := EncodeURLParams(params)
	if err != nil {
		t.Fatalf("EncodeURLParams: %v", err)
	}
	if got != "account=a%40b.c&after=105.25" {
		t.Errorf("unexpected encoding %q", got)
	}
}

func TestEncodeURLParamsRejectsNonStruct(t *testing.T) {
	if _, err := EncodeURLParams(42); err == nil {
		t.Fatal("expected an error for a non-struct value")
	}
}

func TestFormatObjectSkipsFuncs(t *testing.T) {
	out, err := FormatObject(struct {
		Name    string        `yaml:"name"`
		Timeout time.Duration `yaml:"timeout"`
		Secret  string        `yaml:"-"`
		Hook    func()
	}{Name: "bot", Timeout: 15 * time.Second, Secret: "hidden", Hook: func() {}})
	if err != nil {
		t.Fatalf("FormatObject: %v", err)
	}
	for _, want := range []string{"<function>", "name: bot", "timeout: 15s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("field tagged yaml:\"-\" was rendered:\n%s", out)
	}
}

func TestShortenText(t *testing.T) {
	if got := ShortenText("  a \n b  ", 10); got != "a b" {
		t.Errorf("got %q", got)
	}
	if got := ShortenText("abcdef", 4); got != "abc…" {
		t.Errorf("got %q", got)
	}
}

func TestBeautifyJSON(t *testing.T) {
	if got := BeautifyJSON([]byte("not json")); got != "not json" {
		t.Errorf("got %q", got)
	}
	if got := BeautifyJSON([]byte(`{"a":1}`)); got != "{\n  \"a\": 1\n}" {
		t.Errorf("got %q", got)
	}
}
