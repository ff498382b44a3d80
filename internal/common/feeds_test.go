package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFeeds_ParsesSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feeds.yaml")
	content := `
sources:
  - name: "Maeil Business"
    url: "https://www.mk.co.kr/rss/30000001/"
    category: "economy"
  - url: "https://rss.hankyung.com/feed/finance.xml"
  - name: "No URL"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("LoadFeeds: %v", err)
	}

	if len(feeds) != 2 {
		t.Fatalf("got %d feeds, want 2 (entries without a URL are skipped)", len(feeds))
	}
	if feeds[0].Name != "Maeil Business" || feeds[0].Category != "economy" {
		t.Errorf("first feed = %+v", feeds[0])
	}
	if feeds[1].Name != feeds[1].URL {
		t.Errorf("unnamed feed should default Name to URL, got %q", feeds[1].Name)
	}
}

func TestLoadFeeds_MissingFile(t *testing.T) {
	feeds, err := LoadFeeds(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing feeds file should not error, got %v", err)
	}
	if feeds != nil {
		t.Errorf("got %v, want nil", feeds)
	}
}

func TestLoadFeeds_EmptyPath(t *testing.T) {
	feeds, err := LoadFeeds("")
	if err != nil || feeds != nil {
		t.Errorf("LoadFeeds(\"\") = %v, %v; want nil, nil", feeds, err)
	}
}

func TestLoadFeeds_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feeds.yaml")
	if err := os.WriteFile(path, []byte("sources: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFeeds(path); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}
