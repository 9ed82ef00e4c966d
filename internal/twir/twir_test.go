package twir

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleArchive = `<!DOCTYPE html>
<html><body>
<div class="row">
  <div class="post-title">
    <time datetime="2023-04-05T00:00:00-04:00">April 5, 2023</time>
    <a href="https://example.org/blog/2023/04/05/this-week-in-rust-490/">This Week in Rust 490</a>
  </div>
</div>
<div class="row">
  <div class="post-title">
    <time datetime="2023-04-12T00:00:00-04:00">April 12, 2023</time>
    <a href="https://example.org/blog/2023/04/12/this-week-in-rust-491/">This Week in Rust 491</a>
  </div>
</div>
<div class="row">
  <div class="post-title">
    <a href="https://example.org/no-time">Broken row</a>
  </div>
</div>
</body></html>`

const sampleArticle = `<!DOCTYPE html>
<html><body>
<article class="post-content">
  <h2>Updates</h2>
  <p>Some <strong>bold</strong> text and a <a href="https://example.org">link</a>.</p>
</article>
</body></html>`

func TestSelect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleArchive))
	}))
	defer srv.Close()

	issues, err := NewClient().WithArchiveURL(srv.URL).Select(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(issues) != 2 {
		t.Fatalf("got %d issues", len(issues))
	}

	t.Run("sorted newest first", func(t *testing.T) {
		first, ok := issues.First()
		if !ok {
			t.Fatal("empty listing")
		}
		if n, _ := first.Number(); n != 491 {
			t.Errorf("got issue %d first", n)
		}
	})

	t.Run("find by number", func(t *testing.T) {
		issue, err := issues.Find(490)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(issue.URL, "this-week-in-rust-490/") {
			t.Errorf("got %q", issue.URL)
		}
	})

	t.Run("absent number", func(t *testing.T) {
		if _, err := issues.Find(9999); !errors.Is(err, ErrIssueNotFound) {
			t.Errorf("got %v", err)
		}
	})
}

func TestArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
			return
		}
		w.Write([]byte(sampleArticle))
	}))
	defer srv.Close()

	body, err := NewClient().Article(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, "Updates") || !strings.Contains(body, "**bold**") {
		t.Errorf("unexpected markdown:\n%s", body)
	}

	t.Run("missing article element", func(t *testing.T) {
		_, err := NewClient().Article(context.Background(), srv.URL+"/empty")
		if !errors.Is(err, ErrIllegalContent) {
			t.Errorf("got %v", err)
		}
	})
}

func TestIssueNumber(t *testing.T) {
	if n, ok := (Issue{Title: "This Week in Rust 500"}).Number(); !ok || n != 500 {
		t.Errorf("got %d, %v", n, ok)
	}
	if _, ok := (Issue{Title: "No trailing digits"}).Number(); ok {
		t.Error("expected failure")
	}
	if _, ok := (Issue{}).Number(); ok {
		t.Error("expected failure on empty title")
	}
}
