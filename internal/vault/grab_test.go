package vault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/new-divos/pkbassist/internal/apod"
	"github.com/new-divos/pkbassist/internal/attachment"
	"github.com/new-divos/pkbassist/internal/pipeline"
	"github.com/new-divos/pkbassist/internal/testutil"
	"github.com/new-divos/pkbassist/internal/twir"
)

func apodServer(t *testing.T, mediaType string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/media.jpg" {
			w.Write([]byte("jpeg-bytes"))
			return
		}
		fmt.Fprintf(w, `{
			"title": "Test Nebula",
			"explanation": "A colorful nebula.",
			"copyright": "Some Astronomer",
			"date": "2023-04-05",
			"media_type": %q,
			"url": "%s/media.jpg",
			"hdurl": "%s/media.jpg"
		}`, mediaType, srv.URL, srv.URL)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGrabAPOD(t *testing.T) {
	srv := apodServer(t, "image")
	client, err := apod.NewClient("test-key")
	if err != nil {
		t.Fatal(err)
	}
	client = client.WithBaseURL(srv.URL)

	tv := testutil.NewTestVault(t).
		WithDaily("2023-04-05", "# Daily\n## Issues\n").
		Build()
	v, _ := newVault(t, tv)
	WithAPODClient(client)(v)

	if err := v.GrabAPOD(context.Background(), true, []string{"Nebulae"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	note := "base/apod/ISS.APoD.2023.04.05.md"
	tv.AssertFileExists(note)
	tv.AssertFileContains(note, "type: issue")
	tv.AssertFileContains(note, "name: Test Nebula")
	tv.AssertFileContains(note, "issue/apod")
	tv.AssertFileContains(note, "astronomy/nebulae")
	tv.AssertFileContains(note, "# Test Nebula")
	tv.AssertFileContains(note, "**Explanation:** A colorful nebula.")
	tv.AssertFileContains(note, "© Some Astronomer")

	t.Run("media downloaded under opaque name", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(tv.Path, "files"))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d attachments", len(entries))
		}
		name := entries[0].Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if !attachment.IsOpaqueName(stem) || filepath.Ext(name) != ".jpg" {
			t.Errorf("got attachment %q", name)
		}
		tv.AssertFileContains(note, "![["+name+"]]")
	})

	t.Run("daily note linked", func(t *testing.T) {
		content := tv.ReadFile("daily/2023-04-05.md")
		want := "## Issues\nAPoD: [[ISS.APoD.2023.04.05]]"
		if !strings.Contains(content, want) {
			t.Errorf("link not inserted after marker:\n%s", content)
		}
	})
}

func TestGrabAPODVideo(t *testing.T) {
	srv := apodServer(t, "video")
	client, err := apod.NewClient("test-key")
	if err != nil {
		t.Fatal(err)
	}
	client = client.WithBaseURL(srv.URL)

	tv := testutil.NewTestVault(t).Build()
	v, _ := newVault(t, tv)
	WithAPODClient(client)(v)

	if err := v.GrabAPOD(context.Background(), false, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tv.AssertFileContains("base/apod/ISS.APoD.2023.04.05.md", "<iframe")

	entries, err := os.ReadDir(filepath.Join(tv.Path, "files"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("video media downloaded %d files", len(entries))
	}
}

func TestGrabAPODUnknownMedia(t *testing.T) {
	srv := apodServer(t, "hologram")
	client, err := apod.NewClient("test-key")
	if err != nil {
		t.Fatal(err)
	}
	client = client.WithBaseURL(srv.URL)

	tv := testutil.NewTestVault(t).Build()
	v, _ := newVault(t, tv)
	WithAPODClient(client)(v)

	if err := v.GrabAPOD(context.Background(), false, nil); !errors.Is(err, apod.ErrUnknownMediaKind) {
		t.Errorf("got %v", err)
	}
}

func twirServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/article/") {
			fmt.Fprintf(w, `<html><body>
				<article class="post-content">
					<h2>Updates</h2>
					<p>Some <strong>bold</strong> text.</p>
				</article>
			</body></html>`)
			return
		}
		fmt.Fprintf(w, `<html><body>
			<div class="row"><div class="post-title">
				<time datetime="2023-04-05T00:00:00-04:00">April 5, 2023</time>
				<a href="%s/article/490">This Week in Rust 490</a>
			</div></div>
			<div class="row"><div class="post-title">
				<time datetime="2023-04-12T00:00:00-04:00">April 12, 2023</time>
				<a href="%s/article/491">This Week in Rust 491</a>
			</div></div>
		</body></html>`, srv.URL, srv.URL)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGrabTWiR(t *testing.T) {
	srv := twirServer(t)
	tv := testutil.NewTestVault(t).
		WithDaily("2023-04-05", "# Daily\n## Issues\n").
		Build()
	v, _ := newVault(t, tv)
	WithTWiRClient(twir.NewClient().WithArchiveURL(srv.URL + "/archive"))(v)

	if err := v.GrabTWiR(context.Background(), twir.Range{Min: 490, Max: 490}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	note := "base/twir/ISS.TWiR.490.md"
	tv.AssertFileExists(note)
	tv.AssertFileContains(note, "type: issue")
	tv.AssertFileContains(note, "name: This Week in Rust 490")
	tv.AssertFileContains(note, "2023-04-05")
	tv.AssertFileContains(note, "issue/twir")
	tv.AssertFileContains(note, "[[ISS.TWiR.489|prev]]")
	tv.AssertFileContains(note, "[[ISS.TWiR.491|next]]")
	tv.AssertFileContains(note, "**bold**")
	tv.AssertFileContains("daily/2023-04-05.md", "TWiR: [[ISS.TWiR.490]]")
}

func TestGrabTWiRRange(t *testing.T) {
	srv := twirServer(t)
	tv := testutil.NewTestVault(t).Build()
	v, _ := newVault(t, tv)
	WithTWiRClient(twir.NewClient().WithArchiveURL(srv.URL + "/archive"))(v)

	err := v.GrabTWiR(context.Background(), twir.Range{Min: 490, Max: 492}, false)
	be, ok := pipeline.IsBatch(err)
	if !ok {
		t.Fatalf("expected aggregated errors, got %v", err)
	}
	if len(be.Errors) != 1 || !errors.Is(be.Errors[0], twir.ErrIssueNotFound) {
		t.Errorf("got %v", be.Errors)
	}

	t.Run("present issues still grabbed", func(t *testing.T) {
		tv.AssertFileExists("base/twir/ISS.TWiR.490.md")
		tv.AssertFileExists("base/twir/ISS.TWiR.491.md")
	})
}

func TestShowTWiR(t *testing.T) {
	srv := twirServer(t)
	tv := testutil.NewTestVault(t).Build()
	v, out := newVault(t, tv)
	WithTWiRClient(twir.NewClient().WithArchiveURL(srv.URL + "/archive"))(v)

	if err := v.ShowTWiR(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"2023-04-05", "This Week in Rust 490", "This Week in Rust 491"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("listing misses %q:\n%s", want, out.String())
		}
	}

	t.Run("last only", func(t *testing.T) {
		out.Reset()
		if err := v.ShowTWiR(context.Background(), true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(out.String(), "490") {
			t.Errorf("older issue listed:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "This Week in Rust 491") {
			t.Errorf("newest issue missing:\n%s", out.String())
		}
	})
}
