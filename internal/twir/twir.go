// Package twir scrapes the This Week in Rust blog archive.
package twir

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// ArchiveURL is the blog archive index listing every issue.
const ArchiveURL = "https://this-week-in-rust.org/blog/archives/index.html"

var (
	// ErrIssueNotFound reports a lookup for an issue number absent from
	// the archive.
	ErrIssueNotFound = errors.New("issue not found in the archive")

	// ErrIllegalContent reports an article page without the expected
	// structure.
	ErrIllegalContent = errors.New("illegal HTML content")
)

// Issue is one This Week in Rust issue as listed in the archive.
type Issue struct {
	// Title is the listing title, ending in the issue number.
	Title string

	// Published is the publication timestamp with its original offset.
	Published time.Time

	// URL is the article location.
	URL string
}

// Number returns the trailing numeric token of the title, or false when
// the title does not end in a number.
func (i Issue) Number() (int, bool) {
	fields := strings.Fields(i.Title)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Issues is the archive listing, sorted newest-first.
type Issues []Issue

// First returns the newest issue of the listing.
func (s Issues) First() (Issue, bool) {
	if len(s) == 0 {
		return Issue{}, false
	}
	return s[0], true
}

// Find looks up an issue by its number, matched against the title's
// trailing numeric token.
func (s Issues) Find(number int) (Issue, error) {
	for _, issue := range s {
		if n, ok := issue.Number(); ok && n == number {
			return issue, nil
		}
	}
	return Issue{}, fmt.Errorf("%w: %d", ErrIssueNotFound, number)
}

// Client scrapes the blog archive and its articles.
type Client struct {
	http       *http.Client
	archiveURL string
}

// NewClient returns an archive client.
func NewClient() *Client {
	return &Client{
		http:       &http.Client{Timeout: 60 * time.Second},
		archiveURL: ArchiveURL,
	}
}

// WithArchiveURL points the client at an alternate archive. Used by tests.
func (c *Client) WithArchiveURL(u string) *Client {
	c.archiveURL = u
	return c
}

// Select fetches and parses the archive listing. The result is sorted
// newest-first regardless of document order.
func (c *Client) Select(ctx context.Context) (Issues, error) {
	doc, err := c.fetch(ctx, c.archiveURL)
	if err != nil {
		return nil, err
	}
	return parseArchive(doc), nil
}

// Article fetches one issue's article body and converts it to Markdown.
func (c *Client) Article(ctx context.Context, articleURL string) (string, error) {
	doc, err := c.fetch(ctx, articleURL)
	if err != nil {
		return "", err
	}

	article := doc.Find("article.post-content").First()
	if article.Length() == 0 {
		return "", ErrIllegalContent
	}
	inner, err := article.Html()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIllegalContent, err)
	}

	conv := md.NewConverter("", true, nil)
	body, err := conv.ConvertString(inner)
	if err != nil {
		return "", fmt.Errorf("convert article to markdown: %w", err)
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}

// parseArchive extracts issue rows from the archive document. Rows missing
// a timestamp or link are skipped.
func parseArchive(doc *goquery.Document) Issues {
	var issues Issues
	doc.Find("div.row .post-title").Each(func(_ int, row *goquery.Selection) {
		datetime, ok := row.Find("time").First().Attr("datetime")
		if !ok {
			return
		}
		published, err := time.Parse(time.RFC3339, datetime)
		if err != nil {
			return
		}

		link := row.Find("a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		issues = append(issues, Issue{
			Title:     strings.Join(strings.Fields(link.Text()), " "),
			Published: published,
			URL:       href,
		})
	})

	sort.Slice(issues, func(a, b int) bool {
		return issues[a].Published.After(issues[b].Published)
	})
	return issues
}
