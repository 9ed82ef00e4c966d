// Package apod is a client for the NASA Astronomy Picture of the Day API.
package apod

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.nasa.gov/planetary/apod"

// DateLayout is the wire format of picture dates.
const DateLayout = "2006-01-02"

var (
	// ErrNoAPIKey reports a client constructed without an API key.
	ErrNoAPIKey = errors.New("illegal NASA Astronomy Picture of the Day API key")

	// ErrUnknownMediaKind reports a picture whose media kind is neither
	// image nor video.
	ErrUnknownMediaKind = errors.New("unknown media type")
)

// MediaKind is the kind of media a picture record carries.
type MediaKind int

const (
	MediaUnknown MediaKind = iota
	MediaImage
	MediaVideo
)

// UnmarshalJSON maps unrecognized media types to MediaUnknown instead of
// failing, matching the API contract that new kinds may appear.
func (k *MediaKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "image":
		*k = MediaImage
	case "video":
		*k = MediaVideo
	default:
		*k = MediaUnknown
	}
	return nil
}

func (k MediaKind) String() string {
	switch k {
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Date is a calendar date in the API's YYYY-MM-DD wire format.
type Date struct {
	time.Time
}

// UnmarshalJSON parses the YYYY-MM-DD wire format.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("parse picture date: %w", err)
	}
	d.Time = t
	return nil
}

// Picture is one Astronomy Picture of the Day record.
type Picture struct {
	// Title is concise and descriptive, usually 3-6 words.
	Title string `json:"title"`

	// Explanation is the text description of the media.
	Explanation string `json:"explanation"`

	// Copyright holds the copyright owner when the media is not public
	// domain.
	Copyright string `json:"copyright"`

	// Date is the picture's calendar date.
	Date Date `json:"date"`

	// Media is the kind of content behind URL.
	Media MediaKind `json:"media_type"`

	// URL is the media location: an image file or a video embed URL.
	URL string `json:"url"`

	// HDURL is the full quality image, when available.
	HDURL string `json:"hdurl"`
}

// Client talks to the Astronomy Picture of the Day API.
type Client struct {
	http    *http.Client
	baseURL string
	key     string
}

// NewClient returns a client authenticated with key.
func NewClient(key string) (*Client, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNoAPIKey
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: DefaultBaseURL,
		key:     key,
	}, nil
}

// WithBaseURL points the client at an alternate endpoint. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// Today fetches the current picture record.
func (c *Client) Today(ctx context.Context) (*Picture, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.key)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch picture of the day: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch picture of the day: unexpected status %s", resp.Status)
	}

	var pic Picture
	if err := json.NewDecoder(resp.Body).Decode(&pic); err != nil {
		return nil, fmt.Errorf("decode picture of the day: %w", err)
	}
	return &pic, nil
}

// Download fetches the media file behind rawURL and streams it to w.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download media: unexpected status %s", resp.Status)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download media: %w", err)
	}
	return nil
}

// MediaFileName returns the bare file name of the media URL's last path
// segment, used to carry the extension over to the stored copy.
func MediaFileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("illegal media url %q: %w", rawURL, err)
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	name := segs[len(segs)-1]
	if name == "" {
		return "", fmt.Errorf("illegal media url %q: no file segment", rawURL)
	}
	return name, nil
}
