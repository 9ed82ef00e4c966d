package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/new-divos/pkbassist/internal/apod"
	"github.com/new-divos/pkbassist/internal/attachment"
	"github.com/new-divos/pkbassist/internal/meta"
	"github.com/new-divos/pkbassist/internal/twir"
	"github.com/new-divos/pkbassist/internal/ui"
	"github.com/new-divos/pkbassist/internal/wikilink"
)

// GrabAPOD fetches today's astronomy picture and writes it into the vault
// as an issue note. Image media is downloaded into the attachments
// directory under a fresh opaque name; video media is embedded as an
// iframe. With updateDaily set a link to the note is inserted into today's
// daily note. Each subtag becomes an additional astronomy sub-tag on the
// note.
func (v *Vault) GrabAPOD(ctx context.Context, updateDaily bool, subtags []string) error {
	if _, err := v.cfg.CheckRoot(); err != nil {
		return err
	}
	filesPath, err := v.cfg.FilesPath()
	if err != nil {
		return err
	}
	apodPath, err := v.cfg.APODPath()
	if err != nil {
		return err
	}

	client := v.apodClient
	if client == nil {
		client, err = apod.NewClient(v.cfg.APOD.Key)
		if err != nil {
			return err
		}
	}

	picture, err := client.Today(ctx)
	if err != nil {
		return err
	}

	var mediaRef string
	switch picture.Media {
	case apod.MediaImage:
		rawURL := picture.HDURL
		if rawURL == "" {
			rawURL = picture.URL
		}
		name, err := v.downloadMedia(ctx, client, rawURL, filesPath)
		if err != nil {
			return err
		}
		mediaRef = wikilink.Embed(name)

	case apod.MediaVideo:
		mediaRef = fmt.Sprintf(
			`<iframe width="100%%" height="450" src="%s" frameborder="0" allowfullscreen></iframe>`,
			picture.URL)

	default:
		return fmt.Errorf("%w: %s", apod.ErrUnknownMediaKind, picture.Media)
	}

	date := picture.Date.Format(apod.DateLayout)
	stem := fmt.Sprintf("ISS.APoD.%s", strings.ReplaceAll(date, "-", "."))

	m := meta.New()
	if err := m.SetString("type", "issue"); err != nil {
		return err
	}
	if err := m.SetString("name", picture.Title); err != nil {
		return err
	}
	if err := m.SetString("issue", "APoD"); err != nil {
		return err
	}
	if err := m.SetString("date", date); err != nil {
		return err
	}
	for _, tag := range apodTags(subtags) {
		if err := m.Append("tags", tag); err != nil {
			return err
		}
	}
	if banner := v.cfg.APOD.Banner; banner != "" {
		if err := m.SetBanner(banner); err != nil {
			return err
		}
	}
	if icon := v.cfg.APOD.Icon; icon != "" {
		if err := m.SetString("banner_icon", icon); err != nil {
			return err
		}
	}

	var body strings.Builder
	fmt.Fprintf(&body, "\n# %s\n\n", picture.Title)
	body.WriteString(mediaRef)
	body.WriteString("\n\n")
	if picture.Explanation != "" {
		fmt.Fprintf(&body, "**Explanation:** %s\n", picture.Explanation)
	}
	if picture.Copyright != "" {
		fmt.Fprintf(&body, "\n*Image copyright:* © %s\n", strings.TrimSpace(picture.Copyright))
	}

	content, err := m.Embed(body.String())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(apodPath, 0o755); err != nil {
		return err
	}
	notePath := filepath.Join(apodPath, stem+".md")
	v.log.Debug("writing picture issue", "path", notePath)
	if err := writeNote(notePath, content); err != nil {
		return err
	}

	if updateDaily {
		return v.linkIntoDaily(date, stem, v.cfg.APOD.Prefix, v.cfg.APOD.Marker)
	}
	return nil
}

// downloadMedia fetches one media file into dir under a fresh opaque name
// and returns that name.
func (v *Vault) downloadMedia(ctx context.Context, client *apod.Client, rawURL, dir string) (string, error) {
	fileName, err := apod.MediaFileName(rawURL)
	if err != nil {
		return "", err
	}
	name := attachment.NewName(fileName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	v.log.Debug("downloading media", "url", rawURL, "name", name)
	if err := client.Download(ctx, rawURL, f); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// apodTags builds the tag list of a picture issue note: the issue tag, the
// astronomy supertag, and one astronomy sub-tag per requested subtag.
func apodTags(subtags []string) []string {
	tags := []string{"issue/apod", "astronomy"}

	extra := make([]string, 0, len(subtags))
	for _, sub := range subtags {
		sub = strings.ToLower(strings.TrimSpace(sub))
		if sub == "" {
			continue
		}
		if !strings.HasPrefix(sub, "astronomy/") {
			sub = "astronomy/" + sub
		}
		if sub == "astronomy" {
			continue
		}
		extra = append(extra, sub)
	}
	sort.Strings(extra)

	seen := make(map[string]struct{}, len(tags)+len(extra))
	out := make([]string, 0, len(tags)+len(extra))
	for _, tag := range append(tags, extra...) {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// GrabTWiR scrapes the newsletter archive and writes the selected issues
// into the vault, one note each. A multi-issue range runs concurrently with
// per-issue failures aggregated, so one missing issue never blocks the
// rest.
func (v *Vault) GrabTWiR(ctx context.Context, issues twir.Range, updateDaily bool) error {
	if _, err := v.cfg.CheckRoot(); err != nil {
		return err
	}
	twirPath, err := v.cfg.TWiRPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(twirPath, 0o755); err != nil {
		return err
	}

	listing, err := v.twirClient.Select(ctx)
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, number := range issues.Numbers() {
		number := number
		g.Go(func() error {
			if err := v.grabIssue(ctx, listing, number, twirPath, updateDaily); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("issue %d: %w", number, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return batch(errs)
}

// grabIssue writes one newsletter issue note.
func (v *Vault) grabIssue(ctx context.Context, listing twir.Issues, number int, twirPath string, updateDaily bool) error {
	issue, err := listing.Find(number)
	if err != nil {
		return err
	}

	article, err := v.twirClient.Article(ctx, issue.URL)
	if err != nil {
		return err
	}

	date := issue.Published.Format("2006-01-02")
	stem := fmt.Sprintf("ISS.TWiR.%d", number)

	m := meta.New()
	if err := m.SetString("type", "issue"); err != nil {
		return err
	}
	if err := m.SetString("name", issue.Title); err != nil {
		return err
	}
	if err := m.SetString("issue", "TWiR"); err != nil {
		return err
	}
	if err := m.SetString("date", date); err != nil {
		return err
	}
	if err := m.SetString("url", issue.URL); err != nil {
		return err
	}
	for _, tag := range []string{"issue/twir", "rust"} {
		if err := m.Append("tags", tag); err != nil {
			return err
		}
	}
	if banner := v.cfg.TWiR.Banner; banner != "" {
		if err := m.SetBanner(banner); err != nil {
			return err
		}
	}
	if icon := v.cfg.TWiR.Icon; icon != "" {
		if err := m.SetString("banner_icon", icon); err != nil {
			return err
		}
	}

	var body strings.Builder
	fmt.Fprintf(&body, "\n<< [[ISS.TWiR.%d|prev]] | [[ISS.TWiR.%d|next]] >>\n\n", number-1, number+1)
	fmt.Fprintf(&body, "# %s\n\n", issue.Title)
	body.WriteString(article)
	if !strings.HasSuffix(article, "\n") {
		body.WriteString("\n")
	}

	content, err := m.Embed(body.String())
	if err != nil {
		return err
	}

	notePath := filepath.Join(twirPath, stem+".md")
	v.log.Debug("writing newsletter issue", "path", notePath)
	if err := writeNote(notePath, content); err != nil {
		return err
	}

	if updateDaily {
		return v.linkIntoDaily(date, stem, v.cfg.TWiR.Prefix, v.cfg.TWiR.Marker)
	}
	return nil
}

// ShowTWiR prints the archive listing as a table, or only the newest issue
// with last set.
func (v *Vault) ShowTWiR(ctx context.Context, last bool) error {
	listing, err := v.twirClient.Select(ctx)
	if err != nil {
		return err
	}
	if last {
		first, ok := listing.First()
		if !ok {
			return twir.ErrIssueNotFound
		}
		listing = twir.Issues{first}
	}

	table := ui.NewTable("Date", "Title", "URL")
	for _, issue := range listing {
		table.AddRow(issue.Published.Format("2006-01-02"), issue.Title, issue.URL)
	}
	fmt.Fprintln(v.out, table.String())
	return nil
}

// linkIntoDaily inserts a wiki reference to note stem into the daily note
// for date, after the configured marker line. A missing daily note is not
// an error.
func (v *Vault) linkIntoDaily(date, stem, prefix, marker string) error {
	dailyPath, err := v.cfg.DailyPath()
	if err != nil {
		return err
	}
	path := filepath.Join(dailyPath, date+".md")
	content, err := readNote(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	link := fmt.Sprintf("[[%s]]", stem)
	if prefix != "" {
		link = prefix + " " + link
	}
	modified := modifyDaily(content, link, marker)
	if modified == content {
		return nil
	}
	v.log.Debug("linking into daily note", "path", path, "link", link)
	return writeNote(path, modified)
}
