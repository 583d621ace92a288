package sites

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"bindery/internal/analyzer"
	"bindery/internal/fetch"
)

func init() {
	analyzer.Register("mhg", newManhuagui)
}

// manhuaguiHosts maps the "mirror" custom data value to a site host.
var manhuaguiHosts = map[string]string{
	"":   "www.manhuagui.com",
	"cn": "www.manhuagui.com",
	"tw": "tw.manhuagui.com",
}

type manhuagui struct {
	fetcher *fetch.Client
	host    string
}

func newManhuagui(env analyzer.Env) analyzer.Result {
	host, ok := manhuaguiHosts[env.CustomData["mirror"]]
	if !ok {
		return analyzer.Errorf("manhuagui: unknown mirror %q (want cn or tw)", env.CustomData["mirror"])
	}
	return analyzer.OK(&manhuagui{fetcher: env.Fetcher, host: host})
}

func (m *manhuagui) Codename() string    { return "mhg" }
func (m *manhuagui) DisplayName() string { return "Manhuagui" }
func (m *manhuagui) SiteHost() string    { return m.host }

func (m *manhuagui) Info() string {
	return strings.TrimSpace(`
Accepts URLs of the form https://` + m.host + `/comic/<id>/.
Custom data:
  mirror  site mirror, "cn" (default) or "tw"
`)
}

var manhuaguiURLPattern = regexp.MustCompile(`^https?://(?:www|tw)\.manhuagui\.com/comic/(\d+)/?$`)

func (m *manhuagui) URLToWorkID(url string) (string, bool) {
	match := manhuaguiURLPattern.FindStringSubmatch(strings.TrimSpace(url))
	if match == nil {
		return "", false
	}
	return analyzer.JoinWorkID(m.Codename(), match[1]), true
}

func (m *manhuagui) WorkIDToURL(workID string) (string, bool) {
	local, err := analyzer.LocalID(m, workID)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("https://%s/comic/%s/", m.host, local), true
}

var (
	manhuaguiTitle   = regexp.MustCompile(`<h1>([^<]+)</h1>`)
	manhuaguiIntro   = regexp.MustCompile(`(?s)id="intro-all"[^>]*>\s*<p>(.*?)</p>`)
	manhuaguiChapter = regexp.MustCompile(`href="/comic/(\d+)/(\d+)\.html"[^>]*title="([^"]+)"`)
)

func (m *manhuagui) FetchWorkMetadata(ctx context.Context, workID string) (*analyzer.WorkMetadata, error) {
	url, ok := m.WorkIDToURL(workID)
	if !ok {
		return nil, fmt.Errorf("%w: bad work id %q", analyzer.ErrScrape, workID)
	}
	body, err := m.fetcher.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", analyzer.ErrScrape, url, err)
	}
	return parseManhuaguiWork(string(body), url)
}

func parseManhuaguiWork(page, url string) (*analyzer.WorkMetadata, error) {
	titleMatch := manhuaguiTitle.FindStringSubmatch(page)
	if titleMatch == nil {
		return nil, fmt.Errorf("%w: no title found at %s", analyzer.ErrScrape, url)
	}
	meta := &analyzer.WorkMetadata{
		Title: html.UnescapeString(strings.TrimSpace(titleMatch[1])),
	}
	if intro := manhuaguiIntro.FindStringSubmatch(page); intro != nil {
		meta.Description = html.UnescapeString(stripTags(intro[1]))
	}

	seen := map[string]struct{}{}
	for _, chapter := range manhuaguiChapter.FindAllStringSubmatch(page, -1) {
		volumeID := chapter[2]
		if _, dup := seen[volumeID]; dup {
			continue
		}
		seen[volumeID] = struct{}{}
		meta.Volumes = append(meta.Volumes, analyzer.VolumeRef{
			VolumeID: volumeID,
			Name:     html.UnescapeString(strings.TrimSpace(chapter[3])),
		})
	}
	if len(meta.Volumes) == 0 {
		return nil, fmt.Errorf("%w: no chapters found at %s", analyzer.ErrScrape, url)
	}
	return meta, nil
}

// chapter pages embed a plain JSON block with the image list; the block is
// delimited by a well-known marker pair.
var manhuaguiImageData = regexp.MustCompile(`imgData\(({.*?})\)`)

func (m *manhuagui) FetchVolumePages(ctx context.Context, workID, volumeID string, _ []byte) ([]analyzer.Page, error) {
	local, err := analyzer.LocalID(m, workID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analyzer.ErrScrape, err)
	}
	url := fmt.Sprintf("https://%s/comic/%s/%s.html", m.host, local, volumeID)
	body, err := m.fetcher.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", analyzer.ErrScrape, url, err)
	}

	match := manhuaguiImageData.FindSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("%w: no image data at %s", analyzer.ErrScrape, url)
	}
	var data struct {
		Path  string   `json:"path"`
		Files []string `json:"files"`
	}
	if err := json.Unmarshal(match[1], &data); err != nil {
		return nil, fmt.Errorf("%w: decode image data at %s: %v", analyzer.ErrScrape, url, err)
	}

	pages := make([]analyzer.Page, 0, len(data.Files))
	for i, file := range data.Files {
		pages = append(pages, analyzer.Page{
			URL:      "https://i.hamreus.com" + data.Path + file,
			Filename: fmt.Sprintf("%03d%s", i+1, extOf(file)),
		})
	}
	return pages, nil
}

func stripTags(value string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(value, ""))
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func extOf(file string) string {
	if idx := strings.LastIndexByte(file, '.'); idx >= 0 {
		return file[idx:]
	}
	return ".jpg"
}
