package sites

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"bindery/internal/analyzer"
	"bindery/internal/fetch"
)

func init() {
	analyzer.Register("8c", newComicbus)
}

type comicbus struct {
	fetcher *fetch.Client
}

func newComicbus(env analyzer.Env) analyzer.Result {
	if env.CustomData["disabled"] == "true" {
		return analyzer.Disable()
	}
	if len(env.CustomData) > 0 {
		for key := range env.CustomData {
			if key != "disabled" {
				return analyzer.Errorf("comicbus: unknown custom data key %q", key)
			}
		}
	}
	return analyzer.OK(&comicbus{fetcher: env.Fetcher})
}

func (c *comicbus) Codename() string    { return "8c" }
func (c *comicbus) DisplayName() string { return "Comicbus" }
func (c *comicbus) SiteHost() string    { return "www.comicbus.com" }

func (c *comicbus) Info() string {
	return strings.TrimSpace(`
Accepts URLs of the form https://www.comicbus.com/html/<id>.html.
Custom data:
  disabled  set to "true" to skip this analyzer without black-listing it
`)
}

var comicbusURLPattern = regexp.MustCompile(`^https?://(?:www\.)?comicbus\.com/html/(\d+)\.html$`)

func (c *comicbus) URLToWorkID(url string) (string, bool) {
	match := comicbusURLPattern.FindStringSubmatch(strings.TrimSpace(url))
	if match == nil {
		return "", false
	}
	return analyzer.JoinWorkID(c.Codename(), match[1]), true
}

func (c *comicbus) WorkIDToURL(workID string) (string, bool) {
	local, err := analyzer.LocalID(c, workID)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("https://www.comicbus.com/html/%s.html", local), true
}

var (
	comicbusTitle   = regexp.MustCompile(`<title>([^<,|]+)`)
	comicbusSummary = regexp.MustCompile(`(?s)class="summary"[^>]*>(.*?)</`)
	// volume links carry the chapter number and its page count, both of
	// which the page fetcher needs later; the pair rides along in
	// extra_data as JSON.
	comicbusVolume = regexp.MustCompile(`cview\('(\d+)-(\d+)\.html',(\d+)[^)]*\)[^>]*>([^<]+)<`)
)

type comicbusExtra struct {
	// Pages maps volume id to the number of pages reported at scrape time.
	Pages map[string]int `json:"pages"`
	// Catalog is the numeric catalog id embedded in reader URLs.
	Catalog string `json:"catalog"`
}

func (c *comicbus) FetchWorkMetadata(ctx context.Context, workID string) (*analyzer.WorkMetadata, error) {
	url, ok := c.WorkIDToURL(workID)
	if !ok {
		return nil, fmt.Errorf("%w: bad work id %q", analyzer.ErrScrape, workID)
	}
	body, err := c.fetcher.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", analyzer.ErrScrape, url, err)
	}
	page := string(body)

	titleMatch := comicbusTitle.FindStringSubmatch(page)
	if titleMatch == nil {
		return nil, fmt.Errorf("%w: no title found at %s", analyzer.ErrScrape, url)
	}
	meta := &analyzer.WorkMetadata{
		Title: html.UnescapeString(strings.TrimSpace(titleMatch[1])),
	}
	if summary := comicbusSummary.FindStringSubmatch(page); summary != nil {
		meta.Description = html.UnescapeString(stripTags(summary[1]))
	}

	extra := comicbusExtra{Pages: map[string]int{}}
	for _, volume := range comicbusVolume.FindAllStringSubmatch(page, -1) {
		extra.Catalog = volume[1]
		volumeID := volume[2]
		if _, dup := extra.Pages[volumeID]; dup {
			continue
		}
		pageCount, err := strconv.Atoi(volume[3])
		if err != nil {
			continue
		}
		extra.Pages[volumeID] = pageCount
		meta.Volumes = append(meta.Volumes, analyzer.VolumeRef{
			VolumeID: volumeID,
			Name:     html.UnescapeString(strings.TrimSpace(volume[4])),
		})
	}
	if len(meta.Volumes) == 0 {
		return nil, fmt.Errorf("%w: no volumes found at %s", analyzer.ErrScrape, url)
	}
	if meta.ExtraData, err = json.Marshal(extra); err != nil {
		return nil, fmt.Errorf("%w: encode extra data: %v", analyzer.ErrScrape, err)
	}
	return meta, nil
}

func (c *comicbus) FetchVolumePages(ctx context.Context, workID, volumeID string, extraData []byte) ([]analyzer.Page, error) {
	if _, err := analyzer.LocalID(c, workID); err != nil {
		return nil, fmt.Errorf("%w: %v", analyzer.ErrScrape, err)
	}
	var extra comicbusExtra
	if err := json.Unmarshal(extraData, &extra); err != nil {
		return nil, fmt.Errorf("%w: decode extra data for %s: %v", analyzer.ErrScrape, workID, err)
	}
	pageCount, ok := extra.Pages[volumeID]
	if !ok || pageCount <= 0 || extra.Catalog == "" {
		return nil, fmt.Errorf("%w: volume %s missing from extra data of %s (refresh first)", analyzer.ErrScrape, volumeID, workID)
	}

	pages := make([]analyzer.Page, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		pages = append(pages, analyzer.Page{
			URL:      fmt.Sprintf("https://img.comicbus.com/comic/%s/%s/%03d.jpg", extra.Catalog, volumeID, i),
			Filename: fmt.Sprintf("%03d.jpg", i),
		})
	}
	return pages, nil
}
