package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrScrape marks failures while fetching or interpreting site data.
var ErrScrape = errors.New("scrape failure")

// WorkMetadata is the common record shape every analyzer produces for one
// work. ExtraData is an opaque blob the analyzer round-trips through the
// store between refresh and page fetching.
type WorkMetadata struct {
	Title       string
	Description string
	ExtraData   []byte
	Volumes     []VolumeRef
}

// VolumeRef names one volume reported by a scrape.
type VolumeRef struct {
	VolumeID string
	Name     string
}

// Page describes one downloadable page of a volume. Filename is the bare
// local file name, not a path.
type Page struct {
	URL      string
	Filename string
}

// Analyzer is the capability contract each site plugin implements.
type Analyzer interface {
	// Codename is the short unique key prefixed onto every work id.
	Codename() string
	DisplayName() string
	SiteHost() string
	// Info returns free-form user-facing help text, typically describing
	// accepted URL shapes and supported custom data keys.
	Info() string

	// URLToWorkID converts a subscription URL to a work id, reporting
	// false when the URL does not belong to this site.
	URLToWorkID(url string) (string, bool)
	// WorkIDToURL is the inverse of URLToWorkID for well-formed ids.
	WorkIDToURL(workID string) (string, bool)

	FetchWorkMetadata(ctx context.Context, workID string) (*WorkMetadata, error)
	FetchVolumePages(ctx context.Context, workID, volumeID string, extraData []byte) ([]Page, error)
}

// JoinWorkID builds the canonical "<codename>/<localID>" work id. All
// analyzers use this helper; the shape is never assembled elsewhere.
func JoinWorkID(codename, localID string) string {
	return codename + "/" + localID
}

// SplitWorkID splits a work id at the first slash.
func SplitWorkID(workID string) (codename, localID string, err error) {
	codename, localID, found := strings.Cut(workID, "/")
	if !found || codename == "" || localID == "" {
		return "", "", fmt.Errorf("malformed work id %q", workID)
	}
	return codename, localID, nil
}

// LocalID extracts the site-scoped id for own, verifying the codename
// prefix. Analyzers call this at the top of their fetch methods.
func LocalID(own Analyzer, workID string) (string, error) {
	codename, localID, err := SplitWorkID(workID)
	if err != nil {
		return "", err
	}
	if codename != own.Codename() {
		return "", fmt.Errorf("work id %q does not belong to analyzer %s", workID, own.Codename())
	}
	return localID, nil
}
