package googlebooks

import (
	"strings"

	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/textutil"
)

// Raw API response types (internal)

type rawVolumesResponse struct {
	TotalItems int         `json:"totalItems"`
	Items      []rawVolume `json:"items"`
}

type rawVolume struct {
	ID         string        `json:"id"`
	VolumeInfo rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title               string          `json:"title"`
	Authors             []string        `json:"authors"`
	Publisher           string          `json:"publisher"`
	PublishedDate       string          `json:"publishedDate"`
	Description         string          `json:"description"`
	PageCount           int             `json:"pageCount"`
	Categories          []string        `json:"categories"`
	ImageLinks          rawImageLinks   `json:"imageLinks"`
	IndustryIdentifiers []rawIdentifier `json:"industryIdentifiers"`
}

type rawImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

type rawIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

func (v *rawVolume) toRecord() domain.CatalogRecord {
	info := &v.VolumeInfo
	return domain.CatalogRecord{
		ExternalID:    v.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Description:   textutil.ToMarkdown(info.Description),
		Categories:    info.Categories,
		PageCount:     max(info.PageCount, 0),
		CoverURL:      selectCoverURL(info.ImageLinks),
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		ISBN:          selectISBN(info.IndustryIdentifiers),
		Source:        domain.SourceGoogleBooks,
	}
}

// selectCoverURL prefers the thumbnail and upgrades it to https.
func selectCoverURL(links rawImageLinks) string {
	u := links.Thumbnail
	if u == "" {
		u = links.SmallThumbnail
	}
	if rest, ok := strings.CutPrefix(u, "http:"); ok {
		return "https:" + rest
	}
	return u
}

// selectISBN prefers ISBN_13 over ISBN_10.
func selectISBN(ids []rawIdentifier) string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			if isbn10 == "" {
				isbn10 = id.Identifier
			}
		}
	}
	return isbn10
}
