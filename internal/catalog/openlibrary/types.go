package openlibrary

import (
	"encoding/json/v2"
	"strconv"
	"strings"

	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/textutil"
)

// Raw API response types (internal)

type rawSearchResponse struct {
	NumFound int            `json:"numFound"`
	Docs     []rawSearchDoc `json:"docs"`
}

type rawSearchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	FirstPublishYear    int      `json:"first_publish_year"`
	CoverID             int      `json:"cover_i"`
	Subject             []string `json:"subject"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
}

type rawWork struct {
	Title            string          `json:"title"`
	Description      description     `json:"description"`
	Covers           []int           `json:"covers"`
	Subjects         []string        `json:"subjects"`
	Authors          []rawWorkAuthor `json:"authors"`
	NumberOfPages    int             `json:"number_of_pages"`
	FirstPublishDate string          `json:"first_publish_date"`
}

// rawWorkAuthor accepts both {"name": "..."} and {"author": {"key": "/authors/..."}}.
type rawWorkAuthor struct {
	Name   string `json:"name"`
	Author struct {
		Key string `json:"key"`
	} `json:"author"`
}

// description is either a plain string or {"type": "/type/text", "value": "..."}.
type description string

func (d *description) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = description(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*d = description(obj.Value)
	return nil
}

func (doc *rawSearchDoc) toRecord() domain.CatalogRecord {
	published := ""
	if doc.FirstPublishYear > 0 {
		published = strconv.Itoa(doc.FirstPublishYear)
	}
	return domain.CatalogRecord{
		ExternalID:    doc.Key,
		Title:         titleOrUnknown(doc.Title),
		Authors:       authorsOrUnknown(doc.AuthorName),
		Categories:    categories(doc.Subject),
		PageCount:     max(doc.NumberOfPagesMedian, 0),
		CoverURL:      CoverURL(doc.CoverID),
		PublishedDate: published,
		Source:        domain.SourceOpenLibrary,
	}
}

func (w *rawWork) toRecord(workID string) domain.CatalogRecord {
	var names []string
	for _, a := range w.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	cover := ""
	if len(w.Covers) > 0 {
		cover = CoverURL(w.Covers[0])
	}
	return domain.CatalogRecord{
		ExternalID:    workID,
		Title:         titleOrUnknown(w.Title),
		Authors:       names,
		Description:   strings.TrimSpace(textutil.ToMarkdown(string(w.Description))),
		Categories:    categories(w.Subjects),
		PageCount:     max(w.NumberOfPages, 0),
		CoverURL:      cover,
		PublishedDate: w.FirstPublishDate,
		Source:        domain.SourceOpenLibrary,
	}
}

func titleOrUnknown(t string) string {
	if t == "" {
		return "Unknown Title"
	}
	return t
}

func authorsOrUnknown(a []string) []string {
	if len(a) == 0 {
		return []string{domain.UnknownAuthor}
	}
	return a
}

// categories keeps the first few subjects, or "General".
func categories(subjects []string) []string {
	if len(subjects) == 0 {
		return []string{"General"}
	}
	return subjects[:min(len(subjects), maxCategories)]
}
