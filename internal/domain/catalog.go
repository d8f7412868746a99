package domain

import "strings"

// SourceSystem identifies the catalog a record came from.
type SourceSystem string

// Catalog sources.
const (
	SourceGoogleBooks SourceSystem = "googlebooks"
	SourceOpenLibrary SourceSystem = "openlibrary"
)

// UnknownAuthor is used when a catalog record has no author.
const UnknownAuthor = "Unknown Author"

// CatalogRecord is a book as normalized from any backing catalog.
type CatalogRecord struct {
	ExternalID    string       `json:"externalId"`
	Title         string       `json:"title"`
	Authors       []string     `json:"authors"`
	Description   string       `json:"description,omitempty"`
	Categories    []string     `json:"categories"`
	PageCount     int          `json:"pageCount"`
	CoverURL      string       `json:"coverUrl,omitempty"`
	Publisher     string       `json:"publisher,omitempty"`
	PublishedDate string       `json:"publishedDate,omitempty"`
	ISBN          string       `json:"isbn,omitempty"`
	Source        SourceSystem `json:"source"`
}

// Author returns the primary author, or UnknownAuthor.
func (r *CatalogRecord) Author() string {
	if len(r.Authors) == 0 || r.Authors[0] == "" {
		return UnknownAuthor
	}
	return r.Authors[0]
}

// Key returns the dedup key for the record.
func (r *CatalogRecord) Key() string {
	return DedupKey(r.Title, r.Author())
}

// DedupKey is the identity used to collapse duplicate books across
// providers and catalogs: lowercase(title) + "-" + lowercase(author).
func DedupKey(title, author string) string {
	return strings.ToLower(title) + "-" + strings.ToLower(author)
}

// BookDetails is the book shape served by the catalog lookup endpoints.
type BookDetails struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	PageCount     int      `json:"pageCount"`
	Categories    []string `json:"categories"`
	Cover         string   `json:"cover"`
	ISBN          string   `json:"isbn"`
}

// Details converts the record into the lookup endpoint shape.
func (r *CatalogRecord) Details() BookDetails {
	authors := r.Authors
	if authors == nil {
		authors = []string{}
	}
	categories := r.Categories
	if categories == nil {
		categories = []string{}
	}
	return BookDetails{
		Title:         r.Title,
		Authors:       authors,
		Publisher:     r.Publisher,
		PublishedDate: r.PublishedDate,
		Description:   r.Description,
		PageCount:     r.PageCount,
		Categories:    categories,
		Cover:         r.CoverURL,
		ISBN:          r.ISBN,
	}
}
