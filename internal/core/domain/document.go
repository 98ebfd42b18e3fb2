package domain

import (
	"fmt"
	"strings"
	"time"
)

// DocumentType classifies a legal instrument.
type DocumentType string

// Recognised document types.
const (
	DocumentTypeLaw        DocumentType = "law"
	DocumentTypeRegulation DocumentType = "regulation"
	DocumentTypeDecree     DocumentType = "decree"
)

// Valid reports whether the document type is one of the recognised values.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeLaw, DocumentTypeRegulation, DocumentTypeDecree:
		return true
	}
	return false
}

// Document represents a whole legal instrument containing an ordered set
// of articles. The document exclusively owns its articles; an article's
// LawID is a back-reference, not ownership.
type Document struct {
	// ID is the unique identifier, assigned on first persist if empty.
	ID string

	// Title is the official title of the legal instrument.
	Title string

	// Type is one of law, regulation or decree.
	Type DocumentType

	// SourceURL is where the document was scraped from.
	SourceURL string

	// DatePublished is when the instrument was published or enacted.
	DatePublished *time.Time

	// DateModified is when the instrument was last modified.
	DateModified *time.Time

	// DateScraped is when this copy was captured.
	DateScraped time.Time

	// IsCurrent marks whether this is the current version.
	IsCurrent bool

	// Category and Subcategory classify the instrument for filtering.
	Category    string
	Subcategory string

	// Tags is an unordered set of labels (e.g. "labor", "tax").
	Tags []string

	// Articles are the articles contained in this document, in order.
	Articles []Article
}

// Validate checks the document is storable. Articles with empty content are
// rejected here rather than silently dropped; the segmenter discards empty
// segments before they ever become articles.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: document title is required", ErrValidation)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown document type %q", ErrValidation, d.Type)
	}
	for i := range d.Articles {
		a := &d.Articles[i]
		if strings.TrimSpace(a.Content) == "" {
			return fmt.Errorf("%w: article %q has empty content", ErrValidation, a.Number)
		}
		if a.LawID != "" && d.ID != "" && a.LawID != d.ID {
			return fmt.Errorf("%w: article %q references law %q, expected %q",
				ErrValidation, a.Number, a.LawID, d.ID)
		}
	}
	return nil
}

// Article is the smallest addressable unit of legal text, identified by a
// law-specific number label such as "Чл. 70". Numbers are unique only
// within their parent document.
type Article struct {
	// ID is the unique identifier, assigned on first persist if empty.
	ID string

	// LawID references the parent document.
	LawID string

	// Number is the label of the article, e.g. "Чл. 70" or "Preamble".
	Number string

	// Content is the full article text. Never empty once stored.
	Content string

	// EmbeddingID is the key of this article's record in the vector
	// collection. Set exactly once when the article is first embedded.
	EmbeddingID string
}

// ArticleDetail is an article joined with its parent document's metadata,
// as returned by store lookups and filter joins.
type ArticleDetail struct {
	Article

	LawTitle      string
	DocumentType  DocumentType
	Category      string
	Subcategory   string
	DatePublished *time.Time
}

// Amendment records a change to a legal document and the articles it
// affects. Every affected article id must reference an existing article at
// write time.
type Amendment struct {
	// ID is the unique identifier, assigned on first persist if empty.
	ID string

	// LawID references the amended document.
	LawID string

	// Date is when the amendment was enacted.
	Date time.Time

	// Description summarises what changed.
	Description string

	// Text is the full amendment text.
	Text string

	// AffectedArticles lists the ids of the articles the amendment touches.
	AffectedArticles []string

	// SourceURL is where the amendment was scraped from.
	SourceURL string
}

// Validate checks the amendment is storable.
func (a *Amendment) Validate() error {
	if a.LawID == "" {
		return fmt.Errorf("%w: amendment law id is required", ErrValidation)
	}
	if strings.TrimSpace(a.Description) == "" {
		return fmt.Errorf("%w: amendment description is required", ErrValidation)
	}
	if a.Date.IsZero() {
		return fmt.Errorf("%w: amendment date is required", ErrValidation)
	}
	for _, id := range a.AffectedArticles {
		if id == "" {
			return fmt.Errorf("%w: empty affected article id", ErrValidation)
		}
	}
	return nil
}
