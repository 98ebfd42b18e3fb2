package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Filters is the structured filter vocabulary for retrieval. Every field is
// optional; an absent field imposes no constraint. Tags use any-of
// semantics: a document matches if it carries at least one requested tag.
type Filters struct {
	// DocumentType restricts results to one document type.
	DocumentType string `json:"document_type,omitempty"`

	// Category restricts results to one category.
	Category string `json:"category,omitempty"`

	// Tags restricts results to documents carrying any of these tags.
	Tags []string `json:"tags,omitempty"`

	// DateAfter keeps only documents published on or after this date.
	DateAfter *time.Time `json:"date_after,omitempty"`

	// DateBefore keeps only documents published on or before this date.
	DateBefore *time.Time `json:"date_before,omitempty"`
}

// IsZero reports whether no filter field is set. A zero Filters value is a
// pure pass-through: it must never exclude a candidate.
func (f Filters) IsZero() bool {
	return f.DocumentType == "" &&
		f.Category == "" &&
		len(f.Tags) == 0 &&
		f.DateAfter == nil &&
		f.DateBefore == nil
}

// ParseFilters decodes a JSON filter object. Unknown keys are rejected
// rather than silently ignored, so a typo like "categroy" fails loudly
// instead of returning unfiltered results.
func ParseFilters(data []byte) (Filters, error) {
	var f Filters
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Filters{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return f, nil
}

// ResultMetadata is the snapshot of article provenance carried by every
// search result. It is duplicated into the vector collection at ingest time
// so that filterless searches need no relational lookup.
type ResultMetadata struct {
	ArticleID     string `json:"article_id"`
	LawID         string `json:"law_id"`
	LawTitle      string `json:"law_title"`
	ArticleNumber string `json:"article_number"`
}

// SearchResult is one ranked retrieval hit.
type SearchResult struct {
	// Content is the full article text.
	Content string `json:"content"`

	// Metadata identifies the article and its parent law.
	Metadata ResultMetadata `json:"metadata"`

	// Similarity is the normalised similarity score in [0,1], derived as
	// 1 - distance under the cosine metric. Configuring a metric that
	// produces scores outside this range is a configuration error; scores
	// are never clamped.
	Similarity float64 `json:"similarity"`
}
