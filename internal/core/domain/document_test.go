package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *Document {
	return &Document{
		Title: "Кодекс на труда",
		Type:  DocumentTypeLaw,
		Articles: []Article{
			{Number: "Чл. 1", Content: "Този кодекс урежда трудовите отношения."},
		},
	}
}

func TestDocumentType_Valid(t *testing.T) {
	tests := []struct {
		docType  DocumentType
		expected bool
	}{
		{DocumentTypeLaw, true},
		{DocumentTypeRegulation, true},
		{DocumentTypeDecree, true},
		{DocumentType("statute"), false},
		{DocumentType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.docType), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.docType.Valid())
		})
	}
}

func TestDocument_Validate(t *testing.T) {
	assert.NoError(t, validDocument().Validate())
}

func TestDocument_Validate_MissingTitle(t *testing.T) {
	doc := validDocument()
	doc.Title = "  "

	err := doc.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDocument_Validate_UnknownType(t *testing.T) {
	doc := validDocument()
	doc.Type = "statute"

	err := doc.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDocument_Validate_EmptyArticleContent(t *testing.T) {
	doc := validDocument()
	doc.Articles = append(doc.Articles, Article{Number: "Чл. 2", Content: "   "})

	err := doc.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Чл. 2")
}

func TestDocument_Validate_ForeignArticleBackReference(t *testing.T) {
	doc := validDocument()
	doc.ID = "law-1"
	doc.Articles[0].LawID = "law-2"

	err := doc.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAmendment_Validate(t *testing.T) {
	amendment := &Amendment{
		LawID:            "law-1",
		Date:             time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		Description:      "Изменение на чл. 1",
		AffectedArticles: []string{"a1"},
	}

	assert.NoError(t, amendment.Validate())
}

func TestAmendment_Validate_Errors(t *testing.T) {
	date := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		amendment Amendment
	}{
		{"missing law id", Amendment{Date: date, Description: "x"}},
		{"missing description", Amendment{LawID: "law-1", Date: date}},
		{"zero date", Amendment{LawID: "law-1", Description: "x"}},
		{"empty affected id", Amendment{LawID: "law-1", Date: date, Description: "x", AffectedArticles: []string{""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.amendment.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
