package cli

import (
	"context"
	"os"

	"github.com/nikolarss0n/legal-assistant/internal/adapters/driven/embedding/lexical"
	storememory "github.com/nikolarss0n/legal-assistant/internal/adapters/driven/storage/memory"
	vecmemory "github.com/nikolarss0n/legal-assistant/internal/adapters/driven/vector/memory"
	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
	"github.com/nikolarss0n/legal-assistant/internal/core/services"
)

// setupTestServices wires the commands to in-memory adapters with a small
// seeded corpus. The returned cleanup restores the unwired state.
func setupTestServices() func() {
	store := storememory.NewStore()
	vectors := vecmemory.NewIndex()
	embedder := lexical.New(64)

	ingest := services.NewIngestService(store, vectors, embedder)
	_, _ = ingest.IngestDocument(context.Background(), &domain.Document{
		Title:    "Кодекс на труда",
		Type:     domain.DocumentTypeLaw,
		Category: "labor",
		Tags:     []string{"labor"},
		Articles: []domain.Article{
			{Number: "Чл. 70", Content: "договор със срок за изпитване в полза на работодателя"},
			{Number: "Чл. 155", Content: "платен годишен отпуск на работника"},
		},
	})

	retrievalService = services.NewRetrievalService(store, vectors, embedder)
	ingestService = ingest

	return func() {
		retrievalService = nil
		ingestService = nil
		settingsService = nil
		resetFlags()
	}
}

// setupTestSettings wires the settings service to a map-backed config
// store seeded with values. Call after setupTestServices so its cleanup
// unwires the service.
func setupTestSettings(values map[string]any) *memConfigStore {
	cs := &memConfigStore{data: make(map[string]any)}
	for k, v := range values {
		cs.data[k] = v
	}
	settingsService = services.NewSettingsService(cs)
	return cs
}

// memConfigStore implements driven.ConfigStore over a plain map.
type memConfigStore struct {
	data map[string]any
}

func (m *memConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memConfigStore) GetString(key string) string {
	v, _ := m.data[key].(string)
	return v
}

func (m *memConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *memConfigStore) GetBool(key string) bool {
	v, _ := m.data[key].(bool)
	return v
}

func (m *memConfigStore) GetStringSlice(key string) []string {
	v, _ := m.data[key].([]string)
	return v
}

func (m *memConfigStore) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *memConfigStore) Save() error  { return nil }
func (m *memConfigStore) Load() error  { return nil }
func (m *memConfigStore) Path() string { return "/tmp/config.toml" }

// resetFlags clears flag state shared across tests through package vars.
func resetFlags() {
	searchLimit = 5
	searchJSON = false
	searchFilter = ""
	searchType = ""
	searchCategory = ""
	searchTags = nil
	searchAfter = ""
	searchBefore = ""
	reindexArticleID = ""
	embedProvider = ""
	embedModel = ""
	embedBaseURL = ""
	embedDims = 0
	embedTimeout = 0
	settingsSearchLimit = 0
	if f := searchCmd.Flags().Lookup("limit"); f != nil {
		f.Changed = false
	}
}

// writeTempFile creates a throwaway file for command input tests.
func writeTempFile(pattern, content string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", err
	}
	return f.Name(), f.Close()
}
