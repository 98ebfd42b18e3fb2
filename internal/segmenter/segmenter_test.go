package segmenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	s := New()
	require.NotNil(t, s)
	assert.Equal(t, DefaultMinContentLength, s.minContent)
	assert.Equal(t, DefaultMaxMarkerLineLength, s.maxMarkerLine)
	assert.Equal(t, DefaultBoilerplate, s.boilerplate)
}

func TestSegment_TwoArticles(t *testing.T) {
	s := New()

	segments := s.Segment("Чл. 70. Foo\nbar\nЧл. 71. Baz")

	require.Len(t, segments, 2)
	assert.Equal(t, "Чл. 70", segments[0].Number)
	assert.Equal(t, "Чл. 70. Foo\nbar", segments[0].Content)
	assert.Equal(t, "Чл. 71", segments[1].Number)
	assert.Equal(t, "Чл. 71. Baz", segments[1].Content)
}

func TestSegment_NoMarkers_SinglePreamble(t *testing.T) {
	s := New()
	text := "Общи разпоредби на кодекса.\nТози кодекс урежда трудовите отношения."

	segments := s.Segment(text)

	require.Len(t, segments, 1)
	assert.Equal(t, PreambleNumber, segments[0].Number)
	assert.Equal(t, text, segments[0].Content)
}

func TestSegment_PreambleBeforeFirstMarker(t *testing.T) {
	s := New()

	segments := s.Segment("Въведение в трудовото право.\nЧл. 1. Предмет на кодекса е уредбата.")

	require.Len(t, segments, 2)
	assert.Equal(t, PreambleNumber, segments[0].Number)
	assert.Equal(t, "Въведение в трудовото право.", segments[0].Content)
	assert.Equal(t, "Чл. 1", segments[1].Number)
}

func TestSegment_BlankLinesSkipped(t *testing.T) {
	s := New()

	segments := s.Segment("Чл. 5. Първа разпоредба\n\n\nвтори ред от текста\n\nЧл. 6. Втора разпоредба")

	require.Len(t, segments, 2)
	assert.Equal(t, "Чл. 5. Първа разпоредба\nвтори ред от текста", segments[0].Content)
	assert.NotContains(t, segments[0].Content, "\n\n")
}

func TestSegment_Idempotent(t *testing.T) {
	s := New()
	original := s.Segment("Чл. 70. Изпитателен срок при постъпване\nдопълнителен текст\nЧл. 71. Платен годишен отпуск")
	require.Len(t, original, 2)

	again := s.Segment(original[0].Content + "\n" + original[1].Content)

	require.Len(t, again, 2)
	assert.Equal(t, original, again)
}

func TestSegment_CyrillicSuffixNumber(t *testing.T) {
	s := New()

	segments := s.Segment("Чл. 70а. Разпоредба с буквен суфикс")

	require.Len(t, segments, 1)
	assert.Equal(t, "Чл. 70а", segments[0].Number)
}

func TestSegment_FullSpelling_ShortLineIsMarker(t *testing.T) {
	s := New()

	segments := s.Segment("Член 12 от кодекса\nсъдържание на члена, достатъчно дълго")

	require.Len(t, segments, 1)
	// Number extraction falls back to the first token for the full spelling.
	assert.Equal(t, "Член", segments[0].Number)
	assert.True(t, strings.HasPrefix(segments[0].Content, "Член 12"))
}

func TestSegment_FullSpelling_LongLineIsProse(t *testing.T) {
	s := New()
	prose := "Членовете на комисията се избират по реда на предходните разпоредби на кодекса"

	segments := s.Segment("Чл. 9. Начало на члена\n" + prose)

	require.Len(t, segments, 1)
	assert.Equal(t, "Чл. 9", segments[0].Number)
	assert.Contains(t, segments[0].Content, prose)
}

func TestSegment_ConsecutiveMarkers(t *testing.T) {
	s := New()

	segments := s.Segment("Чл. 14. Отменена разпоредба от кодекса\nЧл. 15. Следваща разпоредба от кодекса")

	// A marker line with no trailing content is its own article; dropping
	// it would lose data.
	require.Len(t, segments, 2)
	assert.Equal(t, "Чл. 14. Отменена разпоредба от кодекса", segments[0].Content)
	assert.Equal(t, "Чл. 15. Следваща разпоредба от кодекса", segments[1].Content)
}

func TestSegment_MinLengthFilter(t *testing.T) {
	s := New()

	segments := s.Segment("Чл. 3.\nЧл. 4. Достатъчно дълго съдържание на члена")

	require.Len(t, segments, 1)
	assert.Equal(t, "Чл. 4", segments[0].Number)
}

func TestSegment_BoilerplateFilter(t *testing.T) {
	s := New()

	segments := s.Segment("Чл. 20. Истинско съдържание на разпоредбата\nЧл. 21. Разпоредба\nДОБАВИ В МОИТЕ АКТОВЕ сегмент от навигацията")

	require.Len(t, segments, 1)
	assert.Equal(t, "Чл. 20", segments[0].Number)
}

func TestSegment_CustomBoilerplate(t *testing.T) {
	s := New(WithBoilerplate("FOOTER"))

	segments := s.Segment("Чл. 30. Съдържание на разпоредбата FOOTER")

	assert.Empty(t, segments)
}

func TestSegment_EmptyInput(t *testing.T) {
	s := New()

	assert.Empty(t, s.Segment(""))
	assert.Empty(t, s.Segment("\n\n\n"))
}

func TestSegment_NeverPanicsOnGarbage(t *testing.T) {
	s := New()
	inputs := []string{
		"Чл.",
		"Чл. без номер изобщо в този ред",
		"Чл. 999999999999999999999999а. текст след номера",
		strings.Repeat("Чл. 1. x\n", 100),
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() { s.Segment(in) })
	}
}

func TestIsMarkerLine(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		line string
		want bool
	}{
		{"abbreviated marker", "Чл. 70. Текст", true},
		{"abbreviated no space", "Чл.70", true},
		{"full spelling short", "Член 70", true},
		{"full spelling long prose", "Членовете на синдикалните организации имат право на защита", false},
		{"plain prose", "Работникът има право на отпуск", false},
		{"mid-line mention", "Според Чл. 70 от кодекса", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.isMarkerLine(tt.line))
		})
	}
}

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"plain number", "Чл. 70. Текст", "Чл. 70"},
		{"suffix letter", "Чл. 70а. Текст", "Чл. 70а"},
		{"no space after marker", "Чл.12. Текст", "Чл. 12"},
		{"fallback first token", "Чл-странен маркер", "Чл-странен"},
		{"bare marker fallback", "Чл. без цифри", "Чл."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractNumber(tt.line))
		})
	}
}
