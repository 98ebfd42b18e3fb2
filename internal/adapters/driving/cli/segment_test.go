package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLawText = `Кодекс на труда

Чл. 70. Окончателното приемане на работа може да се предшествува от договор
със срок за изпитване.

Чл. 71. До изтичане на срока за изпитване страната може да прекрати договора
без предизвестие.`

func TestSegmentCmd_Use(t *testing.T) {
	assert.Equal(t, "segment [file.txt]", segmentCmd.Use)
}

func TestSegmentCmd_SplitsArticles(t *testing.T) {
	path, err := writeTempFile("law-*.txt", sampleLawText)
	require.NoError(t, err)
	defer os.Remove(path)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"segment", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "3 segments:")
	assert.Contains(t, out, "Preamble")
	assert.Contains(t, out, "Чл. 70")
	assert.Contains(t, out, "Чл. 71")
}

func TestSegmentCmd_JSONOutput(t *testing.T) {
	path, err := writeTempFile("law-*.txt", sampleLawText)
	require.NoError(t, err)
	defer os.Remove(path)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"segment", "--json", path})
	defer func() {
		rootCmd.SetArgs(nil)
		segmentJSON = false
	}()

	err = rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"number"`)
	assert.Contains(t, buf.String(), `"content"`)
}

func TestSegmentCmd_RunsWithoutServices(t *testing.T) {
	// Segmentation is offline: no store, collection or embedder is opened.
	path, err := writeTempFile("law-*.txt", sampleLawText)
	require.NoError(t, err)
	defer os.Remove(path)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"segment", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	assert.NoError(t, rootCmd.Execute())
}
