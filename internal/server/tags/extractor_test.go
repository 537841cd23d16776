package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_DropsStopWords(t *testing.T) {
	e := NewExtractorFromLists([]string{"the", "a", "for"}, nil)

	got := e.Extract("the perfect lamp for a desk")
	assert.Equal(t, []string{"perfect", "lamp", "desk"}, got)
}

func TestExtract_StopWordsAreCaseInsensitive(t *testing.T) {
	e := NewExtractorFromLists([]string{"the"}, nil)

	got := e.Extract("The lamp THE desk")
	assert.Equal(t, []string{"lamp", "desk"}, got)
}

func TestExtract_StripsSpecialCharacters(t *testing.T) {
	e := NewExtractorFromLists(nil, []string{",", "!", "."})

	got := e.Extract("great, condition! barely used.")
	assert.Equal(t, []string{"great", "condition", "barely", "used"}, got)
}

func TestExtract_SplitsOnHyphen(t *testing.T) {
	e := NewExtractorFromLists(nil, nil)

	got := e.Extract("solid-oak night-stand")
	assert.Equal(t, []string{"solid", "oak", "night", "stand"}, got)
}

func TestExtract_PreservesCaseDuplicatesAndEmptied(t *testing.T) {
	e := NewExtractorFromLists(nil, []string{"#"})

	// "#" cleans to an empty token that is still kept.
	got := e.Extract("Lamp lamp Lamp #")
	assert.Equal(t, []string{"Lamp", "lamp", "Lamp", ""}, got)
}

func TestExtract_RemovesEveryOccurrence(t *testing.T) {
	e := NewExtractorFromLists(nil, []string{"'"})

	got := e.Extract("it's o'clock")
	assert.Equal(t, []string{"its", "oclock"}, got)
}

func TestNewExtractor_LoadsResources(t *testing.T) {
	dir := t.TempDir()
	stop := filepath.Join(dir, "stopword.txt")
	specials := filepath.Join(dir, "special_characters.txt")

	require.NoError(t, os.WriteFile(stop, []byte("the,a,an\n"), 0o600))
	require.NoError(t, os.WriteFile(specials, []byte(", . !\n"), 0o600))

	e, err := NewExtractor(stop, specials)
	require.NoError(t, err)

	got := e.Extract("an antique lamp, barely used!")
	assert.Equal(t, []string{"antique", "lamp", "barely", "used"}, got)
}

func TestNewExtractor_MissingResource(t *testing.T) {
	_, err := NewExtractor(filepath.Join(t.TempDir(), "nope.txt"), "also-missing.txt")
	assert.Error(t, err)
}
