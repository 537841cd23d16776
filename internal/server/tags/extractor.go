// Package tags derives searchable tags from item descriptions using two
// externally supplied text resources: a stop-word list and a
// special-character list. Both are loaded once at construction and shared;
// extraction itself touches no files.
package tags

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Extractor produces tags for an item description.
type Extractor struct {
	stopWords map[string]struct{}
	specials  []string
}

// NewExtractor loads the stop-word resource (one line, comma-separated) and
// the special-character resource (one line, space-separated) and returns a
// ready extractor.
func NewExtractor(stopWordsFile, specialsFile string) (*Extractor, error) {
	stopWords, err := readList(stopWordsFile, ",")
	if err != nil {
		return nil, fmt.Errorf("loading stop words: %w", err)
	}

	specials, err := readList(specialsFile, " ")
	if err != nil {
		return nil, fmt.Errorf("loading special characters: %w", err)
	}

	return NewExtractorFromLists(stopWords, specials), nil
}

// NewExtractorFromLists builds an extractor from in-memory lists. Stop words
// are matched case-insensitively.
func NewExtractorFromLists(stopWords, specials []string) *Extractor {
	sw := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		w = strings.TrimSpace(w)
		if w != "" {
			sw[strings.ToLower(w)] = struct{}{}
		}
	}

	cleaned := make([]string, 0, len(specials))
	for _, c := range specials {
		if c != "" {
			cleaned = append(cleaned, c)
		}
	}

	return &Extractor{stopWords: sw, specials: cleaned}
}

// Extract splits the description on whitespace and hyphens, drops tokens
// whose lowercased form is a stop word, and strips every listed special
// character from the survivors (exact substring removal). Token case,
// duplicates and tokens emptied by cleaning are all preserved.
func (e *Extractor) Extract(description string) []string {
	words := strings.FieldsFunc(description, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})

	result := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := e.stopWords[strings.ToLower(w)]; stop {
			continue
		}
		for _, c := range e.specials {
			w = strings.ReplaceAll(w, c, "")
		}
		result = append(result, w)
	}
	return result
}

// readList reads the first line of path and splits it on sep.
func readList(path, sep string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	line := string(data)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	if line == "" {
		return nil, nil
	}

	return strings.Split(line, sep), nil
}
