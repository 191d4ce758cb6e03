package usecase

import (
	"bufio"
	"os"
	"strings"
	"unicode"
)

// defaultWords is the built-in blocklist. Deployments extend it via the
// PROFANITY_WORDS_FILE config without rebuilding.
var defaultWords = []string{
	"ass", "asshole", "bastard", "bitch", "bullshit", "crap",
	"damn", "dick", "fuck", "piss", "shit", "slut", "whore",
}

// WordFilter screens chat text against a word blocklist. Matching is
// case-insensitive and word-bounded, so "class" does not trip on "ass".
type WordFilter struct {
	words map[string]struct{}
}

// NewWordFilter creates a filter preloaded with the default blocklist
func NewWordFilter() *WordFilter {
	f := &WordFilter{words: make(map[string]struct{})}
	f.AddWords(defaultWords)
	return f
}

// AddWords extends the blocklist. Entries are lower-cased; blanks are ignored.
func (f *WordFilter) AddWords(words []string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			f.words[w] = struct{}{}
		}
	}
}

// IsProfane reports whether any word in the text is on the blocklist
func (f *WordFilter) IsProfane(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for _, w := range words {
		if _, blocked := f.words[w]; blocked {
			return true
		}
	}
	return false
}

// LoadWordsFile reads a newline-delimited wordlist. Blank lines and lines
// starting with '#' are skipped.
func LoadWordsFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}
