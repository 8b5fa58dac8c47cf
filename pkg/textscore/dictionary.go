package textscore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Dictionary maps a language code to its set of lowercase words.
// It is immutable once handed to a scorer or search engine.
type Dictionary map[string]map[string]struct{}

// minWordLen filters noise tokens; the wordlists themselves only keep
// words longer than three characters, matching runs shorter than that
// prove nothing.
const minWordLen = 4

// DictResult names the best-matching language and its coverage score.
type DictResult struct {
	Language string
	Score    float64
}

// DictionaryScore tokenizes text into letter runs and computes, per
// language, the total length of matched words over the text length.
// The best language wins; an empty dictionary scores zero.
func DictionaryScore(text string, dict Dictionary) DictResult {
	if len(dict) == 0 || len(text) == 0 {
		return DictResult{}
	}

	var tokens []string
	var cur strings.Builder
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() >= minWordLen {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
	}
	if cur.Len() >= minWordLen {
		tokens = append(tokens, cur.String())
	}
	if len(tokens) == 0 {
		return DictResult{}
	}

	best := DictResult{}
	// Map iteration order is random; ties resolve by language code so
	// the result is deterministic.
	for lang, words := range dict {
		matched := 0
		for _, tok := range tokens {
			if _, ok := words[tok]; ok {
				matched += len(tok)
			}
		}
		score := float64(matched) / float64(len(text))
		if score > best.Score || (score == best.Score && score > 0 && (best.Language == "" || lang < best.Language)) {
			best = DictResult{Language: lang, Score: score}
		}
	}
	return best
}

// Loader produces the process-wide dictionary.
type Loader func() (Dictionary, error)

var shared struct {
	once sync.Once
	dict Dictionary
	err  error
}

// SharedDictionary returns the process-wide dictionary, populating it
// at most once. Concurrent callers all wait on the single in-flight
// load and converge on the same result; the loader passed by later
// callers is ignored.
func SharedDictionary(load Loader) (Dictionary, error) {
	shared.once.Do(func() {
		shared.dict, shared.err = load()
	})
	return shared.dict, shared.err
}

// DirLoader reads a directory of wordlists, one "<lang>.txt" file per
// language with one word per line, lowercasing as it goes.
func DirLoader(dir string) Loader {
	return func() (Dictionary, error) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		dict := Dictionary{}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
				continue
			}
			lang := strings.TrimSuffix(e.Name(), ".txt")
			words, err := readWordlist(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			dict[lang] = words
		}
		return dict, nil
	}
}

func readWordlist(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if len(w) >= minWordLen {
			words[w] = struct{}{}
		}
	}
	return words, sc.Err()
}
