package textscore

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDict() Dictionary {
	return Dictionary{
		"en": {"hello": {}, "world": {}, "message": {}},
		"de": {"hallo": {}, "welt": {}},
	}
}

func TestDictionaryScoreMatches(t *testing.T) {
	res := DictionaryScore("hello world", testDict())
	assert.Equal(t, "en", res.Language)
	// "hello" (5) + "world" (5) over 11 characters.
	assert.InDelta(t, 10.0/11.0, res.Score, 1e-9)
}

func TestDictionaryScorePicksBestLanguage(t *testing.T) {
	res := DictionaryScore("hallo welt again", testDict())
	assert.Equal(t, "de", res.Language)
	assert.Greater(t, res.Score, 0.0)
}

func TestDictionaryScoreIgnoresShortTokens(t *testing.T) {
	dict := Dictionary{"en": {"the": {}, "cat": {}}}
	res := DictionaryScore("the cat", dict)
	assert.Zero(t, res.Score, "tokens of three characters or fewer carry no signal")
}

func TestDictionaryScoreNoDict(t *testing.T) {
	assert.Zero(t, DictionaryScore("hello world", nil).Score)
	assert.Zero(t, DictionaryScore("", testDict()).Score)
}

func TestDictionaryScoreCaseInsensitive(t *testing.T) {
	res := DictionaryScore("HELLO World", testDict())
	assert.Equal(t, "en", res.Language)
	assert.Greater(t, res.Score, 0.5)
}

func TestSharedDictionaryLoadsOnce(t *testing.T) {
	calls := 0
	loader := func() (Dictionary, error) {
		calls++
		return testDict(), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := SharedDictionary(loader)
			require.NoError(t, err)
			require.NotNil(t, d)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls, "concurrent callers must converge on one load")

	// A later loader is ignored entirely.
	d, err := SharedDictionary(func() (Dictionary, error) {
		return nil, errors.New("should never run")
	})
	require.NoError(t, err)
	assert.NotNil(t, d)
}
