package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChannelComboPriority(t *testing.T) {
	combos := DefaultChannelCombos()
	require.Len(t, combos, 7)
	assert.Equal(t, "RGB", combos[0].String(), "all channels scan first")
	assert.Equal(t, "R", combos[1].String())
	assert.Equal(t, "GB", combos[6].String(), "pairs scan last")
}

func TestComboEnumerationSize(t *testing.T) {
	assert.Len(t, DefaultOptions().combos(), 4*7*2*2)
	assert.Len(t, QuickOptions().combos(), 2*7*2*2)
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	data := []byte(`
bits_per_channel: [1, 3]
channels:
  - {r: true, g: true, b: true}
  - {b: true}
orders: [column]
encodings: [ascii]
top_n: 5
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, opts.BitsPerChannel)
	assert.Len(t, opts.Channels, 2)
	assert.Equal(t, []string{"column"}, opts.Orders)
	assert.Equal(t, []string{"ascii"}, opts.Encodings)
	assert.Equal(t, 5, opts.TopN)
	assert.Equal(t, 1000, opts.ScoreLimit, "unset fields keep defaults")
	assert.NoError(t, opts.validate())
}

func TestValidateRejectsBadTokens(t *testing.T) {
	opts := DefaultOptions()
	opts.Orders = []string{"spiral"}
	assert.Error(t, opts.validate())

	opts = DefaultOptions()
	opts.BitsPerChannel = []int{9}
	assert.Error(t, opts.validate())

	opts = DefaultOptions()
	opts.Encodings = []string{"ebcdic"}
	assert.Error(t, opts.validate())
}
