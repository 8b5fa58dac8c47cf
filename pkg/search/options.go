package search

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pixelveil/pkg/lsb"
	"pixelveil/pkg/textscore"
)

// ChannelCombo is one channel-selection entry of the scan priority
// list.
type ChannelCombo struct {
	R bool `yaml:"r"`
	G bool `yaml:"g"`
	B bool `yaml:"b"`
}

func (c ChannelCombo) String() string {
	s := ""
	if c.R {
		s += "R"
	}
	if c.G {
		s += "G"
	}
	if c.B {
		s += "B"
	}
	return s
}

// DefaultChannelCombos is the priority-ordered selection list: all
// three channels first, then single channels, then pairs. The order is
// a shipped preference, not a principled ranking; earlier entries win
// enumeration-order tie-breaks.
func DefaultChannelCombos() []ChannelCombo {
	return []ChannelCombo{
		{R: true, G: true, B: true},
		{R: true},
		{G: true},
		{B: true},
		{R: true, G: true},
		{R: true, B: true},
		{G: true, B: true},
	}
}

// Options bounds the parameter space of one scan.
type Options struct {
	BitsPerChannel []int          `yaml:"bits_per_channel"`
	Channels       []ChannelCombo `yaml:"channels"`
	Orders         []string       `yaml:"orders"`    // "row", "column"
	Encodings      []string       `yaml:"encodings"` // "utf8", "ascii"
	// ScoreLimit caps how many payload bytes feed the scorers; the
	// full payload is always kept on the candidate.
	ScoreLimit int `yaml:"score_limit"`
	// TopN bounds the returned candidate list; 0 keeps everything.
	TopN int `yaml:"top_n"`
}

// DefaultOptions covers the full default grid.
func DefaultOptions() Options {
	return Options{
		BitsPerChannel: []int{1, 2, 3, 4},
		Channels:       DefaultChannelCombos(),
		Orders:         []string{"row", "column"},
		Encodings:      []string{"utf8", "ascii"},
		ScoreLimit:     1000,
	}
}

// QuickOptions is the reduced grid for fast scans.
func QuickOptions() Options {
	o := DefaultOptions()
	o.BitsPerChannel = []int{1, 2}
	return o
}

// LoadOptions reads scan options from a YAML file; absent fields fall
// back to the defaults.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	o := DefaultOptions()
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("failed to parse options %s: %w", path, err)
	}
	return o, nil
}

func (o Options) validate() error {
	if len(o.BitsPerChannel) == 0 || len(o.Channels) == 0 || len(o.Orders) == 0 || len(o.Encodings) == 0 {
		return fmt.Errorf("scan options enumerate an empty parameter space")
	}
	for _, b := range o.BitsPerChannel {
		if b < 1 || b > 8 {
			return fmt.Errorf("bits per channel out of range: %d", b)
		}
	}
	for _, s := range o.Orders {
		if _, err := lsb.ParseOrder(s); err != nil {
			return err
		}
	}
	for _, s := range o.Encodings {
		if _, err := textscore.ParseMode(s); err != nil {
			return err
		}
	}
	return nil
}

// combos materializes the cross product in enumeration order.
func (o Options) combos() []Params {
	var out []Params
	for _, bits := range o.BitsPerChannel {
		for _, ch := range o.Channels {
			for _, orderTok := range o.Orders {
				order, _ := lsb.ParseOrder(orderTok)
				for _, encTok := range o.Encodings {
					mode, _ := textscore.ParseMode(encTok)
					out = append(out, Params{
						Config: lsb.Config{
							BitsPerChannel: bits,
							UseR:           ch.R,
							UseG:           ch.G,
							UseB:           ch.B,
							Order:          order,
						},
						Mode: mode,
					})
				}
			}
		}
	}
	return out
}
