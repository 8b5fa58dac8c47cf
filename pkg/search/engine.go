// Package search brute-forces LSB codec parameters against an image
// and ranks the decodings by how much they look like text. It is the
// blind-recovery engine: nothing about the original encoding
// configuration is assumed.
package search

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"pixelveil/pkg/bitstream"
	"pixelveil/pkg/lsb"
	"pixelveil/pkg/pixels"
	"pixelveil/pkg/textscore"
)

// Params is one point of the scanned parameter space.
type Params struct {
	Config lsb.Config
	Mode   textscore.Mode
}

func (p Params) String() string {
	return fmt.Sprintf("bits=%d channels=%s order=%s encoding=%s",
		p.Config.BitsPerChannel, p.Config.ChannelString(), p.Config.Order, p.Mode)
}

// Candidate is one decoded-and-scored parameter combination.
type Candidate struct {
	Params        Params
	Payload       bitstream.Payload
	Text          string
	Heuristic     float64
	Probabilistic float64
	Quality       float64
	DictLanguage  string
	DictScore     float64
	PrintableRun  int

	seq int // enumeration index, final ranking tie-break
}

// State is the engine lifecycle.
type State int32

const (
	Idle State = iota
	Running
	Completed
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ProgressFunc receives (current, total, percent) at every combination
// boundary.
type ProgressFunc func(current, total int, percent float64)

// CandidatesFunc receives the re-ranked candidate list each time a new
// candidate lands, enabling incremental result display.
type CandidatesFunc func([]Candidate)

// Engine runs one blind scan at a time. The zero value is not usable;
// construct with New.
type Engine struct {
	opts  Options
	dict  textscore.Dictionary
	state atomic.Int32

	// OnProgress and OnCandidates are optional synchronous callbacks,
	// invoked from the scanning goroutine.
	OnProgress   ProgressFunc
	OnCandidates CandidatesFunc
}

// New builds an engine over the given options. dict may be nil to skip
// the dictionary ranking layer.
func New(opts Options, dict textscore.Dictionary) *Engine {
	return &Engine{opts: opts, dict: dict}
}

// State reports the engine lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Run scans the full parameter grid against buf and returns the
// candidates ranked best-first. Cancellation is cooperative: the
// context is checked at every combination boundary and after every
// expensive step, and a cancelled scan returns ctx.Err() rather than a
// partial ranking. A combination that panics is dropped; one bad
// parameter set never aborts the scan.
func (e *Engine) Run(ctx context.Context, buf *pixels.Buffer) ([]Candidate, error) {
	if buf == nil || buf.Width == 0 || buf.Height == 0 {
		e.state.Store(int32(Failed))
		return nil, fmt.Errorf("no image to scan")
	}
	if err := e.opts.validate(); err != nil {
		e.state.Store(int32(Failed))
		return nil, err
	}

	e.state.Store(int32(Running))
	combos := e.opts.combos()
	total := len(combos)
	ranked := make([]Candidate, 0, total)

	for i, params := range combos {
		if err := ctx.Err(); err != nil {
			e.state.Store(int32(Cancelled))
			return nil, err
		}
		e.progress(i, total)

		cand, ok := e.tryCombo(buf, params, i)
		if err := ctx.Err(); err != nil {
			e.state.Store(int32(Cancelled))
			return nil, err
		}
		if !ok {
			continue
		}

		ranked = append(ranked, cand)
		sort.SliceStable(ranked, func(i, j int) bool {
			return Compare(&ranked[i], &ranked[j]) < 0
		})
		if e.OnCandidates != nil {
			e.OnCandidates(e.bounded(ranked))
		}
	}

	e.progress(total, total)
	e.state.Store(int32(Completed))
	return e.bounded(ranked), nil
}

// tryCombo decodes and scores one parameter set. Panics are swallowed:
// the candidate is simply dropped.
func (e *Engine) tryCombo(buf *pixels.Buffer, params Params, seq int) (cand Candidate, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	payload, err := lsb.Decode(buf, params.Config)
	if err != nil {
		return Candidate{}, false
	}

	scored := payload
	if limit := e.opts.ScoreLimit; limit > 0 && len(scored.Bytes) > limit {
		scored = bitstream.Payload{Bytes: scored.Bytes[:limit]}
	}

	rendered := textscore.Render(scored, params.Mode)
	// Trailing zero bytes are capacity padding; scoring them as
	// control bytes would bury a clean payload under its own padding.
	content := textscore.TrimPadding(scored.Bytes)
	prob := textscore.ProbabilisticScore(content)

	cand = Candidate{
		Params:        params,
		Payload:       payload,
		Text:          rendered.Text,
		Heuristic:     textscore.HeuristicScore(rendered),
		Probabilistic: prob,
		Quality:       textscore.QualityScore(content, prob),
		PrintableRun:  textscore.LeadingPrintableRun(payload.Bytes),
		seq:           seq,
	}
	if e.dict != nil {
		res := textscore.DictionaryScore(rendered.Text, e.dict)
		cand.DictLanguage, cand.DictScore = res.Language, res.Score
	}
	return cand, true
}

func (e *Engine) progress(current, total int) {
	if e.OnProgress == nil {
		return
	}
	percent := 0.0
	if total > 0 {
		percent = float64(current) / float64(total) * 100
	}
	e.OnProgress(current, total, percent)
}

func (e *Engine) bounded(ranked []Candidate) []Candidate {
	n := len(ranked)
	if e.opts.TopN > 0 && n > e.opts.TopN {
		n = e.opts.TopN
	}
	out := make([]Candidate, n)
	copy(out, ranked[:n])
	return out
}
