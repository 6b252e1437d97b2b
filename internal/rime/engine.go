package rime

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/crypto/blake2b"

	"softboard/internal/dict"
	"softboard/internal/logging"
	"softboard/internal/metrics"
)

// File names the engine expects in the shared data directory.
const (
	SchemaFile   = "schema.yaml"
	DictFile     = "dict.db"
	ManifestFile = "dict.db.blake2b"
)

// ErrNoComposition is returned by commit operations when nothing has been
// typed since the last commit or reset.
var ErrNoComposition = errors.New("rime: no active composition")

// Options configures an Engine.
type Options struct {
	// DataDir holds the read-only schema and dictionary files.
	DataDir string

	// UserDataDir is the writable directory for config patches and user
	// state. Created if missing.
	UserDataDir string

	// Settings derive the config patch files.
	Settings Settings

	// CandidateLimit caps candidates per lookup. Defaults to 10.
	CandidateLimit int

	// Logger receives patch-write warnings. Defaults to the package
	// default logger.
	Logger *logging.Logger

	// Metrics receives engine counters. Optional.
	Metrics *metrics.Softboard
}

// Composition is the engine's visible input state: the raw typed code and
// the candidates it currently matches.
type Composition struct {
	Input      string
	Candidates []dict.Candidate
}

// Engine wraps the input-method engine. It owns the dictionary store and
// the current composition. Safe for concurrent use; the GUI thread and
// the settings watcher both reach it.
type Engine struct {
	mu    sync.Mutex
	opts  Options
	sch   Schema
	store *dict.Store
	input []rune
	log   *logging.Logger
}

// New constructs an engine instance. Missing data files are a fatal
// error; failed patch writes are logged and swallowed.
func New(opts Options) (*Engine, error) {
	if opts.CandidateLimit < 1 {
		opts.CandidateLimit = 10
	}
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}
	log = log.WithComponent("rime")

	doc, err := loadSchema(filepath.Join(opts.DataDir, SchemaFile))
	if err != nil {
		return nil, fmt.Errorf("rime: %w", err)
	}

	dictPath := filepath.Join(opts.DataDir, DictFile)
	if _, err := os.Stat(dictPath); err != nil {
		return nil, fmt.Errorf("rime: dictionary database: %w", err)
	}
	if err := verifyDictionary(opts.DataDir); err != nil {
		return nil, fmt.Errorf("rime: %w", err)
	}

	if err := os.MkdirAll(opts.UserDataDir, 0o755); err != nil {
		return nil, fmt.Errorf("rime: create user data dir: %w", err)
	}

	// Best-effort: the engine initializes with whatever patches exist.
	for _, werr := range writePatches(opts.UserDataDir, opts.Settings) {
		log.Warn("config patch not written", "error", werr)
		if opts.Metrics != nil {
			opts.Metrics.PatchWriteFailures.Inc()
		}
	}

	store, err := dict.Open(dictPath)
	if err != nil {
		return nil, fmt.Errorf("rime: %w", err)
	}

	if opts.Metrics != nil {
		opts.Metrics.EngineInits.Inc()
	}
	log.Info("engine ready", "schema", doc.Schema.ID, "tone_scheme", opts.Settings.ToneScheme)

	return &Engine{
		opts:  opts,
		sch:   doc.Schema,
		store: store,
		log:   log,
	}, nil
}

// verifyDictionary checks the dictionary against its BLAKE2b-256 sidecar
// manifest, when one is present.
func verifyDictionary(dataDir string) error {
	path := filepath.Join(dataDir, DictFile)

	want, err := os.ReadFile(filepath.Join(dataDir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read manifest: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	h, _ := blake2b.New256(nil)
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash dictionary: %w", err)
	}

	got := hex.EncodeToString(h.Sum(nil))
	if got != strings.TrimSpace(string(want)) {
		return fmt.Errorf("dictionary checksum mismatch: %s", path)
	}
	return nil
}

// Close tears the engine down and releases the dictionary store.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	return err
}

// Schema returns the loaded input schema.
func (e *Engine) Schema() Schema {
	return e.sch
}

// ProcessKey feeds one typed rune into the composition and returns the
// updated state. Tone keys are normalized according to the configured
// tone scheme before entering the code buffer; runes that cannot be part
// of a code are rejected.
func (e *Engine) ProcessKey(r rune) (Composition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return Composition{}, errors.New("rime: engine closed")
	}

	r = unicode.ToLower(r)
	switch {
	case r >= 'a' && r <= 'z':
		e.input = append(e.input, e.normalizeToneKey(r))
	case r >= '1' && r <= '6' && e.opts.Settings.ToneScheme == ToneSchemeLongPress:
		e.input = append(e.input, r)
	default:
		return e.compositionLocked(), fmt.Errorf("rime: %q is not a code rune", r)
	}

	return e.compositionLocked(), nil
}

// Tone schemes. Values match config.ToneScheme*.
const (
	ToneSchemeLongPress = "longpress"
	ToneSchemeVXQ       = "vxq"
)

// vxqTones maps the three tone keys to their low/high tone digits.
var vxqTones = map[rune][2]rune{
	'v': {'1', '4'},
	'x': {'2', '5'},
	'q': {'3', '6'},
}

// normalizeToneKey translates v/x/q into tone digits under the vxq
// scheme. Pressing the same tone key twice toggles to the paired tone.
func (e *Engine) normalizeToneKey(r rune) rune {
	if e.opts.Settings.ToneScheme != ToneSchemeVXQ {
		return r
	}
	tones, ok := vxqTones[r]
	if !ok {
		return r
	}
	if n := len(e.input); n > 0 && e.input[n-1] == tones[0] {
		e.input = e.input[:n-1]
		return tones[1]
	}
	return tones[0]
}

// DeleteBackward removes the last code rune.
func (e *Engine) DeleteBackward() (Composition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.input) > 0 {
		e.input = e.input[:len(e.input)-1]
	}
	return e.compositionLocked(), nil
}

// Composition returns the current input state.
func (e *Engine) Composition() Composition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.compositionLocked()
}

func (e *Engine) compositionLocked() Composition {
	comp := Composition{Input: string(e.input)}
	if len(e.input) == 0 || e.store == nil {
		return comp
	}

	cands, err := e.store.Lookup(comp.Input, e.opts.CandidateLimit)
	if err != nil {
		e.log.Error("candidate lookup failed", "input", comp.Input, "error", err)
		return comp
	}
	comp.Candidates = cands

	if e.opts.Metrics != nil {
		e.opts.Metrics.CandidateCount.Set(int64(len(cands)))
	}
	return comp
}

// CommitCandidate commits the i-th candidate of the current composition,
// records its use for ranking, clears the composition and returns the
// committed text.
func (e *Engine) CommitCandidate(i int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	comp := e.compositionLocked()
	if len(comp.Candidates) == 0 {
		return "", ErrNoComposition
	}
	if i < 0 || i >= len(comp.Candidates) {
		return "", fmt.Errorf("rime: candidate %d out of range", i)
	}

	cand := comp.Candidates[i]
	if err := e.store.RecordUse(cand.Code, cand.Phrase); err != nil {
		e.log.Warn("user frequency not recorded", "error", err)
	}

	e.input = e.input[:0]
	if e.opts.Metrics != nil {
		e.opts.Metrics.KeysCommitted.Inc()
	}
	return cand.Phrase, nil
}

// CommitRaw commits the raw code buffer as-is (the user chose the literal
// input over any candidate), clears the composition and returns it.
func (e *Engine) CommitRaw() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.input) == 0 {
		return "", ErrNoComposition
	}
	text := string(e.input)
	e.input = e.input[:0]
	if e.opts.Metrics != nil {
		e.opts.Metrics.KeysCommitted.Inc()
	}
	return text, nil
}

// Reset discards the current composition.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input = e.input[:0]
}

// ApplySettings regenerates the config patches for new settings and
// applies them to the running engine. Used by the settings watcher.
func (e *Engine) ApplySettings(s Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Settings = s
	for _, werr := range writePatches(e.opts.UserDataDir, s) {
		e.log.Warn("config patch not written", "error", werr)
		if e.opts.Metrics != nil {
			e.opts.Metrics.PatchWriteFailures.Inc()
		}
	}
	e.input = e.input[:0]
}
