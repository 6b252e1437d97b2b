// softboardctl is the control CLI for softboard: it bootstraps config and
// data directories, checks dictionary manifests, and validates keyboard
// definitions.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"softboard/internal/config"
	"softboard/internal/dict"
	"softboard/internal/keyset"
	"softboard/internal/rime"
)

var (
	configPath = flag.String("config", "", "path to config file")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)

	switch cmd {
	case "init-config":
		cmdInitConfig()
	case "init-data":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: softboardctl init-data <dir> [dict.tsv]")
			os.Exit(1)
		}
		tsv := ""
		if flag.NArg() >= 3 {
			tsv = flag.Arg(2)
		}
		cmdInitData(flag.Arg(1), tsv)
	case "checksum":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: softboardctl checksum <dir>")
			os.Exit(1)
		}
		cmdChecksum(flag.Arg(1))
	case "validate":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: softboardctl validate <keyboard.json>")
			os.Exit(1)
		}
		cmdValidate(flag.Arg(1))
	case "layouts":
		cmdLayouts()
	case "lookup":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: softboardctl lookup <code>")
			os.Exit(1)
		}
		cmdLookup(flag.Arg(1))
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `softboardctl - Control utility for softboard

Usage: softboardctl [options] <command> [args]

Commands:
  init-config             Write a default config file
  init-data <dir> [tsv]   Build a data directory: schema, dictionary, manifest
  checksum <dir>          Regenerate the dictionary manifest
  validate <file>         Validate a keyboard definition document
  layouts                 List built-in keyboard definitions
  lookup <code>           Query the configured dictionary
  help                    Show this help message

Options:
  -config <path>  Path to config file (default: platform config dir)`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func resolvedConfigPath() string {
	if *configPath != "" {
		return *configPath
	}
	return config.DefaultPath()
}

func loadConfig() *config.Config {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		fatal("loading config: %v", err)
	}
	return cfg
}

func cmdInitConfig() {
	path := resolvedConfigPath()
	if _, err := os.Stat(path); err == nil {
		fatal("config already exists: %s", path)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(path); err != nil {
		fatal("writing config: %v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

// starterEntries is a minimal seed dictionary so a fresh install can type
// something before a real dictionary is imported.
var starterEntries = []dict.Entry{
	{Code: "ngo5", Phrase: "我", Weight: 100},
	{Code: "nei5", Phrase: "你", Weight: 100},
	{Code: "keoi5", Phrase: "佢", Weight: 95},
	{Code: "hou2", Phrase: "好", Weight: 95},
	{Code: "m4", Phrase: "唔", Weight: 90},
	{Code: "hai6", Phrase: "係", Weight: 90},
	{Code: "dei6", Phrase: "地", Weight: 60},
	{Code: "ngo5dei6", Phrase: "我哋", Weight: 85},
	{Code: "nei5dei6", Phrase: "你哋", Weight: 80},
	{Code: "sik6", Phrase: "食", Weight: 75},
	{Code: "faan6", Phrase: "飯", Weight: 70},
	{Code: "zou2san4", Phrase: "早晨", Weight: 70},
}

const starterSchema = `schema:
  id: jyut6ping3
  name: Jyutping
tone_input:
  scheme: longpress
corrector:
  enabled: false
`

func cmdInitData(dir, tsvPath string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fatal("creating data dir: %v", err)
	}

	schemaPath := filepath.Join(dir, rime.SchemaFile)
	if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
		if err := os.WriteFile(schemaPath, []byte(starterSchema), 0o644); err != nil {
			fatal("writing schema: %v", err)
		}
		fmt.Printf("Wrote %s\n", schemaPath)
	}

	entries := starterEntries
	if tsvPath != "" {
		var err error
		entries, err = readTSV(tsvPath)
		if err != nil {
			fatal("reading %s: %v", tsvPath, err)
		}
	}

	dictPath := filepath.Join(dir, rime.DictFile)
	store, err := dict.Open(dictPath)
	if err != nil {
		fatal("opening dictionary: %v", err)
	}
	if err := store.Seed(entries); err != nil {
		store.Close()
		fatal("seeding dictionary: %v", err)
	}
	if err := store.Close(); err != nil {
		fatal("closing dictionary: %v", err)
	}
	fmt.Printf("Seeded %s with %d entries\n", dictPath, len(entries))

	writeManifest(dir)
}

// readTSV parses a dictionary source: one "code<TAB>phrase[<TAB>weight]"
// entry per line, '#' comments and blank lines skipped.
func readTSV(path string) ([]dict.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []dict.Entry
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want code<TAB>phrase[<TAB>weight]", line)
		}
		entry := dict.Entry{Code: fields[0], Phrase: fields[1]}
		if len(fields) >= 3 {
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: weight: %v", line, err)
			}
			entry.Weight = w
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func cmdChecksum(dir string) {
	writeManifest(dir)
}

func writeManifest(dir string) {
	dictPath := filepath.Join(dir, rime.DictFile)
	f, err := os.Open(dictPath)
	if err != nil {
		fatal("opening dictionary: %v", err)
	}
	defer f.Close()

	h, _ := blake2b.New256(nil)
	if _, err := io.Copy(h, f); err != nil {
		fatal("hashing dictionary: %v", err)
	}

	manifestPath := filepath.Join(dir, rime.ManifestFile)
	digest := hex.EncodeToString(h.Sum(nil)) + "\n"
	if err := os.WriteFile(manifestPath, []byte(digest), 0o644); err != nil {
		fatal("writing manifest: %v", err)
	}
	fmt.Printf("Wrote %s\n", manifestPath)
}

func cmdValidate(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("reading %s: %v", path, err)
	}

	kb, err := keyset.Parse(data)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("OK: %s (%s)\n", kb.Name, kb.Idiom)
	for _, plane := range kb.PlaneNames() {
		rows, _ := kb.Plane(plane)
		fmt.Printf("  plane %-10s %d rows\n", plane, len(rows))
	}
}

func cmdLayouts() {
	for _, name := range keyset.Names() {
		kb, err := keyset.Load(name)
		if err != nil {
			fmt.Printf("%-16s LOAD ERROR: %v\n", name, err)
			continue
		}
		fmt.Printf("%-16s %-7s planes: %s\n", name, kb.Idiom, strings.Join(kb.PlaneNames(), ", "))
	}
}

func cmdLookup(code string) {
	cfg := loadConfig()

	store, err := dict.Open(filepath.Join(cfg.Engine.DataDir, rime.DictFile))
	if err != nil {
		fatal("opening dictionary: %v", err)
	}
	defer store.Close()

	limit := cfg.Engine.CandidateLimit
	if limit < 1 {
		limit = 10
	}
	cands, err := store.Lookup(code, limit)
	if err != nil {
		fatal("lookup: %v", err)
	}
	if len(cands) == 0 {
		fmt.Println("No candidates.")
		return
	}
	for i, c := range cands {
		fmt.Printf("%2d. %s\t%s\t%.1f\n", i+1, c.Phrase, c.Code, c.Score)
	}
}
