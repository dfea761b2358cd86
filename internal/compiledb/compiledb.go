// Package compiledb parses the JSON Compilation Database and
// applies include/exclude glob filters over its entries.
package compiledb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// rawEntry mirrors one element of compile_commands.json on the wire.
type rawEntry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command"`
	Arguments []string `json:"arguments"`
}

// Entry is one resolved compilation-database entry: an absolute TU path
// and the compiler invocation used to parse it.
type Entry struct {
	Directory string
	File      string // absolute path
	Arguments []string
}

// Load reads and resolves a compile_commands.json file. Relative `file`
// paths are resolved against `directory`; `directory == "."` resolves
// against the current working directory.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compiledb: read %s: %w", path, err)
	}

	var raws []rawEntry
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("compiledb: parse %s: %w", path, err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("compiledb: getwd: %w", err)
	}

	entries := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		dir := raw.Directory
		if dir == "." || dir == "" {
			dir = cwd
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cwd, dir)
		}

		file := raw.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}

		args := raw.Arguments
		if len(args) == 0 && raw.Command != "" {
			args = splitCommand(raw.Command)
		}

		entries = append(entries, Entry{Directory: dir, File: file, Arguments: args})
	}

	return entries, nil
}

// splitCommand does a simple whitespace split of a shell-quoted command
// string. Quoted arguments containing spaces are not re-split.
func splitCommand(command string) []string {
	var args []string
	var cur strings.Builder
	inQuote := rune(0)
	for _, r := range command {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			inQuote = r
		case r == ' ' || r == '\t':
			if cur.Len() > 0 {
				args = append(args, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		args = append(args, cur.String())
	}
	return args
}

// Filters holds glob include/exclude patterns applied to each entry's
// resolved file path, matched with doublestar (`**`-aware).
type Filters struct {
	Include []string
	Exclude []string
}

// Apply returns the subset of entries that pass the include/exclude
// filters. An empty Include list includes everything; any Exclude match
// drops the entry regardless of Include.
func Apply(entries []Entry, f Filters) []Entry {
	if len(f.Include) == 0 && len(f.Exclude) == 0 {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if matchesAny(e.File, f.Exclude) {
			continue
		}
		if len(f.Include) > 0 && !matchesAny(e.File, f.Include) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.PathMatch(pattern, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
	}
	return false
}
