package workflow

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/specforge/specforge/internal/config"
)

// taskCountMarker is the literal substring counted to derive the task
// total reported at the approval gate.
const taskCountMarker = "- [ ] T"

var (
	// taskLineRe matches a checkbox line carrying a task ID:
	// optional indentation, "- [ ]" (or checked), "T" + digits, rest.
	taskLineRe = regexp.MustCompile(`^\s*-\s*\[[ xX]\]\s*(T\d+)\s*(.*)$`)
	parallelRe = regexp.MustCompile(`\[P\]`)
	storyRe    = regexp.MustCompile(`\[(US\d+)\]`)
	backtickRe = regexp.MustCompile("`([^`]+)`")
	// slashPathRe finds slash-delimited path-like tokens in unquoted text.
	slashPathRe = regexp.MustCompile(`[\w~.-]+(?:/[\w~.-]+)+/?`)
)

// CountUncheckedTasks returns the number of unchecked task markers in a
// task list document. This is a literal substring count, matching what
// the approval gate reports.
func CountUncheckedTasks(tasks string) int {
	return strings.Count(tasks, taskCountMarker)
}

// Parser extracts addressable TaskItems from a generated task list.
//
// File paths are resolved in two tiers: backtick-quoted spans are
// preferred, then regex heuristics over the unquoted text recover paths
// from lines that skipped the quoting convention. Lines without a
// resolvable file path are dropped.
type Parser struct {
	bareFileRe *regexp.Regexp
}

// NewParser creates a Parser. extensions is the allow-list for the bare
// filename heuristic; nil or empty falls back to the default list.
func NewParser(extensions []string) *Parser {
	if len(extensions) == 0 {
		extensions = config.DefaultExtensions()
	}
	alts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		alts = append(alts, regexp.QuoteMeta(strings.TrimPrefix(ext, ".")))
	}
	return &Parser{
		bareFileRe: regexp.MustCompile(`\b[\w.-]+\.(?:` + strings.Join(alts, "|") + `)\b`),
	}
}

// Parse converts a task list document into an ordered sequence of
// TaskItems. Ordering follows the order of appearance in the text; a
// duplicated task ID keeps its first occurrence only.
func (p *Parser) Parse(tasks string) []TaskItem {
	var items []TaskItem
	seen := make(map[string]bool)

	for _, line := range strings.Split(tasks, "\n") {
		m := taskLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id := m[1]
		if seen[id] {
			continue
		}
		desc := strings.TrimSpace(m[2])

		path := p.resolveFilePath(desc)
		if path == "" {
			// Lines describing non-file work carry no addressable unit.
			continue
		}

		item := TaskItem{
			ID:          id,
			Description: desc,
			FilePath:    path,
			ContentKind: kindForPath(path),
			Parallel:    parallelRe.MatchString(desc),
		}
		if sm := storyRe.FindStringSubmatch(desc); sm != nil {
			item.Story = sm[1]
		}

		seen[id] = true
		items = append(items, item)
	}
	return items
}

// resolveFilePath picks the target file for a task line. Backtick spans
// win; otherwise the slash-path and bare-filename heuristics run over
// the unquoted text. The last candidate on the line is authoritative,
// which resolves phrasing like "create X in `path`".
func (p *Parser) resolveFilePath(desc string) string {
	var last string
	for _, m := range backtickRe.FindAllStringSubmatch(desc, -1) {
		if c := cleanCandidate(m[1]); c != "" {
			last = c
		}
	}
	if last != "" {
		return last
	}

	// Rightmost candidate wins; on a shared end the longer match wins,
	// so a bare filename never shadows the slash path containing it.
	unquoted := backtickRe.ReplaceAllString(desc, " ")
	lastStart, lastEnd := -1, -1
	for _, re := range []*regexp.Regexp{slashPathRe, p.bareFileRe} {
		for _, loc := range re.FindAllStringIndex(unquoted, -1) {
			c := cleanCandidate(unquoted[loc[0]:loc[1]])
			if c == "" {
				continue
			}
			if loc[1] > lastEnd || (loc[1] == lastEnd && loc[0] < lastStart) {
				lastStart, lastEnd = loc[0], loc[1]
				last = c
			}
		}
	}
	return last
}

// cleanCandidate trims trailing punctuation and rejects candidates that
// do not look like a file reference: the final path segment must contain
// a dot and the candidate must not end in a slash.
func cleanCandidate(c string) string {
	c = strings.TrimSpace(c)
	c = strings.TrimRight(c, ".,;:")
	if c == "" || strings.HasSuffix(c, "/") {
		return ""
	}
	final := c
	if idx := strings.LastIndex(c, "/"); idx >= 0 {
		final = c[idx+1:]
	}
	if !strings.Contains(final, ".") {
		return ""
	}
	return c
}

var kindByExt = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".rs":    "rust",
	".java":  "java",
	".rb":    "ruby",
	".sql":   "sql",
	".sh":    "shell",
	".md":    "markdown",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".html":  "html",
	".css":   "css",
	".proto": "protobuf",
}

// kindForPath infers a content kind from the file extension; unknown
// extensions yield an empty kind.
func kindForPath(path string) string {
	return kindByExt[strings.ToLower(filepath.Ext(path))]
}
