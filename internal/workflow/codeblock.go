package workflow

import "strings"

const fenceToken = "```"

// ExtractCodeBlocks scans generated text for fenced code blocks. The
// language tag is whatever follows the opening fence. A file association
// is taken from the line immediately preceding the fence when that line
// is a "File:" or "**File**:" annotation; no deeper lookback. An opening
// fence with no matching close before end of input yields an empty body.
func ExtractCodeBlocks(text string) []CodeBlock {
	lines := strings.Split(text, "\n")
	var blocks []CodeBlock

	for i := 0; i < len(lines); i++ {
		stripped := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(stripped, fenceToken) {
			continue
		}

		block := CodeBlock{
			Language: strings.TrimSpace(strings.TrimPrefix(stripped, fenceToken)),
		}
		if i > 0 {
			block.FilePath = fileAnnotation(lines[i-1])
		}

		j := i + 1
		for j < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[j]), fenceToken) {
			j++
		}
		if j < len(lines) {
			block.Body = strings.Join(lines[i+1:j], "\n")
		}

		blocks = append(blocks, block)
		i = j
	}
	return blocks
}

// fileAnnotation parses a "File: path" or "**File**: path" line. The key
// is matched case-insensitively; anything after the first colon is the
// path.
func fileAnnotation(line string) string {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)
	for _, prefix := range []string{"**file**:", "file:"} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(trimmed[len(prefix):])
		}
	}
	return ""
}
