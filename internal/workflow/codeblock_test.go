package workflow

import "testing"

func TestExtractSingleBlock(t *testing.T) {
	text := "Some intro\n\nFile: src/main.py\n```python\nprint('hi')\n```\n"

	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Language != "python" {
		t.Errorf("expected language python, got %q", blocks[0].Language)
	}
	if blocks[0].FilePath != "src/main.py" {
		t.Errorf("expected file src/main.py, got %q", blocks[0].FilePath)
	}
	if blocks[0].Body != "print('hi')" {
		t.Errorf("unexpected body: %q", blocks[0].Body)
	}
}

func TestExtractBoldFileAnnotation(t *testing.T) {
	text := "**File**: cmd/root.go\n```go\npackage cmd\n```"

	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].FilePath != "cmd/root.go" {
		t.Errorf("expected cmd/root.go, got %q", blocks[0].FilePath)
	}
}

func TestExtractAnnotationCaseInsensitive(t *testing.T) {
	text := "file: a.go\n```go\nx\n```"

	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 1 || blocks[0].FilePath != "a.go" {
		t.Fatalf("expected lowercase annotation to match, got %+v", blocks)
	}
}

func TestExtractNoAnnotation(t *testing.T) {
	text := "Here is the code:\n```python\nx = 1\n```"

	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].FilePath != "" {
		t.Errorf("expected no file association, got %q", blocks[0].FilePath)
	}
	if blocks[0].Language != "python" {
		t.Errorf("expected declared kind python, got %q", blocks[0].Language)
	}
}

func TestExtractAnnotationOnlyImmediatelyPreceding(t *testing.T) {
	text := "File: far.go\n\n```go\nx\n```"

	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].FilePath != "" {
		t.Errorf("expected no lookback past one line, got %q", blocks[0].FilePath)
	}
}

func TestExtractPreservesBlankLines(t *testing.T) {
	text := "```go\nline1\n\n\nline4\n```"

	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Body != "line1\n\n\nline4" {
		t.Errorf("expected blank lines preserved, got %q", blocks[0].Body)
	}
}

func TestExtractUnterminatedFence(t *testing.T) {
	text := "```go\nfunc main() {\nno closing fence"

	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Body != "" {
		t.Errorf("expected empty body for unterminated fence, got %q", blocks[0].Body)
	}
}

func TestExtractMultipleBlocksInOrder(t *testing.T) {
	text := "File: a.go\n```go\naaa\n```\nprose\nFile: b.py\n```python\nbbb\n```"

	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].FilePath != "a.go" || blocks[0].Body != "aaa" {
		t.Errorf("unexpected first block: %+v", blocks[0])
	}
	if blocks[1].FilePath != "b.py" || blocks[1].Body != "bbb" {
		t.Errorf("unexpected second block: %+v", blocks[1])
	}
}

func TestExtractEmptyLanguage(t *testing.T) {
	text := "```\nplain\n```"

	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Language != "" {
		t.Errorf("expected empty language, got %q", blocks[0].Language)
	}
}

func TestExtractIndentedFence(t *testing.T) {
	text := "  ```go\n  indented\n  ```"

	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 1 {
		t.Fatalf("expected indented fence recognized, got %d blocks", len(blocks))
	}
	if blocks[0].Body != "  indented" {
		t.Errorf("expected raw body line, got %q", blocks[0].Body)
	}
}

func TestExtractRoundTrip(t *testing.T) {
	body := "def f():\n    return 1\n\nprint(f())"
	serialized := "```python\n" + body + "\n```"

	first := ExtractCodeBlocks(serialized)
	if len(first) != 1 {
		t.Fatalf("expected 1 block, got %d", len(first))
	}
	second := ExtractCodeBlocks("```python\n" + first[0].Body + "\n```")
	if len(second) != 1 {
		t.Fatalf("expected 1 block on re-extraction, got %d", len(second))
	}
	if second[0].Body != body {
		t.Errorf("expected byte-identical body, got %q", second[0].Body)
	}
}
