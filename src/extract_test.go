package src

import (
	"errors"
	"testing"
)

func TestExtractCodeFenced(t *testing.T) {
	input := "Sure, here you go:\n```python\nprint(\"hi\")\n```\nHope that helps!"
	got, err := ExtractCode(input)
	if err != nil {
		t.Fatalf("ExtractCode returned error: %v", err)
	}
	if got != `print("hi")` {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestExtractCodeNoFence(t *testing.T) {
	_, err := ExtractCode("print('hi') with no fence anywhere")
	if err == nil {
		t.Fatalf("expected error when no fence present")
	}
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
}

func TestExtractCodeFirstOfMultiple(t *testing.T) {
	input := "```python\nfirst = 1\n```\nand also\n```python\nsecond = 2\n```"
	got, err := ExtractCode(input)
	if err != nil {
		t.Fatalf("ExtractCode returned error: %v", err)
	}
	if got != "first = 1" {
		t.Fatalf("expected first block, got %q", got)
	}
}

func TestExtractCodeStripsPathComment(t *testing.T) {
	input := "```python\n# path: main.py\nx = 42\nprint(x)\n```"
	got, err := ExtractCode(input)
	if err != nil {
		t.Fatalf("ExtractCode returned error: %v", err)
	}
	if got != "x = 42\nprint(x)" {
		t.Fatalf("path comment not stripped: %q", got)
	}
}

func TestExtractCodeEmptyBlock(t *testing.T) {
	_, err := ExtractCode("```python\n   \n```")
	if err == nil {
		t.Fatalf("expected error for empty block")
	}
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
}

func TestExtractCodeUnlabeledFence(t *testing.T) {
	input := "```\nprint(1)\n```"
	got, err := ExtractCode(input)
	if err != nil {
		t.Fatalf("ExtractCode returned error: %v", err)
	}
	if got != "print(1)" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestExtractAllBlocks(t *testing.T) {
	input := "```python\na = 1\n```\ntext\n```python\nb = 2\n```"
	got := ExtractAllBlocks(input)
	if len(got) != 2 || got[0] != "a = 1" || got[1] != "b = 2" {
		t.Fatalf("unexpected blocks: %#v", got)
	}
}
