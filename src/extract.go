package src

import (
	"regexp"
	"strings"
)

var (
	fenceRe    = regexp.MustCompile("(?s)```([a-zA-Z0-9_+\\.-]*)\\s*\\n(.*?)\\n```")
	pathLineRe = regexp.MustCompile(`(?i)^\s*(?:\/\/|#|--|;|@|<!--)\s*path:?\s*([^\s>]+)`)
)

// ExtractCode pulls the first fenced code block out of a model response and
// returns its body as executable source. It is purely textual: no parsing or
// execution of the extracted text happens here. A response with no fenced
// block yields an *ExtractionError rather than a truncated guess.
func ExtractCode(raw string) (string, error) {
	m := fenceRe.FindStringSubmatch(raw)
	if m == nil {
		return "", &ExtractionError{Reason: "no fenced code block in response"}
	}

	body := m[2]

	// Models sometimes echo the file-path comment convention back; the
	// sandbox writes its own file, so the hint is dropped.
	lines := strings.SplitN(body, "\n", 2)
	if pathLineRe.MatchString(lines[0]) && len(lines) == 2 {
		body = lines[1]
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return "", &ExtractionError{Reason: "fenced block was empty"}
	}
	return body, nil
}

// ExtractAllBlocks returns every fenced block body in order. Used by the
// repo flow, where a modification answer may carry several files.
func ExtractAllBlocks(raw string) []string {
	var out []string
	for _, m := range fenceRe.FindAllStringSubmatch(raw, -1) {
		body := strings.TrimSpace(m[2])
		if body != "" {
			out = append(out, body)
		}
	}
	return out
}
