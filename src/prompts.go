package src

import (
	"fmt"
	"strings"
)

// CoderSystemPrompt frames every model conversation. Both backends install
// it as the system message so replies stay terse and fence-disciplined.
const CoderSystemPrompt = `You are Mega Coder, an expert python developer.
You write complete, runnable programs. When asked for code you reply with
exactly ONE fenced code block and nothing else outside it.`

// BuildGeneratePrompt asks for a fresh program from a natural-language
// description. The constraints keep the result runnable inside the sandbox:
// no stdin, no argv, and asserts so a broken program fails loudly.
func BuildGeneratePrompt(request string) string {
	var b strings.Builder
	b.WriteString("Write a complete python program for the following request:\n\n")
	b.WriteString(strings.TrimSpace(request))
	b.WriteString("\n\nRules:\n")
	b.WriteString("- The program must run as-is with no user input: never call input() and never read sys.argv.\n")
	b.WriteString("- Hard-code example data where the task needs data.\n")
	b.WriteString("- Use assert statements to verify the results so a wrong answer crashes the program.\n")
	b.WriteString("- Print a short summary of what was computed.\n")
	b.WriteString("- Reply with exactly ONE fenced ```python code block and nothing else.\n")
	return b.String()
}

// BuildFixPrompt feeds a failing candidate and its stderr back to the model
// and asks for a full replacement program.
func BuildFixPrompt(code, stderr string) string {
	var b strings.Builder
	b.WriteString("The following python program failed when executed.\n\n")
	b.WriteString("--- CODE START ---\n")
	b.WriteString(code)
	b.WriteString("\n--- CODE END ---\n\n")
	b.WriteString("Error message:\n")
	b.WriteString(stderr)
	b.WriteString("\n\nFix the program. Keep the same behavior, keep the rules (no input(), no sys.argv, keep the asserts), and reply with the COMPLETE corrected program in exactly ONE fenced ```python code block.\n")
	return b.String()
}

// BuildOptimizePrompt asks for a faster rewrite of a working program.
func BuildOptimizePrompt(code string) string {
	var b strings.Builder
	b.WriteString("The following python program works but may be slow.\n\n")
	b.WriteString("--- CODE START ---\n")
	b.WriteString(code)
	b.WriteString("\n--- CODE END ---\n\n")
	b.WriteString("Rewrite it to run faster without changing its observable behavior. Keep the asserts and the printed summary. Reply with the COMPLETE optimized program in exactly ONE fenced ```python code block.\n")
	return b.String()
}

// BuildLintFixPrompt asks the model to clear static-analysis findings
// without touching behavior.
func BuildLintFixPrompt(code string, findings []string) string {
	var b strings.Builder
	b.WriteString("A static analyzer reported the following issues in this python program:\n\n")
	for _, f := range findings {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	b.WriteString("\n--- CODE START ---\n")
	b.WriteString(code)
	b.WriteString("\n--- CODE END ---\n\n")
	b.WriteString("Fix the reported issues without changing the program's behavior. Reply with the COMPLETE program in exactly ONE fenced ```python code block.\n")
	return b.String()
}

// BuildDocPrompt asks for markdown developer documentation of the final
// program. The reply is saved verbatim, so the model is told to answer in
// plain markdown rather than a fenced block.
func BuildDocPrompt(code string) string {
	var b strings.Builder
	b.WriteString("Document the following python program for another developer.\n\n")
	b.WriteString("--- CODE START ---\n")
	b.WriteString(code)
	b.WriteString("\n--- CODE END ---\n\n")
	b.WriteString("Describe what it does, how it works and how to run it. Answer in plain markdown, no fenced code blocks around the whole answer.\n")
	return b.String()
}

// BuildRepoPrompt pairs a repository digest with the user's question.
func BuildRepoPrompt(digest, question string) string {
	var b strings.Builder
	b.WriteString("You are looking at a digest of a code repository.\n\n")
	b.WriteString("--- REPOSITORY DIGEST START ---\n")
	b.WriteString(digest)
	b.WriteString("\n--- REPOSITORY DIGEST END ---\n\n")
	b.WriteString("Question: ")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nAnswer the question. If the answer proposes code changes, put each changed file in its own fenced code block.\n")
	return b.String()
}

// BuildScreenTipPrompt turns one OCR capture into a request for a single
// short coding tip.
func BuildScreenTipPrompt(ocrText string) string {
	var b strings.Builder
	b.WriteString("Below is OCR text captured from a developer's screen. They are coding right now.\n\n")
	b.WriteString("--- SCREEN TEXT START ---\n")
	b.WriteString(ocrText)
	b.WriteString("\n--- SCREEN TEXT END ---\n\n")
	b.WriteString("Give ONE short, concrete tip about what is on screen (a bug, a simplification, a relevant idiom). Two sentences maximum. If the text is not code or nothing useful can be said, reply with exactly: SKIP.\n")
	return b.String()
}
