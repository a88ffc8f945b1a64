// Package answer composes prompts from retrieved context and generates answers.
package answer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/kotae/internal/models"
)

// BuildPrompt assembles the generation prompt: instruction preamble, context
// chunks highest-score-first within maxContextChars, prior conversation
// turns, and the question. The preamble comes from configuration
// (retrieval.system_prompt or the SYSTEM_PROMPT environment variable).
// chunks must already be ordered by descending score; lower-scored chunks
// are dropped first when the budget is tight.
func BuildPrompt(preamble, question string, chunks []models.ScoredChunk, history []models.ChatEntry, maxContextChars int) string {
	var b strings.Builder
	if preamble != "" {
		b.WriteString(preamble)
		b.WriteString("\n\n")
	}
	b.WriteString("Context:\n")
	b.WriteString(contextBlock(chunks, maxContextChars))

	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, entry := range history {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", entry.Question, entry.Answer)
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// contextBlock concatenates chunk texts until the character budget runs out.
// A chunk that does not fit whole is dropped rather than cut mid-sentence.
func contextBlock(chunks []models.ScoredChunk, maxContextChars int) string {
	if len(chunks) == 0 {
		return "(no relevant documents found)\n"
	}
	var b strings.Builder
	used := 0
	for _, ch := range chunks {
		section := fmt.Sprintf("[%s %s]\n%s\n\n", ch.Source, ch.Locator, ch.Text)
		if ch.Locator == "" {
			section = fmt.Sprintf("[%s]\n%s\n\n", ch.Source, ch.Text)
		}
		// The budget is in characters, same unit as the chunker.
		n := utf8.RuneCountInString(section)
		if maxContextChars > 0 && used+n > maxContextChars {
			break
		}
		b.WriteString(section)
		used += n
	}
	if b.Len() == 0 {
		return "(no relevant documents found)\n"
	}
	return b.String()
}
