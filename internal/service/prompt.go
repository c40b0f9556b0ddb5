package service

import "strings"

// BuildPrompt embeds the full document text and the question in the fixed
// answering template.
func BuildPrompt(documentText, question string) string {
	var sb strings.Builder
	sb.Grow(len(documentText) + len(question) + 128)

	sb.WriteString("Use this document content to answer. If answer isn't in document, say so.\n")
	sb.WriteString("\n")
	sb.WriteString("DOCUMENT:\n")
	sb.WriteString(documentText)
	sb.WriteString("\n\n")
	sb.WriteString("QUESTION: ")
	sb.WriteString(question)
	sb.WriteString("\n")
	sb.WriteString("ANSWER:")
	return sb.String()
}
