package service

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("The sky is blue.", "What color is the sky?")
	want := "Use this document content to answer. If answer isn't in document, say so.\n\n" +
		"DOCUMENT:\nThe sky is blue.\n\n" +
		"QUESTION: What color is the sky?\nANSWER:"
	if got != want {
		t.Fatalf("unexpected prompt:\n%q\nwant:\n%q", got, want)
	}
}

func TestBuildPrompt_EmbedsWholeDocument(t *testing.T) {
	doc := "line one\nline two\n\nline four"
	got := BuildPrompt(doc, "q")
	if want := "DOCUMENT:\n" + doc + "\n\nQUESTION: q"; !strings.Contains(got, want) {
		t.Fatalf("prompt does not embed document verbatim: %q", got)
	}
}
