package extract

import (
	"strings"
	"testing"
)

func TestFromHTML_KeepsWholeBody(t *testing.T) {
	input := []byte(`<html><head><title>Security  Policy</title><style>.x{}</style></head>
<body>
<nav>Products</nav>
<main><p>Report a vulnerability to us.</p></main>
<footer><a href="/vdp">Responsible disclosure</a></footer>
<script>track();</script>
</body></html>`)

	doc := FromHTML(input)
	if doc.Title != "Security  Policy" {
		t.Fatalf("unexpected title: %q", doc.Title)
	}
	for _, want := range []string{"Products", "Report a vulnerability to us.", "Responsible disclosure"} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("text missing %q: %q", want, doc.Text)
		}
	}
	for _, bad := range []string{"track();", ".x{}"} {
		if strings.Contains(doc.Text, bad) {
			t.Errorf("text leaked %q: %q", bad, doc.Text)
		}
	}
}

func TestFromHTML_Malformed(t *testing.T) {
	doc := FromHTML([]byte("<div><p>unterminated"))
	if !strings.Contains(doc.Text, "unterminated") {
		t.Fatalf("lenient parse expected, got %q", doc.Text)
	}
}

func TestHasMetaClass(t *testing.T) {
	page := []byte(`<html><head>
<meta name="description" class="spec-external-unclaimed other" content="x">
</head><body></body></html>`)

	if !HasMetaClass(page, "description", "spec-external-unclaimed") {
		t.Fatal("expected meta class match")
	}
	if !HasMetaClass(page, "DESCRIPTION", "SPEC-EXTERNAL-UNCLAIMED") {
		t.Fatal("match must be case insensitive")
	}
	if HasMetaClass(page, "description", "unclaimed") {
		t.Fatal("partial class token must not match")
	}
	if HasMetaClass(page, "keywords", "spec-external-unclaimed") {
		t.Fatal("name must match too")
	}
}
