package email

import (
	"net/url"
	"strings"
	"testing"
)

func TestEncodeComponentMatchesBrowserEscaping(t *testing.T) {
	cases := map[string]string{
		"Hi John,\n\nBest":    "Hi%20John%2C%0A%0ABest",
		"I'm (here)!":         "I'm%20(here)!",
		"AI/ML & web=1+1":     "AI%2FML%20%26%20web%3D1%2B1",
		"[Your message here]": "%5BYour%20message%20here%5D",
		"":                    "",
	}
	for in, want := range cases {
		if got := EncodeComponent(in); got != want {
			t.Fatalf("EncodeComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMailtoJobTemplateRoundTrips(t *testing.T) {
	tmpl, ok := Lookup(KindJob)
	if !ok {
		t.Fatal("job template missing")
	}

	uri := Mailto("johnandreicabili@gmail.com", tmpl)
	if !strings.HasPrefix(uri, "mailto:johnandreicabili@gmail.com?subject=") {
		t.Fatalf("unexpected mailto prefix: %s", uri)
	}
	if strings.Contains(uri, " ") || strings.Contains(uri, "\n") {
		t.Fatalf("mailto must not contain raw whitespace: %q", uri)
	}
	if !strings.Contains(uri, "%0A%0A") {
		t.Fatalf("expected encoded newlines in %s", uri)
	}

	query := uri[strings.Index(uri, "?")+1:]
	values, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if values.Get("subject") != tmpl.Subject {
		t.Fatalf("subject mismatch: %q", values.Get("subject"))
	}
	if values.Get("body") != tmpl.Body {
		t.Fatalf("body mismatch: %q", values.Get("body"))
	}
}

func TestEveryKindHasTemplate(t *testing.T) {
	for _, kind := range Kinds() {
		tmpl, ok := Lookup(kind)
		if !ok {
			t.Fatalf("missing template for %s", kind)
		}
		if kind != KindBlank && !strings.Contains(tmpl.Body, "[") {
			t.Fatalf("template %s lacks a placeholder section", kind)
		}
	}

	blank, _ := Lookup(KindBlank)
	if got := Mailto("a@b.c", blank); got != "mailto:a@b.c?subject=&body=" {
		t.Fatalf("unexpected blank mailto: %s", got)
	}
}
