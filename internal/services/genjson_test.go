package services

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSONPlain(t *testing.T) {
	raw, err := extractJSON(`{"title": "Lesson", "slides": []}`)
	if err != nil {
		t.Fatalf("extractJSON: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("output not valid JSON: %s", raw)
	}
}

func TestExtractJSONWrappedInProse(t *testing.T) {
	text := "Here is the lesson you asked for:\n\n{\"title\": \"Lesson\", \"slides\": [{\"type\": \"title\"}]}\n\nLet me know if you need changes."
	raw, err := extractJSON(text)
	if err != nil {
		t.Fatalf("extractJSON: %v", err)
	}
	var doc slideDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Title != "Lesson" || len(doc.Slides) != 1 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestExtractJSONRepairsTruncatedSlides(t *testing.T) {
	// Output cut off mid-slide: the last complete slide survives, the rest
	// is dropped.
	text := `{"title": "Lesson", "slides": [{"type": "title", "header": "A"}, {"type": "step", "header": "B"}, {"type": "scr`
	raw, err := extractJSON(text)
	if err != nil {
		t.Fatalf("extractJSON: %v", err)
	}
	var doc slideDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal repaired output: %v", err)
	}
	if len(doc.Slides) != 2 {
		t.Errorf("slides = %d, want 2", len(doc.Slides))
	}
	if doc.CompanionDoc == "" {
		t.Error("repaired document missing companion doc placeholder")
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	if _, err := extractJSON("sorry, I cannot help with that"); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestExtractJSONUnrepairable(t *testing.T) {
	// Truncated before any slide completes.
	if _, err := extractJSON(`{"title": "Lesson", "slides": [{"type": "ti`); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	// No slides array at all.
	if _, err := extractJSON(`{"title": "Lesson", "body": "truncat`); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}
