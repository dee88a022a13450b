package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenizer_Terms(t *testing.T) {
	tok := NewTokenizer()

	got := tok.Terms("What is the capital of France?")
	want := []string{"capital", "france"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenizer_StopwordRemoval(t *testing.T) {
	tok := NewTokenizer()

	for _, term := range tok.Terms("the quick brown fox") {
		if term == "the" {
			t.Errorf("stopword 'the' should be removed")
		}
	}
}

func TestTokenizer_ShortWordRemoval(t *testing.T) {
	tok := NewTokenizer()

	terms := tok.Terms("a I x go")
	if len(terms) != 1 || terms[0] != "go" {
		t.Errorf("expected [go], got %v", terms)
	}
}

func TestTokenizer_RepeatsKept(t *testing.T) {
	tok := NewTokenizer()

	terms := tok.Terms("paris, Paris; PARIS")
	if len(terms) != 3 {
		t.Errorf("expected 3 terms, got %v", terms)
	}
	for _, term := range terms {
		if term != "paris" {
			t.Errorf("expected lower-case 'paris', got %q", term)
		}
	}
}

func TestTokenizer_ExtraStopwords(t *testing.T) {
	tok := NewTokenizer("Please")

	terms := tok.Terms("please summarise the report")
	want := []string{"summarise", "report"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("expected %v, got %v", want, terms)
	}
}

func TestTokenizer_Unicode(t *testing.T) {
	tok := NewTokenizer()

	terms := tok.Terms("Zürich über_alles 42")
	want := []string{"zürich", "über", "alles", "42"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("expected %v, got %v", want, terms)
	}
}
