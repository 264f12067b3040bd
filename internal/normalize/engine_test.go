package normalize

import (
	"errors"
	"testing"
)

// TestNormalizeBasicPhrases checks high-priority idiomatic phrase rules.
func TestNormalizeBasicPhrases(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"I na know", "I do not know"},
		{"I now know", "I don't know"},
		{"I na there", "I am not there"},
		{"I alright", "I am okay"},
	}

	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestNormalizeShortTokens checks low-priority single-token rules.
func TestNormalizeShortTokens(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"da one", "That one"},
		{"dis one", "This one"},
		{"wat time", "What time"},
		{"wetin happen", "What happen"},
	}

	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestNormalizeWordBoundaries ensures tokens never match inside other words.
func TestNormalizeWordBoundaries(t *testing.T) {
	if got := Text("koala"); got != "Koala" {
		t.Fatalf("Text(koala) = %q, want Koala", got)
	}
	if got := Text("people"); got != "People" {
		t.Fatalf("Text(people) = %q, want People", got)
	}
}

// TestNormalizeReportAndConfidence checks the per-rule firing report.
func TestNormalizeReportAndConfidence(t *testing.T) {
	engine := DefaultEngine()
	out, confidence, report := engine.Normalize("I na know")
	if out != "I do not know" {
		t.Fatalf("normalized = %q, want %q", out, "I do not know")
	}
	if confidence <= 0 {
		t.Fatalf("confidence = %v, want > 0", confidence)
	}
	if len(report) != len(KolokwaPatterns) {
		t.Fatalf("report entries = %d, want %d", len(report), len(KolokwaPatterns))
	}

	found := false
	for _, entry := range report {
		if entry.Replacement == "I do not know" {
			found = true
			if entry.Confidence != 1 {
				t.Fatalf("phrase rule confidence = %d, want 1", entry.Confidence)
			}
		}
	}
	if !found {
		t.Fatal("missing report entry for the I na know rule")
	}
}

// TestNormalizePriorityOrder checks descending priority across the report.
func TestNormalizePriorityOrder(t *testing.T) {
	_, _, report := DefaultEngine().Normalize("anything")
	for i := 1; i < len(report); i++ {
		if report[i].Priority > report[i-1].Priority {
			t.Fatalf("report[%d].Priority = %d > report[%d].Priority = %d", i, report[i].Priority, i-1, report[i-1].Priority)
		}
	}
}

// TestNormalizeIdempotent checks already-normalized text stays unchanged.
func TestNormalizeIdempotent(t *testing.T) {
	once := Text("I na know wetin da one mean")
	twice := Text(once)
	if once != twice {
		t.Fatalf("second pass changed text: %q -> %q", once, twice)
	}
}

// TestNormalizeEmptyInput checks empty text and empty rule sets.
func TestNormalizeEmptyInput(t *testing.T) {
	engine, err := NewEngine(nil)
	if err != nil {
		t.Fatalf("NewEngine(nil) error = %v", err)
	}

	out, confidence, report := engine.Normalize("")
	if out != "" {
		t.Fatalf("normalized = %q, want empty", out)
	}
	if confidence != 0 {
		t.Fatalf("confidence = %v, want 0", confidence)
	}
	if len(report) != 0 {
		t.Fatalf("report entries = %d, want 0", len(report))
	}
}

// TestNormalizeSentenceCase checks first-character upper-casing only.
func TestNormalizeSentenceCase(t *testing.T) {
	engine, err := NewEngine(nil)
	if err != nil {
		t.Fatalf("NewEngine(nil) error = %v", err)
	}

	out, _, _ := engine.Normalize("hello there friend")
	if out != "Hello there friend" {
		t.Fatalf("normalized = %q, want %q", out, "Hello there friend")
	}
}

// TestNewEngineRejectsMalformedPattern checks fail-fast rule validation.
func TestNewEngineRejectsMalformedPattern(t *testing.T) {
	_, err := NewEngine([]Rule{
		{Patterns: []string{`\b(unclosed`}, Replacement: "x", Priority: 1},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var ruleErr *InvalidRuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("error type = %T, want *InvalidRuleError", err)
	}
	if ruleErr.Pattern != `\b(unclosed` {
		t.Fatalf("pattern = %q", ruleErr.Pattern)
	}
}

// TestNormalizeSequentialSubstitution checks later rules see earlier output.
func TestNormalizeSequentialSubstitution(t *testing.T) {
	engine, err := NewEngine([]Rule{
		{Patterns: []string{`\bda one\b`}, Replacement: "that one", Priority: 2},
		{Patterns: []string{`\bda\b`}, Replacement: "that", Priority: 1},
	})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	out, confidence, _ := engine.Normalize("da one and da other")
	if out != "That one and that other" {
		t.Fatalf("normalized = %q, want %q", out, "That one and that other")
	}
	if confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", confidence)
	}
}
