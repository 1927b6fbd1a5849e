package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatResponseJSON(t *testing.T) {
	resp := &AnalyzeResponseCLI{
		Rule:     "@typescript-eslint/no-explicit-any",
		Profile:  "balanced",
		Warnings: 42,
		Files:    7,
		Replace:  30,
		Document: 10,
		Preserve: 2,
	}

	output, err := FormatResponse(resp, FormatJSON)
	if err != nil {
		t.Fatalf("FormatResponse: %v", err)
	}

	var decoded AnalyzeResponseCLI
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	if decoded.Warnings != 42 || decoded.Replace != 30 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestFormatResponseHuman(t *testing.T) {
	resp := &RunResponseCLI{
		RunID:          "run-xyz",
		Profile:        "conservative",
		WarningsBefore: 100,
		WarningsAfter:  60,
		ReductionPct:   40,
		FilesProcessed: 5,
		Replacements:   20,
		Rollbacks:      1,
	}

	output, err := FormatResponse(resp, FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse: %v", err)
	}
	for _, want := range []string{"run-xyz", "conservative", "100 -> 60", "40.0% reduction", "rollbacks:  1"} {
		if !strings.Contains(output, want) {
			t.Errorf("human output missing %q:\n%s", want, output)
		}
	}
}

func TestFormatResponseUnknownTypeFallsBackToJSON(t *testing.T) {
	output, err := FormatResponse(map[string]int{"a": 1}, FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse: %v", err)
	}
	if !strings.Contains(output, `"a": 1`) {
		t.Errorf("fallback output = %q", output)
	}
}

func TestFormatResponseRejectsUnknownFormat(t *testing.T) {
	if _, err := FormatResponse(&AnalyzeResponseCLI{}, OutputFormat("xml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}
