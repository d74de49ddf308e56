package analysis

import (
	"strings"
	"testing"

	"legaldoc-backend/internal/llm"
)

func TestRiskScoreDerivation(t *testing.T) {
	cases := []struct {
		name      string
		favorable int
		moderate  int
		critical  int
		want      int
	}{
		{"all empty is neutral", 0, 0, 0, 50},
		{"all favorable", 4, 0, 0, 100},
		{"all critical", 0, 0, 3, 0},
		{"all moderate", 0, 4, 0, 50},
		{"mixed", 1, 1, 2, 38},
		{"favorable and critical", 3, 0, 1, 75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := riskScore(tc.favorable, tc.moderate, tc.critical); got != tc.want {
				t.Fatalf("riskScore(%d,%d,%d) = %d, want %d", tc.favorable, tc.moderate, tc.critical, got, tc.want)
			}
		})
	}
}

func TestRiskScoreAlwaysInRange(t *testing.T) {
	for fav := 0; fav <= 10; fav++ {
		for mod := 0; mod <= 10; mod++ {
			for crit := 0; crit <= 10; crit++ {
				score := riskScore(fav, mod, crit)
				if score < 0 || score > 100 {
					t.Fatalf("riskScore(%d,%d,%d) = %d out of [0,100]", fav, mod, crit, score)
				}
			}
		}
	}
}

func TestNormalizeOverwritesModelRiskScore(t *testing.T) {
	raw := `{
		"documentType": "Lease Agreement",
		"summary": "A one-year residential lease.",
		"riskScore": 7,
		"riskAssessment": {
			"favorable": [{"type": "Deposit", "description": "Deposit returned in 14 days", "location": "Section 3"}],
			"moderate": [],
			"critical": [{"type": "Liability", "description": "Unlimited tenant liability", "location": "Section 9"}]
		}
	}`
	result := Normalize(raw, llm.Parties{}, "some source text", "test-model")
	if result.RiskScore != 50 {
		t.Fatalf("expected recomputed score 50, got %d", result.RiskScore)
	}
	if result.Metadata.Error != "" {
		t.Fatalf("expected clean metadata, got error %q", result.Metadata.Error)
	}
}

func TestNormalizeBackfillsMissingFields(t *testing.T) {
	raw := `{"summary": "Short consulting agreement."}`
	result := Normalize(raw, llm.Parties{}, "alpha beta gamma", "test-model")

	if result.VagueTerms == nil || result.KeyTerms == nil || result.LegalReferences == nil ||
		result.Recommendations == nil || result.RedFlags == nil {
		t.Fatal("expected all array fields to be backfilled, found nil")
	}
	if result.RiskAssessment.Favorable == nil || result.RiskAssessment.Moderate == nil || result.RiskAssessment.Critical == nil {
		t.Fatal("expected risk tiers to be backfilled, found nil")
	}
	if len(result.SuggestedQuestions) == 0 {
		t.Fatal("expected fallback suggested questions")
	}
	if result.Flowchart.Nodes == nil || result.Flowchart.Edges == nil {
		t.Fatal("expected flowchart lists to be backfilled, found nil")
	}
	if result.DocumentType != "Legal Document" {
		t.Fatalf("expected default document type, got %q", result.DocumentType)
	}
	if result.WordCount != 3 {
		t.Fatalf("expected word count from source text, got %d", result.WordCount)
	}
}

func TestNormalizeStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"summary\": \"Fenced output.\", \"documentType\": \"NDA\"}\n```"
	result := Normalize(raw, llm.Parties{}, "source", "test-model")
	if result.Metadata.Error != "" {
		t.Fatalf("expected fenced JSON to parse, got error %q", result.Metadata.Error)
	}
	if result.DocumentType != "NDA" {
		t.Fatalf("expected NDA, got %q", result.DocumentType)
	}
}

func TestNormalizeMalformedOutputDegrades(t *testing.T) {
	source := strings.Repeat("word ", 25)
	result := Normalize("this is not json at all", llm.Parties{}, source, "test-model")

	if result.Metadata.Error != "JSON parsing failed" {
		t.Fatalf("expected parse failure marker, got %q", result.Metadata.Error)
	}
	if len(result.RiskAssessment.Moderate) != 1 {
		t.Fatalf("expected exactly one moderate finding, got %d", len(result.RiskAssessment.Moderate))
	}
	if result.RiskAssessment.Moderate[0].Type != "Analysis Error" {
		t.Fatalf("expected Analysis Error finding, got %q", result.RiskAssessment.Moderate[0].Type)
	}
	if result.WordCount != 25 {
		t.Fatalf("expected word count 25 from source, got %d", result.WordCount)
	}
	if result.RiskScore != 50 {
		t.Fatalf("expected neutral risk score, got %d", result.RiskScore)
	}
	if result.Metadata.AnalysisID == "" || result.Metadata.Timestamp == "" {
		t.Fatal("expected metadata id and timestamp on degraded result")
	}
}

func TestNormalizeEchoesParties(t *testing.T) {
	parties := llm.Parties{Party1: "Acme Corp", Party2: "Jane Smith"}
	result := Normalize(`{"summary": "ok"}`, parties, "source", "test-model")
	if result.Metadata.Parties != parties {
		t.Fatalf("expected parties echoed, got %+v", result.Metadata.Parties)
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFences(tc.in); got != tc.want {
				t.Fatalf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
