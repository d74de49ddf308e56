package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"legaldoc-backend/internal/llm"
	"legaldoc-backend/internal/shared/telemetry"
)

const parseFailureMarker = "JSON parsing failed"

// Normalize turns raw model output into a complete Result. It never fails:
// malformed output produces the fixed degraded result. The model's own risk
// score is always overwritten with the computed one.
func Normalize(rawModelText string, parties llm.Parties, sourceText, model string) Result {
	return normalizeAt(rawModelText, parties, sourceText, model, time.Now(), uuid.NewString())
}

func normalizeAt(rawModelText string, parties llm.Parties, sourceText, model string, now time.Time, id string) Result {
	meta := newMetadata(id, model, parties, now)

	payload := stripCodeFences(rawModelText)

	var shape any
	if err := json.Unmarshal([]byte(payload), &shape); err != nil {
		telemetry.Error("analysis.parse_failed", map[string]any{
			"analysis_id": id,
			"err":         err.Error(),
		})
		return degradedResult(sourceText, meta)
	}
	if err := validateResultShape(shape); err != nil {
		telemetry.Info("analysis.schema_mismatch", map[string]any{
			"analysis_id": id,
			"err":         err.Error(),
		})
	}

	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		telemetry.Error("analysis.parse_failed", map[string]any{
			"analysis_id": id,
			"err":         err.Error(),
		})
		return degradedResult(sourceText, meta)
	}

	backfill(&result, sourceText)
	result.RiskScore = riskScore(len(result.RiskAssessment.Favorable), len(result.RiskAssessment.Moderate), len(result.RiskAssessment.Critical))
	result.Metadata = meta
	return result
}

// riskScore derives the numeric score from tier counts:
// round(100 * (favorable + 0.5*moderate) / total), neutral 50 when empty.
func riskScore(favorable, moderate, critical int) int {
	total := favorable + moderate + critical
	if total == 0 {
		return 50
	}
	score := int(math.Round(100 * (float64(favorable) + 0.5*float64(moderate)) / float64(total)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func backfill(result *Result, sourceText string) {
	if strings.TrimSpace(result.DocumentType) == "" {
		result.DocumentType = "Legal Document"
	}
	if result.WordCount <= 0 {
		result.WordCount = wordCount(sourceText)
	}
	if result.RiskAssessment.Favorable == nil {
		result.RiskAssessment.Favorable = []RiskItem{}
	}
	if result.RiskAssessment.Moderate == nil {
		result.RiskAssessment.Moderate = []RiskItem{}
	}
	if result.RiskAssessment.Critical == nil {
		result.RiskAssessment.Critical = []RiskItem{}
	}
	if result.VagueTerms == nil {
		result.VagueTerms = []VagueTerm{}
	}
	if result.KeyTerms == nil {
		result.KeyTerms = []KeyTerm{}
	}
	if result.LegalReferences == nil {
		result.LegalReferences = []string{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}
	if result.RedFlags == nil {
		result.RedFlags = []string{}
	}
	if len(result.SuggestedQuestions) == 0 {
		result.SuggestedQuestions = append([]QAPair(nil), fallbackQuestions...)
	}
	if result.Flowchart.Nodes == nil {
		result.Flowchart.Nodes = []Node{}
	}
	if result.Flowchart.Edges == nil {
		result.Flowchart.Edges = []Edge{}
	}
}

// degradedResult is the fixed valid payload returned when the model output
// cannot be parsed as JSON. The caller still receives a 200.
func degradedResult(sourceText string, meta Metadata) Result {
	meta.Error = parseFailureMarker
	return Result{
		DocumentType: "Unknown Document",
		Summary:      "The document was analyzed but the detailed results could not be structured. Please try again.",
		WordCount:    wordCount(sourceText),
		RiskScore:    50,
		RiskAssessment: RiskAssessment{
			Favorable: []RiskItem{},
			Moderate: []RiskItem{
				{
					Type:        "Analysis Error",
					Description: "The analysis response could not be parsed. The document may be unusual or the model output was malformed.",
					Location:    "N/A",
				},
			},
			Critical: []RiskItem{},
		},
		VagueTerms:         []VagueTerm{},
		KeyTerms:           []KeyTerm{},
		LegalReferences:    []string{},
		Recommendations:    []string{},
		RedFlags:           []string{},
		SuggestedQuestions: append([]QAPair(nil), fallbackQuestions...),
		Flowchart:          Flowchart{Nodes: []Node{}, Edges: []Edge{}},
		Metadata:           meta,
	}
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
