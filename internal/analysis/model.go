package analysis

import (
	"time"

	"legaldoc-backend/internal/llm"
)

// RiskItem is a single categorized finding inside the risk assessment.
type RiskItem struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// RiskAssessment buckets findings into the three risk tiers.
type RiskAssessment struct {
	Favorable []RiskItem `json:"favorable"`
	Moderate  []RiskItem `json:"moderate"`
	Critical  []RiskItem `json:"critical"`
}

type VagueTerm struct {
	Term       string `json:"term"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion,omitempty"`
}

type KeyTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Position Position `json:"position"`
}

type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

type Flowchart struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Metadata is attached to every analysis result, degraded or not.
type Metadata struct {
	AnalysisID string      `json:"analysisId"`
	Timestamp  string      `json:"timestamp"`
	Model      string      `json:"model"`
	Parties    llm.Parties `json:"parties"`
	Error      string      `json:"error,omitempty"`
}

// Result is the normalized analysis response schema. Every array field is
// always present; absent model output is backfilled with empty lists.
type Result struct {
	DocumentType       string         `json:"documentType"`
	Summary            string         `json:"summary"`
	WordCount          int            `json:"wordCount"`
	RiskScore          int            `json:"riskScore"`
	RiskAssessment     RiskAssessment `json:"riskAssessment"`
	VagueTerms         []VagueTerm    `json:"vagueTerms"`
	KeyTerms           []KeyTerm      `json:"keyTerms"`
	LegalReferences    []string       `json:"legalReferences"`
	Recommendations    []string       `json:"recommendations"`
	RedFlags           []string       `json:"redFlags"`
	SuggestedQuestions []QAPair       `json:"suggestedQuestions"`
	Flowchart          Flowchart      `json:"flowchart"`
	Metadata           Metadata       `json:"metadata"`
}

func newMetadata(id, model string, parties llm.Parties, now time.Time) Metadata {
	return Metadata{
		AnalysisID: id,
		Timestamp:  now.UTC().Format(time.RFC3339),
		Model:      model,
		Parties:    parties,
	}
}

// fallbackQuestions is the fixed set used when the model returns no suggested
// question/answer seed pairs.
var fallbackQuestions = []QAPair{
	{
		Question: "What are my main obligations under this document?",
		Answer:   "Review the summary and key terms above for the obligations identified in this document.",
	},
	{
		Question: "What happens if I want to terminate this agreement?",
		Answer:   "Look for termination or cancellation clauses in the document; the risk assessment highlights any concerns found there.",
	},
	{
		Question: "Are there any deadlines I should be aware of?",
		Answer:   "Check the key terms and recommendations sections for dates and notice periods identified in the document.",
	},
}
