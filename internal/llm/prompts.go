package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parties carries optional party names supplied with an analysis request.
type Parties struct {
	Party1 string `json:"party1,omitempty"`
	Party2 string `json:"party2,omitempty"`
}

// IsZero reports whether no party names were supplied.
func (p Parties) IsZero() bool {
	return strings.TrimSpace(p.Party1) == "" && strings.TrimSpace(p.Party2) == ""
}

const analysisSchemaSpec = `Return ONLY a single JSON object with exactly this structure (no markdown, no code fences, no commentary):
{
  "documentType": "string - the kind of legal document",
  "summary": "string - plain-language summary of the document",
  "wordCount": 0,
  "riskScore": 0,
  "riskAssessment": {
    "favorable": [{"type": "string", "description": "string", "location": "string"}],
    "moderate": [{"type": "string", "description": "string", "location": "string"}],
    "critical": [{"type": "string", "description": "string", "location": "string"}]
  },
  "vagueTerms": [{"term": "string", "issue": "string", "suggestion": "string"}],
  "keyTerms": [{"term": "string", "definition": "string"}],
  "legalReferences": ["string"],
  "recommendations": ["string"],
  "redFlags": ["string"],
  "suggestedQuestions": [{"question": "string", "answer": "string"}],
  "flowchart": {
    "nodes": [{"id": "string", "type": "start|party|process|decision|end", "label": "string", "position": {"x": 0, "y": 0}}],
    "edges": [{"id": "string", "source": "string", "target": "string", "label": "string"}]
  }
}`

const riskTierRules = `Risk tier rules:
- "favorable": clauses that protect or benefit the reader.
- "moderate": clauses that deserve attention or negotiation.
- "critical": clauses that expose the reader to serious risk.
Only report moderate or critical findings that genuinely exist in the document. Do NOT fabricate findings to fill the lists; empty lists are acceptable.`

const flowchartRules = `Flowchart layout conventions:
- Place start nodes at the top-left and end nodes at the bottom-right.
- Node types are limited to: start, party, process, decision, end.
- Every edge must reference existing node ids.`

// BuildAnalysisPrompt renders the instruction template for document analysis.
// The document text is embedded verbatim; party names are included only when
// provided.
func BuildAnalysisPrompt(text string, parties Parties) string {
	var b strings.Builder
	b.WriteString("You are a legal document analyst. Analyze the following legal document and produce a structured assessment.\n\n")
	if !parties.IsZero() {
		fmt.Fprintf(&b, "The parties to this document are: %q and %q. Assess risk from the perspective of %q.\n\n",
			parties.Party1, parties.Party2, parties.Party1)
	}
	b.WriteString("DOCUMENT:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---\n\n")
	b.WriteString(riskTierRules)
	b.WriteString("\n\n")
	b.WriteString(flowchartRules)
	b.WriteString("\n\n")
	b.WriteString(analysisSchemaSpec)
	return b.String()
}

// BuildQuestionPrompt renders the conversational prompt for follow-up
// questions about a prior analysis. Output must be plain prose: the template
// instructs the model not to use any markup.
func BuildQuestionPrompt(question string, analysisContext json.RawMessage, history []Turn, originalText string) string {
	var b strings.Builder
	b.WriteString("You are a legal assistant answering questions about a previously analyzed legal document.\n\n")
	b.WriteString("ANALYSIS CONTEXT:\n")
	b.Write(analysisContext)
	b.WriteString("\n\n")
	if strings.TrimSpace(originalText) != "" {
		b.WriteString("ORIGINAL DOCUMENT TEXT:\n---\n")
		b.WriteString(originalText)
		b.WriteString("\n---\n\n")
	}
	if len(history) > 0 {
		b.WriteString("CONVERSATION SO FAR:\n")
		for _, turn := range history {
			role := "User"
			if strings.EqualFold(turn.Role, "assistant") {
				role = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, turn.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "QUESTION: %s\n\n", question)
	b.WriteString("Answer in plain unformatted prose. Do not use markdown, bullet points, headings, or any other markup.")
	return b.String()
}
