package ai

import (
	"encoding/json"
	"fmt"
)

const rewritePrompt = `You are a professional resume writer. Rewrite the following
job experience description in a professional, achievement-oriented tone.
Keep it concise (2-4 sentences), keep all factual claims, and answer with
the rewritten text only, no preamble.

Description:
%s`

const polishPrompt = `You are a professional resume writer. Rewrite the free-text
fields of this resume draft for professional tone. Keep every factual claim,
keep experience entries matched by their "id", and keep the skills list the
same length and order with normalized capitalization.

Respond with JSON only, in exactly this shape:
{"summary": "...", "experiences": [{"id": "...", "description": "..."}], "skills": ["..."]}

Draft:
%s`

const structurePrompt = `You are a resume parser. Extract structured fields from
the resume text below. Leave fields you cannot find as empty strings, and do
not invent information.

Respond with JSON only, in exactly this shape:
{"fullName": "...", "profession": "...", "phone": "...", "email": "...",
 "city": "...", "summary": "...",
 "experiences": [{"company": "...", "role": "...", "period": "...", "description": "..."}],
 "education": [{"course": "...", "institution": "...", "year": "..."}],
 "skills": ["..."]}

Resume text:
%s`

// BuildRewritePrompt formats the single-description rewrite prompt.
func BuildRewritePrompt(description string) string {
	return fmt.Sprintf(rewritePrompt, description)
}

// BuildPolishPrompt formats the whole-document polish prompt.
func BuildPolishPrompt(input PolishInput) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("marshal polish input: %w", err)
	}
	return fmt.Sprintf(polishPrompt, payload), nil
}

// BuildStructurePrompt formats the import-parsing prompt.
func BuildStructurePrompt(text string) string {
	return fmt.Sprintf(structurePrompt, text)
}
