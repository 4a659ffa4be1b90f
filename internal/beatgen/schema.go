package beatgen

import "spellquest/internal/llm"

// BeatsSchema defines the JSON schema for LLM beat sequence responses.
var BeatsSchema = &llm.Schema{
	Name:        "story-beats",
	Description: "An ordered sequence of story beats for a narrative spelling session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"beats": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"kind": map[string]any{
							"type":        "string",
							"enum":        []any{"narrative", "game", "choice", "checkpoint"},
							"description": "The beat type",
						},
						"text": map[string]any{
							"type":        "string",
							"description": "Narrative text, or the framing line for a game beat",
						},
						"word": map[string]any{
							"type":        "string",
							"description": "For game beats: the target word, taken verbatim from the word list",
						},
						"mechanic": map[string]any{
							"type":        "string",
							"description": "For game beats: one of the available mechanic ids",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "For choice beats: the question posed to the learner",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "For choice beats: exactly 2 option labels",
						},
						"checkpoint": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"maximum":     3,
							"description": "For checkpoint beats: the milestone number",
						},
						"title": map[string]any{
							"type":        "string",
							"description": "For checkpoint beats: a short celebratory title",
						},
						"celebration": map[string]any{
							"type":        "string",
							"description": "For checkpoint beats: one or two celebratory sentences",
						},
					},
					"required": []any{"kind", "text"},
				},
			},
		},
		"required":             []any{"beats"},
		"additionalProperties": false,
	},
}
