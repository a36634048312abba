package planner

// ResponseSchema returns the JSON-schema descriptor sent alongside the
// prompt. The service is asked for the GeneratedPlan shape exactly, with no
// additional properties anywhere.
func ResponseSchema() map[string]any {
	task := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task_name":         map[string]any{"type": "string"},
			"task_description":  map[string]any{"type": "string"},
			"soft_deadline":     map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"hard_deadline":     map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"assigned_member":   map[string]any{"type": "string"},
			"assignment_reason": map[string]any{"type": "string"},
		},
		"required": []string{
			"task_name",
			"task_description",
			"soft_deadline",
			"hard_deadline",
			"assigned_member",
			"assignment_reason",
		},
		"additionalProperties": false,
	}

	stage := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stage_name": map[string]any{"type": "string"},
			"tasks": map[string]any{
				"type":  "array",
				"items": task,
			},
		},
		"required":             []string{"stage_name", "tasks"},
		"additionalProperties": false,
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stages": map[string]any{
				"type":  "array",
				"items": stage,
			},
		},
		"required":             []string{"stages"},
		"additionalProperties": false,
	}
}
