package planner

import (
	"fmt"
	"regexp"
	"strings"
)

// datePattern checks digit widths only; calendar validity is not this
// component's concern.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validatePlan checks the parsed object against the GeneratedPlan shape and
// returns a normalized plan with every string field trimmed. Checks run in a
// fixed order and fail fast, naming the offending stage/task index and field.
func validatePlan(obj map[string]any) (*GeneratedPlan, error) {
	rawStages, ok := obj["stages"].([]any)
	if !ok || len(rawStages) == 0 {
		return nil, schemaErr(-1, -1, "stages", "missing or empty stages array")
	}

	plan := &GeneratedPlan{Stages: make([]GeneratedStage, 0, len(rawStages))}

	for i, rawStage := range rawStages {
		stageObj, ok := rawStage.(map[string]any)
		if !ok {
			return nil, schemaErr(i, -1, "", "stage is not an object")
		}

		stageName, ok := trimmedString(stageObj, "stage_name")
		if !ok {
			return nil, schemaErr(i, -1, "stage_name", "missing or empty")
		}

		rawTasks, ok := stageObj["tasks"].([]any)
		if !ok || len(rawTasks) == 0 {
			return nil, schemaErr(i, -1, "tasks", "missing or empty tasks array")
		}

		stage := GeneratedStage{
			StageName: stageName,
			Tasks:     make([]GeneratedTask, 0, len(rawTasks)),
		}

		for j, rawTask := range rawTasks {
			taskObj, ok := rawTask.(map[string]any)
			if !ok {
				return nil, schemaErr(i, j, "", "task is not an object")
			}

			task, err := validateTask(taskObj, i, j)
			if err != nil {
				return nil, err
			}
			stage.Tasks = append(stage.Tasks, task)
		}

		plan.Stages = append(plan.Stages, stage)
	}

	return plan, nil
}

func validateTask(taskObj map[string]any, stage, idx int) (GeneratedTask, error) {
	var t GeneratedTask
	var ok bool

	if t.TaskName, ok = trimmedString(taskObj, "task_name"); !ok {
		return t, schemaErr(stage, idx, "task_name", "missing or empty")
	}
	if t.TaskDescription, ok = trimmedString(taskObj, "task_description"); !ok {
		return t, schemaErr(stage, idx, "task_description", "missing or empty")
	}

	if t.SoftDeadline, ok = trimmedString(taskObj, "soft_deadline"); !ok {
		return t, schemaErr(stage, idx, "soft_deadline", "missing or empty")
	}
	if !datePattern.MatchString(t.SoftDeadline) {
		return t, schemaErr(stage, idx, "soft_deadline",
			fmt.Sprintf("%q does not match YYYY-MM-DD", t.SoftDeadline))
	}
	if t.HardDeadline, ok = trimmedString(taskObj, "hard_deadline"); !ok {
		return t, schemaErr(stage, idx, "hard_deadline", "missing or empty")
	}
	if !datePattern.MatchString(t.HardDeadline) {
		return t, schemaErr(stage, idx, "hard_deadline",
			fmt.Sprintf("%q does not match YYYY-MM-DD", t.HardDeadline))
	}

	if t.AssignedMember, ok = trimmedString(taskObj, "assigned_member"); !ok {
		return t, schemaErr(stage, idx, "assigned_member", "missing or empty")
	}
	if t.AssignmentReason, ok = trimmedString(taskObj, "assignment_reason"); !ok {
		return t, schemaErr(stage, idx, "assignment_reason", "missing or empty")
	}

	return t, nil
}

// trimmedString returns the trimmed string at key, reporting false when the
// key is absent, not a string, or empty after trimming.
func trimmedString(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}
