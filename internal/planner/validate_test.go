package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planObj(t *testing.T, raw string) map[string]any {
	t.Helper()
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &obj))
	return obj
}

func validTaskJSON(member string) string {
	return `{
		"task_name": "Build API",
		"task_description": "Implement the REST endpoints",
		"soft_deadline": "2026-09-15",
		"hard_deadline": "2026-09-30",
		"assigned_member": "` + member + `",
		"assignment_reason": "Strong backend background"
	}`
}

func TestValidatePlanHappyPath(t *testing.T) {
	obj := planObj(t, `{"stages": [
		{"stage_name": "  Foundation  ", "tasks": [`+validTaskJSON("a@x.dev")+`]}
	]}`)

	plan, err := validatePlan(obj)
	require.NoError(t, err)
	require.Len(t, plan.Stages, 1)
	assert.Equal(t, "Foundation", plan.Stages[0].StageName)
	require.Len(t, plan.Stages[0].Tasks, 1)
	assert.Equal(t, "a@x.dev", plan.Stages[0].Tasks[0].AssignedMember)
}

func TestValidatePlanSchemaFailures(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantStage int
		wantTask  int
		wantField string
	}{
		{
			name:      "missing stages",
			raw:       `{"plan": []}`,
			wantStage: -1, wantTask: -1, wantField: "stages",
		},
		{
			name:      "empty stages",
			raw:       `{"stages": []}`,
			wantStage: -1, wantTask: -1, wantField: "stages",
		},
		{
			name:      "stages not an array",
			raw:       `{"stages": "three of them"}`,
			wantStage: -1, wantTask: -1, wantField: "stages",
		},
		{
			name:      "stage missing name",
			raw:       `{"stages": [{"tasks": [` + validTaskJSON("a@x.dev") + `]}]}`,
			wantStage: 0, wantTask: -1, wantField: "stage_name",
		},
		{
			name:      "whitespace-only stage name",
			raw:       `{"stages": [{"stage_name": "   ", "tasks": [` + validTaskJSON("a@x.dev") + `]}]}`,
			wantStage: 0, wantTask: -1, wantField: "stage_name",
		},
		{
			name:      "stage missing tasks",
			raw:       `{"stages": [{"stage_name": "Setup"}]}`,
			wantStage: 0, wantTask: -1, wantField: "tasks",
		},
		{
			name: "task missing description",
			raw: `{"stages": [{"stage_name": "Setup", "tasks": [
				{"task_name": "X", "soft_deadline": "2026-01-01", "hard_deadline": "2026-01-02",
				 "assigned_member": "a@x.dev", "assignment_reason": "fit"}
			]}]}`,
			wantStage: 0, wantTask: 0, wantField: "task_description",
		},
		{
			name: "second task of second stage named precisely",
			raw: `{"stages": [
				{"stage_name": "One", "tasks": [` + validTaskJSON("a@x.dev") + `]},
				{"stage_name": "Two", "tasks": [` + validTaskJSON("a@x.dev") + `,
					{"task_name": "Y", "task_description": "d",
					 "soft_deadline": "2026-01-01", "hard_deadline": "2026-01-02",
					 "assigned_member": "b@x.dev"}
				]}
			]}`,
			wantStage: 1, wantTask: 1, wantField: "assignment_reason",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validatePlan(planObj(t, tt.raw))
			require.Error(t, err)
			assert.Equal(t, KindSchema, KindOf(err))

			var pe *Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantStage, pe.Stage)
			assert.Equal(t, tt.wantTask, pe.Task)
			assert.Equal(t, tt.wantField, pe.Field)
		})
	}
}

func TestValidatePlanDates(t *testing.T) {
	mk := func(soft, hard string) map[string]any {
		return map[string]any{
			"stages": []any{map[string]any{
				"stage_name": "Setup",
				"tasks": []any{map[string]any{
					"task_name":         "X",
					"task_description":  "d",
					"soft_deadline":     soft,
					"hard_deadline":     hard,
					"assigned_member":   "a@x.dev",
					"assignment_reason": "fit",
				}},
			}},
		}
	}

	t.Run("narrow month and day rejected", func(t *testing.T) {
		_, err := validatePlan(mk("2026-1-5", "2026-01-10"))
		require.Error(t, err)
		var pe *Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "soft_deadline", pe.Field)
	})

	t.Run("prose date rejected", func(t *testing.T) {
		_, err := validatePlan(mk("2026-01-05", "mid October"))
		require.Error(t, err)
		var pe *Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "hard_deadline", pe.Field)
	})

	// Digit-width check only; "month 13" clears this layer.
	t.Run("calendar-invalid but pattern-valid passes", func(t *testing.T) {
		_, err := validatePlan(mk("2026-13-40", "2026-13-41"))
		assert.NoError(t, err)
	})
}

func TestValidatePlanTrimsFields(t *testing.T) {
	obj := planObj(t, `{"stages": [{"stage_name": "Setup", "tasks": [{
		"task_name": "  Build API  ",
		"task_description": "\tdo it\n",
		"soft_deadline": " 2026-09-15 ",
		"hard_deadline": "2026-09-30",
		"assigned_member": " a@x.dev ",
		"assignment_reason": " fit "
	}]}]}`)

	plan, err := validatePlan(obj)
	require.NoError(t, err)
	task := plan.Stages[0].Tasks[0]
	assert.Equal(t, "Build API", task.TaskName)
	assert.Equal(t, "do it", task.TaskDescription)
	assert.Equal(t, "2026-09-15", task.SoftDeadline)
	assert.Equal(t, "a@x.dev", task.AssignedMember)
	assert.Equal(t, "fit", task.AssignmentReason)
}
