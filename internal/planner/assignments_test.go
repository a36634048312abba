package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster(emails ...string) []TeamMember {
	members := make([]TeamMember, 0, len(emails))
	for _, e := range emails {
		members = append(members, TeamMember{Email: e})
	}
	return members
}

func stageFor(name string, assignees ...string) GeneratedStage {
	s := GeneratedStage{StageName: name}
	for _, a := range assignees {
		s.Tasks = append(s.Tasks, GeneratedTask{
			TaskName:         "t",
			TaskDescription:  "d",
			SoftDeadline:     "2026-09-01",
			HardDeadline:     "2026-09-15",
			AssignedMember:   a,
			AssignmentReason: "fit",
		})
	}
	return s
}

func TestCheckAssignmentsValid(t *testing.T) {
	plan := &GeneratedPlan{Stages: []GeneratedStage{
		stageFor("One", "a@x.dev", "b@x.dev", "c@x.dev"),
		stageFor("Two", "c@x.dev", "a@x.dev", "b@x.dev"),
	}}
	assert.NoError(t, checkAssignments(plan, roster("a@x.dev", "b@x.dev", "c@x.dev")))
}

func TestCheckAssignmentsCountMismatch(t *testing.T) {
	// Three members, but stage two only covers two of them.
	plan := &GeneratedPlan{Stages: []GeneratedStage{
		stageFor("One", "a@x.dev", "b@x.dev", "c@x.dev"),
		stageFor("Two", "a@x.dev", "b@x.dev"),
	}}

	err := checkAssignments(plan, roster("a@x.dev", "b@x.dev", "c@x.dev"))
	require.Error(t, err)
	assert.Equal(t, KindAssignment, KindOf(err))

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Stage)
	assert.Contains(t, pe.Detail, "has 2 tasks for a team of 3")
	assert.False(t, IsRetryable(err))
}

func TestCheckAssignmentsDuplicateMember(t *testing.T) {
	plan := &GeneratedPlan{Stages: []GeneratedStage{
		stageFor("One", "a@x.dev", "a@x.dev"),
	}}

	err := checkAssignments(plan, roster("a@x.dev", "b@x.dev"))
	require.Error(t, err)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindAssignment, pe.Kind)
	assert.Equal(t, 0, pe.Stage)
	assert.Equal(t, 1, pe.Task)
	assert.Contains(t, pe.Detail, "more than once")
}

func TestCheckAssignmentsUnknownMember(t *testing.T) {
	plan := &GeneratedPlan{Stages: []GeneratedStage{
		stageFor("One", "a@x.dev", "ghost@elsewhere.io"),
	}}

	err := checkAssignments(plan, roster("a@x.dev", "b@x.dev"))
	require.Error(t, err)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindAssignment, pe.Kind)
	assert.Contains(t, pe.Detail, "unknown member ghost@elsewhere.io")
}

func TestCheckAssignmentsEmptyPlanAgainstEmptyRoster(t *testing.T) {
	// Degenerate but consistent: zero stages violate nothing.
	assert.NoError(t, checkAssignments(&GeneratedPlan{}, roster()))
}
