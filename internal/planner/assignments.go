package planner

import "fmt"

// checkAssignments enforces the one-task-per-member-per-stage invariant:
// each stage assigns exactly one task per roster member, with no duplicate
// assignee and no assignee outside the roster. Pure guard, no output.
func checkAssignments(plan *GeneratedPlan, roster []TeamMember) error {
	known := make(map[string]struct{}, len(roster))
	for _, m := range roster {
		known[m.Email] = struct{}{}
	}

	for i, stage := range plan.Stages {
		if len(stage.Tasks) != len(roster) {
			return assignErr(i, -1, fmt.Sprintf(
				"stage %q has %d tasks for a team of %d",
				stage.StageName, len(stage.Tasks), len(roster)))
		}

		seen := make(map[string]struct{}, len(stage.Tasks))
		for j, task := range stage.Tasks {
			if _, dup := seen[task.AssignedMember]; dup {
				return assignErr(i, j, fmt.Sprintf(
					"stage %q assigns %s more than once",
					stage.StageName, task.AssignedMember))
			}
			seen[task.AssignedMember] = struct{}{}

			if _, ok := known[task.AssignedMember]; !ok {
				return assignErr(i, j, fmt.Sprintf(
					"stage %q task %d assigns unknown member %s",
					stage.StageName, j, task.AssignedMember))
			}
		}
	}

	return nil
}
