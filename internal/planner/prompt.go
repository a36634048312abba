package planner

import (
	"fmt"
	"strings"
)

// Positions of the semantically fixed charter answers.
const (
	charterMission = iota
	charterMilestones
	charterDemographic
	charterDuration
	charterRisks
)

const instructions = `You are a project planning assistant for a student/professional team.
Break the project described below into sequential stages. For every stage,
create exactly one task per team member. Each task must play to the member's
strengths and stated goals, and every stage must cover every member exactly once.

Rules:
- Respond with a single JSON object matching the provided schema. No prose.
- Every task needs a soft_deadline and a hard_deadline in YYYY-MM-DD format,
  both within the project duration and no earlier than today's date.
- assigned_member must be the member's email exactly as given in the roster.
- assignment_reason must explain why this member fits this task, referencing
  their capability analysis.`

// buildPrompt assembles the instruction text and the interpolated context
// payload for one generation call. Pure construction, no side effects.
func buildPrompt(in Input) (string, string, error) {
	if len(in.CharterResponses) == 0 {
		return "", "", inputErr("team charter is empty")
	}
	if err := requireCharterField(in.CharterResponses, charterMission, "mission"); err != nil {
		return "", "", err
	}
	if err := requireCharterField(in.CharterResponses, charterMilestones, "milestones"); err != nil {
		return "", "", err
	}
	if err := requireCharterField(in.CharterResponses, charterDuration, "duration"); err != nil {
		return "", "", err
	}
	if len(in.Members) == 0 {
		return "", "", inputErr("team roster is empty")
	}
	if len(in.Capabilities) == 0 {
		return "", "", inputErr("capability analyses are empty")
	}

	var b strings.Builder

	b.WriteString("## Project charter\n")
	b.WriteString(fmt.Sprintf("Mission: %s\n", in.CharterResponses[charterMission]))
	b.WriteString(fmt.Sprintf("Milestones: %s\n", in.CharterResponses[charterMilestones]))
	if v := charterField(in.CharterResponses, charterDemographic); v != "" {
		b.WriteString(fmt.Sprintf("Target demographic: %s\n", v))
	}
	b.WriteString(fmt.Sprintf("Duration: %s\n", in.CharterResponses[charterDuration]))
	if v := charterField(in.CharterResponses, charterRisks); v != "" {
		b.WriteString(fmt.Sprintf("Risks: %s\n", v))
	}
	for i := charterRisks + 1; i < len(in.CharterResponses); i++ {
		q := "Additional charter notes"
		if i < len(in.CharterQuestions) {
			q = in.CharterQuestions[i]
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", q, in.CharterResponses[i]))
	}

	if len(in.SurveyResponses) > 0 {
		b.WriteString("\n## Onboarding survey\n")
		for i, resp := range in.SurveyResponses {
			q := fmt.Sprintf("Question %d", i+1)
			if i < len(in.SurveyQuestions) {
				q = in.SurveyQuestions[i]
			}
			b.WriteString(fmt.Sprintf("Q: %s\nA: %s\n", q, resp))
		}
	}

	b.WriteString("\n## Team roster\n")
	for _, m := range in.Members {
		b.WriteString(fmt.Sprintf("- %s", m.Email))
		if m.Skills != "" {
			b.WriteString(fmt.Sprintf(" | skills: %s", m.Skills))
		}
		if m.Interests != "" {
			b.WriteString(fmt.Sprintf(" | interests: %s", m.Interests))
		}
		if m.CareerGoals != "" {
			b.WriteString(fmt.Sprintf(" | career goals: %s", m.CareerGoals))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Capability analyses\n")
	for _, c := range in.Capabilities {
		b.WriteString(fmt.Sprintf("- %s: strengths [%s], skills [%s], suggested role %q, compatibility %.1f\n",
			c.MemberEmail,
			strings.Join(c.Strengths, ", "),
			strings.Join(c.Skills, ", "),
			c.RoleSuggestion,
			c.CompatibilityScore,
		))
	}

	b.WriteString(fmt.Sprintf("\nToday's date: %s\n", in.Today.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Team size: %d (every stage needs exactly %d tasks)\n", len(in.Members), len(in.Members)))

	return instructions, b.String(), nil
}

func charterField(responses []string, idx int) string {
	if idx >= len(responses) {
		return ""
	}
	return strings.TrimSpace(responses[idx])
}

func requireCharterField(responses []string, idx int, name string) error {
	if charterField(responses, idx) == "" {
		return inputErr(fmt.Sprintf("charter %s is missing", name))
	}
	return nil
}
