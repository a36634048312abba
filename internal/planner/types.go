package planner

import "time"

// TeamMember is one entry in the roster known to a single generation call.
type TeamMember struct {
	Email       string `json:"email"`
	Skills      string `json:"skills,omitempty"`
	Interests   string `json:"interests,omitempty"`
	CareerGoals string `json:"career_goals,omitempty"`
}

// MemberCapability is the output of a separate analysis step, consumed here
// as opaque prompt context only.
type MemberCapability struct {
	MemberEmail        string   `json:"member_email"`
	Strengths          []string `json:"strengths"`
	Skills             []string `json:"skills"`
	RoleSuggestion     string   `json:"role_suggestion"`
	CompatibilityScore float64  `json:"compatibility_score"`
}

// GeneratedTask is a single task within a generated stage.
type GeneratedTask struct {
	TaskName         string `json:"task_name"`
	TaskDescription  string `json:"task_description"`
	SoftDeadline     string `json:"soft_deadline"`
	HardDeadline     string `json:"hard_deadline"`
	AssignedMember   string `json:"assigned_member"`
	AssignmentReason string `json:"assignment_reason"`
}

// GeneratedStage is a named phase containing one task per team member.
type GeneratedStage struct {
	StageName string          `json:"stage_name"`
	Tasks     []GeneratedTask `json:"tasks"`
}

// GeneratedPlan is the full roadmap returned by the completion service.
// It is transient: constructed per generation call and discarded after
// being serialized back to the caller.
type GeneratedPlan struct {
	Stages []GeneratedStage `json:"stages"`
}

// Input carries everything one generation call needs. The charter responses
// are positional: indexes 0-4 are mission, milestones, target demographic,
// duration and risks.
type Input struct {
	SurveyQuestions  []string
	SurveyResponses  []string
	CharterQuestions []string
	CharterResponses []string
	Members          []TeamMember
	Capabilities     []MemberCapability
	Today            time.Time
}
