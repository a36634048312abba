package model

import "time"

// Member is a project team member with their onboarding survey answers.
type Member struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"`
	Email       string    `json:"email"`
	Skills      string    `json:"skills,omitempty"`
	Interests   string    `json:"interests,omitempty"`
	CareerGoals string    `json:"career_goals,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Capability is the stored output of the compatibility analysis for one
// member. Produced elsewhere; consumed as roadmap prompt context.
type Capability struct {
	ID                 int       `json:"id"`
	ProjectID          int       `json:"project_id"`
	MemberEmail        string    `json:"member_email"`
	Strengths          []string  `json:"strengths"`
	Skills             []string  `json:"skills"`
	RoleSuggestion     string    `json:"role_suggestion"`
	CompatibilityScore float64   `json:"compatibility_score"`
	CreatedAt          time.Time `json:"created_at"`
}

// SurveyEntry is one onboarding survey question/response pair.
type SurveyEntry struct {
	ID        int    `json:"id"`
	ProjectID int    `json:"project_id"`
	Position  int    `json:"position"`
	Question  string `json:"question"`
	Response  string `json:"response"`
}
