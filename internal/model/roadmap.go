package model

import "time"

// Roadmap is one persisted AI-generated plan for a project. The raw plan
// JSON is kept verbatim for auditing; tasks are flattened into task rows.
type Roadmap struct {
	ID        int       `json:"id"`
	ProjectID int       `json:"project_id"`
	PlanJSON  string    `json:"plan_json"`
	Stages    int       `json:"stages"`
	CreatedAt time.Time `json:"created_at"`
}
