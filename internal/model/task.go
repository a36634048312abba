package model

import "time"

// Task pool states.
const (
	TaskStatusPool    = "pool"
	TaskStatusClaimed = "claimed"
	TaskStatusDone    = "done"
)

type Task struct {
	ID               int        `json:"id"`
	ProjectID        int        `json:"project_id"`
	RoadmapID        int        `json:"roadmap_id"`
	StageIndex       int        `json:"stage_index"`
	StageName        string     `json:"stage_name"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	SoftDeadline     time.Time  `json:"soft_deadline"`
	HardDeadline     time.Time  `json:"hard_deadline"`
	SuggestedMember  string     `json:"suggested_member"`
	AssignmentReason string     `json:"assignment_reason"`
	Points           int        `json:"points"`
	Status           string     `json:"status"`
	ClaimedBy        string     `json:"claimed_by,omitempty"`
	ClaimedAt        *time.Time `json:"claimed_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
