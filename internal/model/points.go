package model

import "time"

// Points entry reasons.
const (
	PointsReasonCompletion  = "completion"
	PointsReasonDropPenalty = "drop_penalty"
)

type PointsEntry struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"`
	MemberEmail string    `json:"member_email"`
	TaskID      int       `json:"task_id"`
	Points      int       `json:"points"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

// LeaderboardEntry is one row of a project leaderboard.
type LeaderboardEntry struct {
	MemberEmail string  `json:"member_email"`
	Points      float64 `json:"points"`
	Rank        int     `json:"rank"`
}
