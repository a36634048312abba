package model

import "time"

type Project struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"owner_id"`
	Name      string    `json:"name"`
	Purpose   string    `json:"purpose"`
	CreatedAt time.Time `json:"created_at"`
}

// CharterEntry is one question/answer pair of the team charter. Positions
// 0-4 are fixed: mission, milestones, target demographic, duration, risks.
type CharterEntry struct {
	ID        int    `json:"id"`
	ProjectID int    `json:"project_id"`
	Position  int    `json:"position"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}
