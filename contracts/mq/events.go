package mq

// Routing keys for domain events on the events exchange.
const (
	RoutingKeyRoadmapGenerated = "roadmap.generated"
	RoutingKeyTaskCompleted    = "task.completed"
	RoutingKeyTaskDropped      = "task.dropped"
)

// RoadmapGeneratedPayload announces a freshly persisted roadmap.
type RoadmapGeneratedPayload struct {
	RoadmapID int      `json:"roadmap_id"`
	ProjectID int      `json:"project_id"`
	Stages    int      `json:"stages"`
	TaskCount int      `json:"task_count"`
	Members   []string `json:"members"`
	TraceID   string   `json:"trace_id,omitempty"`
}

// TaskCompletedPayload announces a task completion for points accounting.
type TaskCompletedPayload struct {
	TaskID      int    `json:"task_id"`
	ProjectID   int    `json:"project_id"`
	MemberEmail string `json:"member_email"`
	Points      int    `json:"points"`
	TraceID     string `json:"trace_id,omitempty"`
}

// TaskDroppedPayload announces that an overdue claimed task was returned to
// the pool.
type TaskDroppedPayload struct {
	TaskID      int    `json:"task_id"`
	ProjectID   int    `json:"project_id"`
	MemberEmail string `json:"member_email"`
	Points      int    `json:"points"`
	TraceID     string `json:"trace_id,omitempty"`
}
