package models

// AuthRequest is the credential exchange request for the local API.
type AuthRequest struct {
	RA       string `json:"ra" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse mirrors the upstream registration exchange.
type AuthResponse struct {
	Success   bool   `json:"success"`
	AuthToken string `json:"auth_token"`
	Nick      string `json:"nick"`
}

// TaskListRequest asks for the student's pending or expired tasks across all
// resolved publication targets.
type TaskListRequest struct {
	AuthToken string `json:"auth_token" validate:"required"`
	Filter    string `json:"filter" validate:"omitempty,task_filter"`
	Nick      string `json:"nick"`
}

// ProcessTaskRequest runs the submission pipeline for a single task.
type ProcessTaskRequest struct {
	AuthToken string  `json:"auth_token" validate:"required"`
	Task      TaskRef `json:"task"`
	TimeMin   int     `json:"time_min" validate:"omitempty,pacing_minutes"`
	TimeMax   int     `json:"time_max" validate:"omitempty,pacing_minutes"`
	IsDraft   bool    `json:"is_draft"`
}

// CompleteRequest runs the submission pipeline for a batch of tasks.
type CompleteRequest struct {
	AuthToken string    `json:"auth_token" validate:"required"`
	Tasks     []TaskRef `json:"tasks" validate:"required,min=1"`
	TimeMin   int       `json:"time_min" validate:"omitempty,pacing_minutes"`
	TimeMax   int       `json:"time_max" validate:"omitempty,pacing_minutes"`
	IsDraft   bool      `json:"is_draft"`
}

// Task filter values accepted by the discovery endpoints.
const (
	TaskFilterPending = "pending"
	TaskFilterExpired = "expired"
)
