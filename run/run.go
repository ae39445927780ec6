package run

import (
	"time"

	"tsched/catalog"
	"tsched/scheduler"

	"github.com/google/uuid"
)

// Run is one scheduling request and everything that happened to it.
type Run struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	State       State               `json:"state"`
	Strategy    string              `json:"strategy"`
	Budget      int64               `json:"budget"`
	Candidates  []catalog.Entry     `json:"candidates"`
	Schedule    *scheduler.Schedule `json:"schedule,omitempty"`
	Results     []Result            `json:"results,omitempty"`
	Error       string              `json:"error,omitempty"`
	SubmittedAt time.Time           `json:"submitted_at"`
	SolvedAt    time.Time           `json:"solved_at,omitempty"`
	FinishedAt  time.Time           `json:"finished_at,omitempty"`
}

// Result is the outcome of executing one selected test case.
type Result struct {
	CandidateID string        `json:"candidate_id"`
	ContainerID string        `json:"container_id,omitempty"`
	ExitCode    int64         `json:"exit_code"`
	Passed      bool          `json:"passed"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Request is what a client submits to start a run. Budget is in seconds.
type Request struct {
	Name          string          `json:"name"`
	BudgetSeconds *float64        `json:"budget_seconds,omitempty"`
	Strategy      string          `json:"strategy,omitempty"`
	Candidates    []catalog.Entry `json:"candidates"`
}

// Event carries a queued run through the manager.
type Event struct {
	ID        uuid.UUID `json:"id"`
	State     State     `json:"state"`
	Timestamp time.Time `json:"timestamp"`
	Run       Run       `json:"run"`
}

// Passed counts results with a zero exit code.
func (r *Run) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}
