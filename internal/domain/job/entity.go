package job

import "time"

// Job is a scheduled cleaning visit. Assignment lives in two places for
// historical reasons: the current assignee_ids array and the legacy
// job_assignments rows. AssignedEmployees merges both.
type Job struct {
	ID              string
	Date            time.Time
	DurationMinutes *int
	LocationID      *string
	ClientID        *string
	AssigneeIDs     []string
	Assignments     []Assignment
	CreatedAt       time.Time
}

// Assignment is a legacy per-employee assignment row.
type Assignment struct {
	ID         string
	JobID      string
	EmployeeID string
}

// AssignedEmployees returns every employee assigned to the job, merging the
// assignee_ids array with legacy assignment rows, de-duplicated in first-seen
// order.
func (j Job) AssignedEmployees() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, id := range j.AssigneeIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, a := range j.Assignments {
		if _, ok := seen[a.EmployeeID]; ok {
			continue
		}
		seen[a.EmployeeID] = struct{}{}
		out = append(out, a.EmployeeID)
	}
	return out
}
