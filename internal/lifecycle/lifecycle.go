// Package lifecycle holds the pure request lifecycle logic: the status
// set, the allowed-transition table, role capabilities, open/closed
// grouping and status aggregation. It has no I/O so every rule is
// testable without a database.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/noah-isme/campus-request-api/internal/models"
)

// Status is the four-valued lifecycle state of a request.
type Status string

// Lifecycle states.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
)

var hebrewByStatus = map[Status]string{
	StatusPending:    "ממתין",
	StatusInProgress: "בטיפול",
	StatusApproved:   "אושר",
	StatusRejected:   "נדחה",
}

var statusByHebrew = map[string]Status{
	"ממתין": StatusPending,
	"בטיפול": StatusInProgress,
	"אושר":  StatusApproved,
	"נדחה":  StatusRejected,
}

// ErrUnknownStatus is returned when a value maps to no lifecycle state.
type ErrUnknownStatus struct {
	Value string
}

func (e ErrUnknownStatus) Error() string {
	return fmt.Sprintf("unknown request status %q", e.Value)
}

// Valid reports whether s is one of the four lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status closes the request.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Hebrew returns the display label the portal renders for the status.
func (s Status) Hebrew() string {
	if label, ok := hebrewByStatus[s]; ok {
		return label
	}
	return string(s)
}

// Parse accepts a canonical or Hebrew status value. The original portal
// submits the Hebrew label from its status dropdown.
func Parse(value string) (Status, error) {
	trimmed := strings.TrimSpace(value)
	if status := Status(strings.ToLower(trimmed)); status.Valid() {
		return status, nil
	}
	if status, ok := statusByHebrew[trimmed]; ok {
		return status, nil
	}
	return "", ErrUnknownStatus{Value: value}
}

// Rules is the allowed-transition table. The table is a configuration
// point: the observed portal lets staff pick any status from a dropdown,
// while a stricter deployment can enforce the forward-only machine.
type Rules struct {
	transitions map[Status][]Status
}

// PermissiveRules allows any status to be set from any other, matching
// the portal's unconstrained dropdown.
func PermissiveRules() Rules {
	all := []Status{StatusPending, StatusInProgress, StatusApproved, StatusRejected}
	transitions := make(map[Status][]Status, len(all))
	for _, from := range all {
		transitions[from] = all
	}
	return Rules{transitions: transitions}
}

// StrictRules enforces pending → in_progress → {approved, rejected} with
// in_progress → pending allowed; terminal states admit no transitions.
func StrictRules() Rules {
	return Rules{transitions: map[Status][]Status{
		StatusPending:    {StatusInProgress},
		StatusInProgress: {StatusPending, StatusApproved, StatusRejected},
	}}
}

// RulesForMode resolves the configured lifecycle mode to a rule table.
func RulesForMode(mode string) Rules {
	if strings.EqualFold(strings.TrimSpace(mode), "strict") {
		return StrictRules()
	}
	return PermissiveRules()
}

// CanTransition reports whether moving from one status to another is allowed.
// Setting the same status again is always a no-op permission-wise.
func (r Rules) CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, allowed := range r.transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanSetStatus reports whether the actor role may change request statuses.
// Students never may, regardless of the transition table.
func CanSetStatus(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case models.RoleLecturer, models.RoleAdmin:
		return true
	default:
		return false
	}
}

// Groups is the open/closed partition of a request list.
type Groups struct {
	Open   []models.Request
	Closed []models.Request
}

// Classify partitions requests into open ({pending, in_progress}) and
// closed ({approved, rejected}) groups, preserving input order.
func Classify(requests []models.Request) Groups {
	groups := Groups{
		Open:   make([]models.Request, 0, len(requests)),
		Closed: make([]models.Request, 0, len(requests)),
	}
	for _, request := range requests {
		if Status(request.Status).Terminal() {
			groups.Closed = append(groups.Closed, request)
		} else {
			groups.Open = append(groups.Open, request)
		}
	}
	return groups
}

// Stats is the per-status count aggregation shown on dashboards.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
}

// AggregateStats counts requests by status over a fully materialized list.
func AggregateStats(requests []models.Request) Stats {
	stats := Stats{Total: len(requests)}
	for _, request := range requests {
		switch Status(request.Status) {
		case StatusPending:
			stats.Pending++
		case StatusInProgress:
			stats.InProgress++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

// Scope describes which requests a viewer may list. Exactly one of the
// fields is set depending on the viewer's role.
type Scope struct {
	StudentID    uint
	LecturerID   uint
	DepartmentID uint
}

// ScopeFor derives the list scope from a verified user: students see
// their own requests, lecturers the ones assigned to them, admins their
// department's. The scope comes from token claims, never client input.
func ScopeFor(user models.User) Scope {
	switch user.Role {
	case models.RoleLecturer:
		return Scope{LecturerID: user.ID}
	case models.RoleAdmin:
		if user.DepartmentID != nil {
			return Scope{DepartmentID: *user.DepartmentID}
		}
		return Scope{}
	default:
		return Scope{StudentID: user.ID}
	}
}

// CanView reports whether the viewer may open a single request. Mirrors
// ScopeFor for point lookups.
func CanView(request models.Request, viewer models.User) bool {
	switch viewer.Role {
	case models.RoleAdmin:
		if viewer.DepartmentID == nil {
			return true
		}
		return request.Student != nil && request.Student.DepartmentID != nil &&
			*request.Student.DepartmentID == *viewer.DepartmentID
	case models.RoleLecturer:
		return request.AssignedLecturerID != nil && *request.AssignedLecturerID == viewer.ID
	default:
		return request.StudentID == viewer.ID
	}
}

// CanComment reports whether the author may post into a request thread:
// the owning student, the assigned lecturer, or any admin.
func CanComment(request models.Request, author models.User) bool {
	if author.Role == models.RoleAdmin {
		return true
	}
	if request.StudentID == author.ID {
		return true
	}
	return request.AssignedLecturerID != nil && *request.AssignedLecturerID == author.ID
}
