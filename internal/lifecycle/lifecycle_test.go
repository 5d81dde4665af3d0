package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-request-api/internal/models"
)

func requestsWithStatuses(statuses ...Status) []models.Request {
	requests := make([]models.Request, 0, len(statuses))
	for i, status := range statuses {
		requests = append(requests, models.Request{ID: uint(i + 1), Status: string(status)})
	}
	return requests
}

func TestClassifyPartitionsEveryMix(t *testing.T) {
	all := []Status{StatusPending, StatusInProgress, StatusApproved, StatusRejected}

	// Every pairing of statuses must land each request in exactly one group.
	for _, first := range all {
		for _, second := range all {
			requests := requestsWithStatuses(first, second)
			groups := Classify(requests)

			require.Len(t, groups.Open, countOpen(requests))
			require.Equal(t, len(requests), len(groups.Open)+len(groups.Closed))

			seen := map[uint]int{}
			for _, r := range groups.Open {
				require.False(t, Status(r.Status).Terminal())
				seen[r.ID]++
			}
			for _, r := range groups.Closed {
				require.True(t, Status(r.Status).Terminal())
				seen[r.ID]++
			}
			for id, count := range seen {
				require.Equalf(t, 1, count, "request %d appeared in both groups", id)
			}
		}
	}
}

func countOpen(requests []models.Request) int {
	open := 0
	for _, r := range requests {
		if !Status(r.Status).Terminal() {
			open++
		}
	}
	return open
}

func TestClassifyTerminalAlwaysClosed(t *testing.T) {
	requests := requestsWithStatuses(StatusApproved, StatusPending, StatusRejected, StatusInProgress, StatusApproved)
	groups := Classify(requests)

	require.Len(t, groups.Closed, 3)
	for _, r := range groups.Closed {
		require.Contains(t, []string{"approved", "rejected"}, r.Status)
	}
	require.Len(t, groups.Open, 2)
}

func TestAggregateStatsSumInvariant(t *testing.T) {
	cases := [][]Status{
		nil,
		{StatusPending},
		{StatusPending, StatusPending, StatusInProgress},
		{StatusApproved, StatusRejected, StatusApproved, StatusInProgress, StatusPending},
	}

	for _, statuses := range cases {
		requests := requestsWithStatuses(statuses...)
		stats := AggregateStats(requests)

		require.Equal(t, len(requests), stats.Total)
		require.Equal(t, stats.Total, stats.Pending+stats.InProgress+stats.Approved+stats.Rejected)
	}
}

func TestParseAcceptsCanonicalAndHebrew(t *testing.T) {
	for value, want := range map[string]Status{
		"pending":     StatusPending,
		"in_progress": StatusInProgress,
		"Approved":    StatusApproved,
		"ממתין":        StatusPending,
		"בטיפול":       StatusInProgress,
		"אושר":        StatusApproved,
		"נדחה":        StatusRejected,
	} {
		got, err := Parse(value)
		require.NoError(t, err, value)
		require.Equal(t, want, got)
	}

	_, err := Parse("archived")
	require.Error(t, err)
	require.ErrorAs(t, err, &ErrUnknownStatus{})
}

func TestStatusHebrewDisplay(t *testing.T) {
	require.Equal(t, "אושר", StatusApproved.Hebrew())
	require.Equal(t, "נדחה", StatusRejected.Hebrew())
	require.Equal(t, "ממתין", StatusPending.Hebrew())
	require.Equal(t, "בטיפול", StatusInProgress.Hebrew())
}

func TestPermissiveRulesAllowAnyTransition(t *testing.T) {
	rules := PermissiveRules()
	all := []Status{StatusPending, StatusInProgress, StatusApproved, StatusRejected}
	for _, from := range all {
		for _, to := range all {
			require.True(t, rules.CanTransition(from, to))
		}
	}
}

func TestStrictRulesEnforceForwardMachine(t *testing.T) {
	rules := StrictRules()

	require.True(t, rules.CanTransition(StatusPending, StatusInProgress))
	require.True(t, rules.CanTransition(StatusInProgress, StatusApproved))
	require.True(t, rules.CanTransition(StatusInProgress, StatusRejected))
	require.True(t, rules.CanTransition(StatusInProgress, StatusPending))

	require.False(t, rules.CanTransition(StatusPending, StatusApproved))
	require.False(t, rules.CanTransition(StatusApproved, StatusPending))
	require.False(t, rules.CanTransition(StatusRejected, StatusInProgress))

	// Re-setting the current status stays a no-op.
	require.True(t, rules.CanTransition(StatusApproved, StatusApproved))
}

func TestRulesForMode(t *testing.T) {
	require.False(t, RulesForMode("strict").CanTransition(StatusPending, StatusApproved))
	require.True(t, RulesForMode("permissive").CanTransition(StatusPending, StatusApproved))
	require.True(t, RulesForMode("").CanTransition(StatusPending, StatusApproved))
}

func TestCanSetStatusRoles(t *testing.T) {
	require.True(t, CanSetStatus(models.RoleLecturer))
	require.True(t, CanSetStatus(models.RoleAdmin))
	require.True(t, CanSetStatus(" Admin "))
	require.False(t, CanSetStatus(models.RoleStudent))
	require.False(t, CanSetStatus(""))
}

func TestScopeFor(t *testing.T) {
	dept := uint(7)

	student := models.User{ID: 1, Role: models.RoleStudent}
	require.Equal(t, Scope{StudentID: 1}, ScopeFor(student))

	lecturer := models.User{ID: 2, Role: models.RoleLecturer}
	require.Equal(t, Scope{LecturerID: 2}, ScopeFor(lecturer))

	admin := models.User{ID: 3, Role: models.RoleAdmin, DepartmentID: &dept}
	require.Equal(t, Scope{DepartmentID: 7}, ScopeFor(admin))
}

func TestCanComment(t *testing.T) {
	lecturerID := uint(2)
	request := models.Request{StudentID: 1, AssignedLecturerID: &lecturerID}

	require.True(t, CanComment(request, models.User{ID: 1, Role: models.RoleStudent}))
	require.True(t, CanComment(request, models.User{ID: 2, Role: models.RoleLecturer}))
	require.True(t, CanComment(request, models.User{ID: 99, Role: models.RoleAdmin}))
	require.False(t, CanComment(request, models.User{ID: 3, Role: models.RoleStudent}))
	require.False(t, CanComment(request, models.User{ID: 3, Role: models.RoleLecturer}))
}
