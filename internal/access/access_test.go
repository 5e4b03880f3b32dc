package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scolaris/scolaris-go-api/internal/models"
)

// expectations enumerates the full role×operation matrix. Every pair is
// asserted so a change to the table cannot slip through unnoticed.
var expectations = map[Operation]map[models.Role]bool{
	OpReadAcademics: {
		models.RoleParent:    true,
		models.RoleTeacher:   true,
		models.RoleAdmin:     true,
		models.RoleDeveloper: true,
	},
	OpManageUsers: {
		models.RoleParent:    false,
		models.RoleTeacher:   false,
		models.RoleAdmin:     true,
		models.RoleDeveloper: true,
	},
	OpManageStudents: {
		models.RoleParent:    false,
		models.RoleTeacher:   false,
		models.RoleAdmin:     true,
		models.RoleDeveloper: true,
	},
	OpManageStructure: {
		models.RoleParent:    false,
		models.RoleTeacher:   false,
		models.RoleAdmin:     true,
		models.RoleDeveloper: true,
	},
	OpEnterScores: {
		models.RoleParent:    false,
		models.RoleTeacher:   true,
		models.RoleAdmin:     true,
		models.RoleDeveloper: true,
	},
	OpRecomputeGrades: {
		models.RoleParent:    false,
		models.RoleTeacher:   true,
		models.RoleAdmin:     true,
		models.RoleDeveloper: true,
	},
	OpRunPromotion: {
		models.RoleParent:    false,
		models.RoleTeacher:   false,
		models.RoleAdmin:     true,
		models.RoleDeveloper: true,
	},
	OpCreateAssignment: {
		models.RoleParent:    false,
		models.RoleTeacher:   true,
		models.RoleAdmin:     true,
		models.RoleDeveloper: true,
	},
	OpSendMessage: {
		models.RoleParent:    true,
		models.RoleTeacher:   true,
		models.RoleAdmin:     true,
		models.RoleDeveloper: true,
	},
	OpManageSchedule: {
		models.RoleParent:    false,
		models.RoleTeacher:   false,
		models.RoleAdmin:     true,
		models.RoleDeveloper: true,
	},
	OpSeedData: {
		models.RoleParent:    false,
		models.RoleTeacher:   false,
		models.RoleAdmin:     false,
		models.RoleDeveloper: true,
	},
}

func TestAllowedMatrixIsExhaustive(t *testing.T) {
	require.Len(t, expectations, len(Operations), "every operation needs an expectation row")

	for _, op := range Operations {
		row, ok := expectations[op]
		require.True(t, ok, "missing expectation row for %s", op)
		require.Len(t, row, len(Roles), "expectation row for %s must cover every role", op)

		for _, role := range Roles {
			require.Equal(t, row[role], Allowed(role, op), "role=%s op=%s", role, op)
		}
	}
}

func TestAllowedRejectsUnknownRole(t *testing.T) {
	for _, op := range Operations {
		require.False(t, Allowed(models.Role("intruder"), op))
		require.False(t, Allowed(models.Role(""), op))
	}
}
