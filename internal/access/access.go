// Package access implements the role-permission matrix gating every
// mutating use case. The gate is a pure function over a closed set of
// roles and operations so the matrix can be tested exhaustively.
package access

import "github.com/scolaris/scolaris-go-api/internal/models"

// Operation names a guarded use case.
type Operation string

const (
	OpReadAcademics    Operation = "academics.read"
	OpManageUsers      Operation = "users.manage"
	OpManageStudents   Operation = "students.manage"
	OpManageStructure  Operation = "structure.manage"
	OpEnterScores      Operation = "scores.enter"
	OpRecomputeGrades  Operation = "grades.recompute"
	OpRunPromotion     Operation = "promotion.run"
	OpCreateAssignment Operation = "assignments.create"
	OpSendMessage      Operation = "messages.send"
	OpManageSchedule   Operation = "schedules.manage"
	OpSeedData         Operation = "seed.run"
)

// Operations lists every guarded operation, for exhaustive tests.
var Operations = []Operation{
	OpReadAcademics,
	OpManageUsers,
	OpManageStudents,
	OpManageStructure,
	OpEnterScores,
	OpRecomputeGrades,
	OpRunPromotion,
	OpCreateAssignment,
	OpSendMessage,
	OpManageSchedule,
	OpSeedData,
}

// Roles lists every account role, for exhaustive tests.
var Roles = []models.Role{
	models.RoleParent,
	models.RoleTeacher,
	models.RoleAdmin,
	models.RoleDeveloper,
}

// matrix holds the write-side permissions of the two non-privileged roles.
// Admin and developer are allowed everything except where listed below.
var matrix = map[Operation]map[models.Role]bool{
	OpReadAcademics:    {models.RoleParent: true, models.RoleTeacher: true},
	OpEnterScores:      {models.RoleTeacher: true},
	OpRecomputeGrades:  {models.RoleTeacher: true},
	OpCreateAssignment: {models.RoleTeacher: true},
	OpSendMessage:      {models.RoleParent: true, models.RoleTeacher: true},
}

// Allowed reports whether the role may perform the operation. Developer and
// admin accounts pass every gate except seeding, which is developer-only.
func Allowed(role models.Role, op Operation) bool {
	if !role.Valid() {
		return false
	}
	if op == OpSeedData {
		return role == models.RoleDeveloper
	}
	if role == models.RoleAdmin || role == models.RoleDeveloper {
		return true
	}
	return matrix[op][role]
}
