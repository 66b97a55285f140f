package constants

import "fmt"

const (
	RoleStudent   = "student"
	RoleProfessor = "professor"
	RoleAdmin     = "admin"
)

// Role error templates
const (
	ErrOnlyProfessorsCanAccess = "Seuls les professeurs et administrateurs peuvent accéder à %s."
	ErrOnlyAdminsCanAccess     = "Seuls les administrateurs peuvent accéder à %s."
)

func RoleErrorProfessor(feature string) string {
	return fmt.Sprintf(ErrOnlyProfessorsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleProfessor,
		RoleAdmin,
	}

	ProfessorAndAbove = []string{
		RoleProfessor,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
