package domain

import "time"

// Role distinguishes administrators from regular members.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User is the domain model for team members. Role is read-only from the
// task logic's perspective; no role-transition logic exists.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
