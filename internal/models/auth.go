package models

import "github.com/golang-jwt/jwt/v5"

// SchedulerRole gates write access to generation and vacation endpoints.
type SchedulerRole string

const (
	RoleScheduler SchedulerRole = "SCHEDULER"
	RoleStaff     SchedulerRole = "STAFF"
	RoleViewer    SchedulerRole = "VIEWER"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	StaffID        string        `json:"staff_id"`
	OrganizationID string        `json:"organization_id"`
	Role           SchedulerRole `json:"role"`
	jwt.RegisteredClaims
}
