package model

import "github.com/google/uuid"

type Role string

const (
	RoleEstimator Role = "ESTIMATOR"
	RoleManager   Role = "MANAGER"
	RoleViewer    Role = "VIEWER"
)

type Principal struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     Role
}

func (p Principal) IsEstimator() bool { return p.Role == RoleEstimator }
func (p Principal) IsManager() bool   { return p.Role == RoleManager }
func (p Principal) IsViewer() bool    { return p.Role == RoleViewer }
