package entity

// Roles válidos para un Caller.
const (
	RoleAdmin            = "admin"
	RoleBaseCommander    = "base_commander"
	RoleLogisticsOfficer = "logistics_officer"
)

// Caller identidad de quien invoca el núcleo: rol y, para no administradores, base asignada.
type Caller struct {
	UserID string
	Role   string
	BaseID string // vacío para admin
}

// IsKnownRole indica si role pertenece al conjunto cerrado de roles.
func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBaseCommander, RoleLogisticsOfficer:
		return true
	}
	return false
}

// IsAdmin indica si el caller puede ver y escribir en cualquier base.
func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// CanModifyAssignments asignaciones, devoluciones y gastos solo para admin y comandante de base.
func (c Caller) CanModifyAssignments() bool {
	return c.Role == RoleAdmin || c.Role == RoleBaseCommander
}
