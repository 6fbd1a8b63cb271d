package constants

// Role is the closed set of actor roles. Checks on roles go through
// exhaustive switches, never raw string comparison.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleUser       Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician, RoleUser:
		return true
	}
	return false
}

// IsElevated reports whether the role bypasses ownership checks.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleManager
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Request types.
const (
	RequestTypeCorrective = "corrective"
	RequestTypePreventive = "preventive"
)

func IsRequestType(s string) bool {
	return s == RequestTypeCorrective || s == RequestTypePreventive
}

// Priorities. The canonical top level is CRITICAL.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

func IsPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Equipment ownership types.
const (
	OwnershipDepartment = "department"
	OwnershipEmployee   = "employee"
)

// Audit actions recorded by the request service.
const (
	AuditActionCreate           = "create"
	AuditActionStageChange      = "stage_change"
	AuditActionAssignTechnician = "assign_technician"
	AuditActionUpdateResolution = "update_resolution"
	AuditActionDelete           = "delete"
	AuditActionOverdue          = "overdue_detected"
	AuditActionEquipmentScrap   = "equipment_scrapped"
)
