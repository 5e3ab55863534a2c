package model

// Role is a named privilege level from a fixed, ordered set.
// Roles are defined in code, not in the database: the set is closed and the
// rank order below is the only ordering the system recognises.
type Role string

// Role codes, lowest to highest privilege
const (
	RoleStaff        Role = "staff"         // concession staff
	RoleStoreManager Role = "store_manager" // concession counter manager
	RoleFloorManager Role = "floor_manager" // department-store floor manager (lateral, read-only)
	RoleAreaManager  Role = "area_manager"
	RoleHQAdmin      Role = "hq_admin" // company administration
	RoleTester       Role = "tester"
	RoleSystemAdmin  Role = "system_admin" // platform operations team
)

// RoleRanks orders roles by seniority. Rank is only used for
// "at least as privileged as" checks; it never grants permissions by itself.
var RoleRanks = map[Role]int{
	RoleStaff:        1,
	RoleStoreManager: 2,
	RoleFloorManager: 3,
	RoleAreaManager:  4,
	RoleHQAdmin:      5,
	RoleTester:       6,
	RoleSystemAdmin:  7,
}

// AllRoles returns every defined role, lowest rank first.
func AllRoles() []Role {
	return []Role{
		RoleStaff,
		RoleStoreManager,
		RoleFloorManager,
		RoleAreaManager,
		RoleHQAdmin,
		RoleTester,
		RoleSystemAdmin,
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := RoleRanks[r]
	return ok
}
