package model

// Permission tokens. Each gates one fine-grained action; grants come from
// RolePermissions only, never from role rank.
const (
	// System admin (platform operations team)
	PermSystemOverview     = "system_overview"
	PermSystemSettings     = "system_settings"
	PermManageAllCompanies = "manage_all_companies"
	PermViewAllData        = "view_all_data"
	PermSystemDebug        = "system_debug"

	// Tester
	PermSwitchRoles     = "switch_roles"
	PermTestAllFeatures = "test_all_features"
	PermDebugMode       = "debug_mode"

	// Company administration
	PermManageStores      = "manage_stores"
	PermManageAreas       = "manage_areas"
	PermSetGlobalRules    = "set_global_rules"
	PermAssignPermissions = "assign_permissions"

	// Area manager
	PermViewAreaStats          = "view_area_stats"
	PermApproveCrossStoreLeave = "approve_cross_store_leave"

	// Department-store floor manager
	PermViewDepartmentStores = "view_department_stores"
	PermViewStoreSchedules   = "view_store_schedules"
	PermViewStoreStaff       = "view_store_staff"

	// Counter manager
	PermManageStoreSchedule = "manage_store_schedule"
	PermApproveStaffLeave   = "approve_staff_leave"
	PermSetStoreActivities  = "set_store_activities"

	// Concession staff
	PermViewOwnSchedule = "view_own_schedule"
	PermRequestLeave    = "request_leave"
	PermViewOwnHours    = "view_own_hours"
)

// RolePermissions maps each role to its explicit permission set. The sets are
// enumerated per role rather than derived from rank: floor_manager holds a
// read-only set that is neither a subset nor a superset of store_manager's.
var RolePermissions = map[Role][]string{
	RoleSystemAdmin: {
		PermSystemOverview,
		PermSystemSettings,
		PermManageAllCompanies,
		PermViewAllData,
		PermSystemDebug,
		PermManageStores,
		PermManageAreas,
		PermSetGlobalRules,
		PermAssignPermissions,
		PermViewAreaStats,
		PermApproveCrossStoreLeave,
		PermManageStoreSchedule,
		PermApproveStaffLeave,
		PermSetStoreActivities,
		PermViewOwnSchedule,
		PermRequestLeave,
		PermViewOwnHours,
	},
	RoleTester: {
		PermSwitchRoles,
		PermTestAllFeatures,
		PermDebugMode,
		PermManageStores,
		PermManageAreas,
		PermSetGlobalRules,
		PermAssignPermissions,
		PermViewAreaStats,
		PermApproveCrossStoreLeave,
		PermManageStoreSchedule,
		PermApproveStaffLeave,
		PermSetStoreActivities,
		PermViewOwnSchedule,
		PermRequestLeave,
		PermViewOwnHours,
	},
	RoleHQAdmin: {
		PermManageStores,
		PermManageAreas,
		PermSetGlobalRules,
		PermAssignPermissions,
		PermViewAreaStats,
		PermApproveCrossStoreLeave,
		PermManageStoreSchedule,
		PermApproveStaffLeave,
		PermSetStoreActivities,
		PermViewOwnSchedule,
		PermRequestLeave,
		PermViewOwnHours,
	},
	RoleAreaManager: {
		PermViewAreaStats,
		PermApproveCrossStoreLeave,
		PermManageStoreSchedule,
		PermApproveStaffLeave,
		PermSetStoreActivities,
		PermViewOwnSchedule,
		PermRequestLeave,
		PermViewOwnHours,
	},
	RoleFloorManager: {
		PermViewDepartmentStores,
		PermViewStoreSchedules,
		PermViewStoreStaff,
		PermViewOwnSchedule,
		PermRequestLeave,
		PermViewOwnHours,
	},
	RoleStoreManager: {
		PermManageStoreSchedule,
		PermApproveStaffLeave,
		PermSetStoreActivities,
		PermViewOwnSchedule,
		PermRequestLeave,
		PermViewOwnHours,
	},
	RoleStaff: {
		PermViewOwnSchedule,
		PermRequestLeave,
		PermViewOwnHours,
	},
}
