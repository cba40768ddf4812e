package rbac

// Permission is an atomic capability. The vocabulary is closed: handlers and
// seeds reference these constants so a typo fails at compile time instead of
// silently evaluating to forbidden.
type Permission string

// Capability vocabulary.
const (
	PermViewUsers  Permission = "view_users"
	PermEditUser   Permission = "edit_user"
	PermDeleteUser Permission = "delete_user"

	PermViewRoles Permission = "view_roles"
	PermEditRole  Permission = "edit_role"

	PermViewCourses  Permission = "view_courses"
	PermEditCourse   Permission = "edit_course"
	PermDeleteCourse Permission = "delete_course"

	PermUploadFiles Permission = "upload_files"
	PermDeleteFile  Permission = "delete_file"

	PermViewReports Permission = "view_reports"

	PermManageNotifications Permission = "manage_notifications"
)

// Wildcard literals observed in the wild. The server historically checked
// "all" while the dashboard checked "__all__"; which one is live is a
// deployment decision, so it is configuration validated at startup rather
// than a hard-coded assumption.
const (
	WildcardAll       = "all"
	WildcardDunderAll = "__all__"
)

// Known lists every permission in the vocabulary, ordered for display.
func Known() []Permission {
	return []Permission{
		PermViewUsers,
		PermEditUser,
		PermDeleteUser,
		PermViewRoles,
		PermEditRole,
		PermViewCourses,
		PermEditCourse,
		PermDeleteCourse,
		PermUploadFiles,
		PermDeleteFile,
		PermViewReports,
		PermManageNotifications,
	}
}

// IsKnown reports whether name belongs to the vocabulary. The wildcard is
// accepted separately by the engine and is deliberately not listed here.
func IsKnown(name string) bool {
	for _, p := range Known() {
		if string(p) == name {
			return true
		}
	}
	return false
}
