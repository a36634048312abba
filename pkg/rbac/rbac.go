package rbac

// Permission constants.
const (
	// Sensitive operations
	PermissionCreateProject   = "project:create"
	PermissionGenerateRoadmap = "roadmap:generate"
	PermissionManageMembers   = "member:manage"

	// Ordinary operations
	PermissionReadTask     = "task:read"
	PermissionClaimTask    = "task:claim"
	PermissionCompleteTask = "task:complete"
)

// Role constants.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var rolePermissions = map[string][]string{
	RoleUser: {
		PermissionReadTask,
		PermissionClaimTask,
		PermissionCompleteTask,
		PermissionCreateProject,
		PermissionGenerateRoadmap,
		PermissionManageMembers,
	},
	RoleAdmin: {
		PermissionReadTask,
		PermissionClaimTask,
		PermissionCompleteTask,
		PermissionCreateProject,
		PermissionGenerateRoadmap,
		PermissionManageMembers,
	},
}

// GetUserRole returns the role for a user. All users currently share the
// user role; project-level roles would come from the members table.
func GetUserRole(userID int) string {
	return RoleUser
}

// HasPermission checks whether a user holds the given permission.
func HasPermission(userID int, permission string) bool {
	role := GetUserRole(userID)
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission returns an error when the user lacks the permission.
func CheckPermission(userID int, permission string) error {
	if !HasPermission(userID, permission) {
		return &PermissionDeniedError{
			UserID:     userID,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError indicates a missing permission.
type PermissionDeniedError struct {
	UserID     int
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}

// ValidateUserIDInPayload verifies that the user_id in a request payload
// matches the authenticated token's user_id.
func ValidateUserIDInPayload(tokenUserID int, payloadUserID int) error {
	if payloadUserID != tokenUserID {
		return &UserIDMismatchError{
			TokenUserID:   tokenUserID,
			PayloadUserID: payloadUserID,
		}
	}
	return nil
}

// UserIDMismatchError indicates a token/payload user mismatch.
type UserIDMismatchError struct {
	TokenUserID   int
	PayloadUserID int
}

func (e *UserIDMismatchError) Error() string {
	return "user_id in payload does not match token"
}
