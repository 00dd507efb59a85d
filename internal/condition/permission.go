package condition

import (
	"lineroute/pkg/routetypes"
)

// PermissionCondition vetoes dispatch when the executable declares a
// permission the actor does not hold. Category permissions are checked
// separately by the dispatcher during tree descent.
type PermissionCondition struct {
	checker routetypes.PermissionChecker
}

// NewPermissionCondition creates a permission condition backed by checker.
func NewPermissionCondition(checker routetypes.PermissionChecker) *PermissionCondition {
	return &PermissionCondition{checker: checker}
}

// Name returns "permission".
func (c *PermissionCondition) Name() string { return "permission" }

// Check consults the permission backend for the executable's declared
// permission. Executables with no permission always pass.
func (c *PermissionCondition) Check(inv Invocation, _ []string) error {
	required := inv.Executable().Permission()
	if required == "" {
		return nil
	}
	if c.checker != nil && c.checker.HasPermission(inv.Actor(), required) {
		return nil
	}
	return MissingPermission(required)
}

// MissingPermission builds the classified error for a failed permission
// check, carrying the permission string that was required.
func MissingPermission(required string) *routetypes.RouteError {
	e := routetypes.NewRouteError(routetypes.KindInsufficientPermission,
		"missing permission %q", required)
	e.Permission = required
	return e
}
