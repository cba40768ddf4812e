// Package rbac decides whether an identity's permission snapshot satisfies a
// policy. The engine holds no state beyond the configured super-admin
// wildcard; every check is a pure function of (snapshot, requirement).
package rbac

import "fmt"

// Engine evaluates permission requirements against granted sets.
type Engine struct {
	wildcard string
}

// NewEngine constructs an Engine with the configured super-admin literal.
// Only the two literals known to exist in deployments are accepted; anything
// else is a misconfiguration caught at startup, not a silent never-matching
// override.
func NewEngine(wildcard string) (Engine, error) {
	switch wildcard {
	case WildcardAll, WildcardDunderAll:
		return Engine{wildcard: wildcard}, nil
	case "":
		return Engine{wildcard: WildcardAll}, nil
	default:
		return Engine{}, fmt.Errorf("rbac: unknown super-admin wildcard %q", wildcard)
	}
}

// Wildcard returns the active super-admin literal.
func (e Engine) Wildcard() string {
	return e.wildcard
}

// IsSuperAdmin reports whether the granted set contains the wildcard. The
// override is a function of the snapshot only, never of a role name.
func (e Engine) IsSuperAdmin(granted []string) bool {
	for _, g := range granted {
		if g == e.wildcard {
			return true
		}
	}
	return false
}

// HasPermission reports whether the set grants p.
func (e Engine) HasPermission(granted []string, p Permission) bool {
	if e.IsSuperAdmin(granted) {
		return true
	}
	for _, g := range granted {
		if g == string(p) {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the set grants at least one of perms.
func (e Engine) HasAnyPermission(granted []string, perms ...Permission) bool {
	if e.IsSuperAdmin(granted) {
		return true
	}
	set := toSet(granted)
	for _, p := range perms {
		if _, ok := set[string(p)]; ok {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the set grants every one of perms.
func (e Engine) HasAllPermissions(granted []string, perms ...Permission) bool {
	return len(e.MissingPermissions(granted, perms...)) == 0
}

// MissingPermissions returns exactly the subset of perms the set does not
// grant, empty under the super-admin override.
func (e Engine) MissingPermissions(granted []string, perms ...Permission) []Permission {
	if e.IsSuperAdmin(granted) {
		return nil
	}
	set := toSet(granted)
	var missing []Permission
	for _, p := range perms {
		if _, ok := set[string(p)]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}

func toSet(granted []string) map[string]struct{} {
	set := make(map[string]struct{}, len(granted))
	for _, g := range granted {
		set[g] = struct{}{}
	}
	return set
}
