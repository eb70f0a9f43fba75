package domain

// RoleFilterKind discriminates the role gating variants.
type RoleFilterKind int

const (
	// RoleAny accepts a token belonging to any role level; only expiry is checked.
	RoleAny RoleFilterKind = iota
	// RoleExactly accepts only a principal whose role equals a single level.
	RoleExactly
	// RoleOneOf accepts a principal whose role is a member of a set of levels.
	RoleOneOf
)

// RoleFilter is a tagged variant describing which role levels a token's
// principal may hold during validation. Construct values with AnyRole,
// ExactlyRole, or OneOfRoles; repositories match the kind exhaustively.
type RoleFilter struct {
	kind   RoleFilterKind
	levels []int64
}

// AnyRole returns a filter accepting every role level.
func AnyRole() RoleFilter {
	return RoleFilter{kind: RoleAny}
}

// ExactlyRole returns a filter accepting only the given role level.
func ExactlyRole(levelID int64) RoleFilter {
	return RoleFilter{kind: RoleExactly, levels: []int64{levelID}}
}

// OneOfRoles returns a filter accepting any of the given role levels.
// An empty set behaves like a filter no principal can satisfy.
func OneOfRoles(levelIDs ...int64) RoleFilter {
	levels := make([]int64, len(levelIDs))
	copy(levels, levelIDs)
	return RoleFilter{kind: RoleOneOf, levels: levels}
}

// Kind returns the filter variant.
func (f RoleFilter) Kind() RoleFilterKind {
	return f.kind
}

// Levels returns the role levels the filter accepts. Empty for RoleAny.
func (f RoleFilter) Levels() []int64 {
	return f.levels
}
