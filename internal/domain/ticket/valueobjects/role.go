package valueobjects

// Role is the speaker category of a comment in the summary transcript.
type Role string

const (
	RoleCustomer    Role = "customer"
	RoleOperator    Role = "operator"
	RoleSystem      Role = "system"
	RolePrivateMemo Role = "private_memo"
)

var validRoles = map[Role]bool{
	RoleCustomer:    true,
	RoleOperator:    true,
	RoleSystem:      true,
	RolePrivateMemo: true,
}

// Roles lists every role in transcript display order.
var Roles = []Role{RoleCustomer, RoleOperator, RolePrivateMemo, RoleSystem}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return validRoles[r]
}
