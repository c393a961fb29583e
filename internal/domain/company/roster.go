package company

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSalesperson Role = "salesperson"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSalesperson
}

// RosterEntry is a salesperson or admin eligible to own imported records.
type RosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// CanAssign reports whether a caller with role may give records to ownerID.
// An empty ownerID means the caller keeps them.
func CanAssign(userID string, role Role, ownerID string) bool {
	return ownerID == "" || ownerID == userID || role == RoleAdmin
}
