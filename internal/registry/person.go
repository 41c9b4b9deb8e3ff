package registry

import "fmt"

// Person is the record held by a Store.
//
// Invariants (enforced by Store, not by this type):
// - ID is non-negative and unique across the store.
// - UserName is non-empty and unique across the store (case-sensitive).
type Person struct {
	ID       int    `json:"id" toml:"id"`
	UserName string `json:"username" toml:"username"`

	// Display fields are optional and never take part in lookups.
	FullName string `json:"full_name,omitempty" toml:"full_name"`
	Email    string `json:"email,omitempty" toml:"email"`
}

// NewPerson returns a Person with only the identifying fields set.
func NewPerson(id int, userName string) Person {
	return Person{ID: id, UserName: userName}
}

// Equal reports whether p and o identify the same record.
func (p Person) Equal(o Person) bool {
	return p.ID == o.ID && p.UserName == o.UserName
}

func (p Person) String() string {
	s := fmt.Sprintf("%d %s", p.ID, p.UserName)
	if p.FullName != "" {
		s += fmt.Sprintf(" %q", p.FullName)
	}
	if p.Email != "" {
		s += " <" + p.Email + ">"
	}
	return s
}
