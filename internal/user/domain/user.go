package domain

import (
	"encoding/json"
	"time"
)

type ID string

// User is the stored identity record. PasswordHash is empty when the record
// was loaded through a projection that excludes it.
type User struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	Memorize     []json.RawMessage
	CreatedAt    time.Time
}

// MemorizeItem returns the item at index, or false when index is outside the
// list.
func (u User) MemorizeItem(index int) (json.RawMessage, bool) {
	if index < 0 || index >= len(u.Memorize) {
		return nil, false
	}
	return u.Memorize[index], true
}

// UpdateFields is the set of columns an edit may overwrite. Nil means the
// column is left alone.
type UpdateFields struct {
	Name     *string
	Email    *string
	Memorize *[]json.RawMessage
}

func (f UpdateFields) IsEmpty() bool {
	return f.Name == nil && f.Email == nil && f.Memorize == nil
}

// Profile is the client-facing view of a user; it never carries the hash.
type Profile struct {
	ID        ID                `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Memorize  []json.RawMessage `json:"memorize"`
	CreatedAt time.Time         `json:"created_at"`
}

func (u User) Profile() Profile {
	memorize := u.Memorize
	if memorize == nil {
		memorize = []json.RawMessage{}
	}
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Memorize:  memorize,
		CreatedAt: u.CreatedAt,
	}
}
