package domain

type ID string

// User is a row of the users table. PasswordHash never leaves the
// authentication boundary; callers receive an Identity instead.
type User struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
}

type Identity struct {
	ID    ID
	Name  string
	Email string
}

func (u User) Identity() Identity {
	return Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
