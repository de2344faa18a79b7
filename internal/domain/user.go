package domain

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
}

// PublicUser is the projection of a User that is safe to return to clients.
type PublicUser struct {
	ID       int64
	Username string
	Email    string
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
