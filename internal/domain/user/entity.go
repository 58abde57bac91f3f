package user

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User là tài khoản SmartBook; mỗi user đồng thời là một shop bán sách
// (ID của user chính là shop ID trên listing).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	ShopName     string
	CreatedAt    time.Time
}

func NewUser(id, email, passwordHash, name string) (*User, error) {
	if id == "" || email == "" || passwordHash == "" || name == "" {
		return nil, ErrMissingField
	}
	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleUser,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
