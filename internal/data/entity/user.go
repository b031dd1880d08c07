package entity

// User is an account identified by email. A user may only log in once
// IsVerified is set by a successful signup OTP.
type User struct {
	Base
	Email        string  `db:"email"`
	Phone        *string `db:"phone"`
	PasswordHash string  `db:"password"`
	IsVerified   bool    `db:"is_verified"`
	IsActive     bool    `db:"is_active"`
	IsStaff      bool    `db:"is_staff"`
	IsSuperuser  bool    `db:"is_superuser"`
}
