package entity

import "github.com/google/uuid"

// VaultItem holds one saved login. Username and Password are ciphertext
// blobs and are never stored in the clear.
type VaultItem struct {
	Base
	UserID   uuid.UUID `db:"user_id"`
	Website  string    `db:"website"`
	Username []byte    `db:"username"`
	Password []byte    `db:"password"`
}
