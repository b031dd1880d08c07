package response

import "time"

// VaultItemResponse is the decrypted view of a vault item.
type VaultItemResponse struct {
	ID                string    `json:"id"`
	Website           string    `json:"website"`
	DecryptedUsername string    `json:"decrypted_username"`
	DecryptedPassword string    `json:"decrypted_password"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
