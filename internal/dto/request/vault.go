package request

type CreateVaultItemRequest struct {
	Website  string `json:"website" validate:"required,max=255"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateVaultItemRequest applies credentials only when both Username and
// Password are present; a lone credential field is ignored.
type UpdateVaultItemRequest struct {
	Website  *string `json:"website,omitempty" validate:"omitempty,min=1,max=255"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (r UpdateVaultItemRequest) HasCredentials() bool {
	return r.Username != nil && r.Password != nil && *r.Username != "" && *r.Password != ""
}

func (r UpdateVaultItemRequest) HasPartialCredentials() bool {
	hasUser := r.Username != nil && *r.Username != ""
	hasPass := r.Password != nil && *r.Password != ""
	return hasUser != hasPass
}
