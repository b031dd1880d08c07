package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateVaultItemRequest_Credentials(t *testing.T) {
	s := func(v string) *string { return &v }

	tests := []struct {
		name    string
		req     UpdateVaultItemRequest
		full    bool
		partial bool
	}{
		{"website only", UpdateVaultItemRequest{Website: s("a.com")}, false, false},
		{"both", UpdateVaultItemRequest{Username: s("bob"), Password: s("pw")}, true, false},
		{"username only", UpdateVaultItemRequest{Username: s("bob")}, false, true},
		{"password only", UpdateVaultItemRequest{Password: s("pw")}, false, true},
		{"empty username", UpdateVaultItemRequest{Username: s(""), Password: s("pw")}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.full, tt.req.HasCredentials())
			assert.Equal(t, tt.partial, tt.req.HasPartialCredentials())
		})
	}
}
