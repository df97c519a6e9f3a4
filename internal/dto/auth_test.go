package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

func TestRegisterRequestValidate(t *testing.T) {
	ok := RegisterRequest{Username: "shopper", Email: " A@Example.COM ", Password: "Str0ngPassw0rd"}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "a@example.com", ok.Email, "email is normalized in place")

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing fields", RegisterRequest{Username: "shopper"}},
		{"bad email", RegisterRequest{Username: "shopper", Email: "not-an-email", Password: "Str0ngPassw0rd"}},
		{"short username", RegisterRequest{Username: "ab", Email: "a@example.com", Password: "Str0ngPassw0rd"}},
		{"username with spaces", RegisterRequest{Username: "shop per", Email: "a@example.com", Password: "Str0ngPassw0rd"}},
		{"short password", RegisterRequest{Username: "shopper", Email: "a@example.com", Password: "Ab1"}},
		{"no uppercase", RegisterRequest{Username: "shopper", Email: "a@example.com", Password: "str0ngpassw0rd"}},
		{"no digit", RegisterRequest{Username: "shopper", Email: "a@example.com", Password: "StrongPassword"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			err := req.Validate()
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestUpdateProfileRequestValidate(t *testing.T) {
	empty := UpdateProfileRequest{}
	assert.Error(t, empty.Validate(), "at least one field is required")

	addrOnly := UpdateProfileRequest{Address: "12 MG Road, Pune"}
	require.NoError(t, addrOnly.Validate())

	badEmail := UpdateProfileRequest{Email: "nope"}
	assert.Error(t, badEmail.Validate())
}
