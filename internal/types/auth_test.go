//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminLoginRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request AdminLoginRequest
		wantErr bool
	}{
		{"valid request", AdminLoginRequest{Username: "admin", Password: "secret"}, false},
		{"missing username", AdminLoginRequest{Password: "secret"}, true},
		{"missing password", AdminLoginRequest{Username: "admin"}, true},
		{"empty request", AdminLoginRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&BrowseRequest{Owner: "acme", Repo: "widgets"}))
	assert.Error(t, ValidateRequest(&BrowseRequest{Owner: "acme"}))
	assert.Error(t, ValidateRequest(&ContentRequest{}))
	assert.Error(t, ValidateRequest(&ComponentSourceRequest{Owner: "acme", Path: "hero"}))
	assert.Error(t, ValidateRequest(&CreateTemplateRequest{Name: "Hero"}))
}
