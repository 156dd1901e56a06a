package permissions_test

import (
	"testing"
	"vprime/permissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)
	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)
}

func TestPermissionData_FindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name    string
		path    string
		method  string
		skip    bool
		allowed []string
	}{
		{"public list", "/api/gallery", "GET", true, nil},
		{"mounted root pattern keeps its slash", "/api/gallery/", "GET", true, nil},
		{"public detail", "/api/gallery/{key}", "GET", true, nil},
		{"public like", "/api/gallery/{key}/like", "POST", true, nil},
		{"admin create", "/api/gallery/", "POST", false, []string{"admin"}},
		{"admin update", "/api/gallery/{key}", "PUT", false, []string{"admin"}},
		{"admin testimonial delete", "/api/testimonials/{key}", "DELETE", false, []string{"admin"}},
		{"admin upload", "/api/uploads/", "POST", false, []string{"admin"}},
		{"login", "/api/auth/login", "POST", true, nil},
		{"method is case-insensitive", "/api/testimonials", "get", true, nil},
		{"unknown", "/api/nope", "GET", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := data.FindPermissions(tt.path, tt.method)
			assert.Equal(t, tt.skip, got.Skip)
			assert.Equal(t, tt.allowed, got.Permissions)
		})
	}
}

func TestParse(t *testing.T) {
	data, err := permissions.Parse([]byte(`{"endpoints":[{"path":"/api/things/","method":"post","permissions":["editor"]}]}`))
	require.NoError(t, err)

	got := data.FindPermissions("/api/things", "POST")
	assert.Equal(t, []string{"editor"}, got.Permissions)
	assert.False(t, got.Skip)

	_, err = permissions.Parse([]byte(`{"endpoints":`))
	assert.Error(t, err)
}
