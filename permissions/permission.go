// Package permissions maps chi route patterns to the roles allowed to call them.
// The table is embedded from permissions.json and parsed once.
package permissions

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission describes one endpoint. Skip marks it public; Permissions lists the roles allowed otherwise.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// PermissionData is the whole table. A top level Skip turns role checks off everywhere.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

var load = sync.OnceValue(func() *PermissionData {
	data, err := Parse(permissionsData)
	if err != nil {
		log.Error().Err(err).Msg("embedded permissions are invalid")

		return nil
	}

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("permissions loaded")

	return data
})

// Get returns the embedded table, or nil when it cannot be parsed.
func Get() *PermissionData {
	return load()
}

func Parse(raw []byte) (*PermissionData, error) {
	var data PermissionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	data.index = make(map[string]Permission, len(data.Endpoints))
	for _, endpoint := range data.Endpoints {
		data.index[key(endpoint.Path, endpoint.Method)] = endpoint
	}

	return &data, nil
}

// FindPermissions looks up a chi route pattern and method. Unknown endpoints yield the zero Permission.
// A trailing slash is ignored, so /api/gallery/ from a mounted router matches /api/gallery.
func (d *PermissionData) FindPermissions(path, method string) Permission {
	return d.index[key(path, method)]
}

func key(path, method string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}
