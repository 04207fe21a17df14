package config

const backendURLVar = "BACKEND_URL"

type Backend struct{}

var _ BackendConfig = Backend{}

// GetBackendBaseURL returns the base URL of the NewNow REST backend
// (e.g. "http://localhost:8080"). All API paths are resolved against it.
func (Backend) GetBackendBaseURL() string {
	return GetEnv(backendURLVar, "http://localhost:8080")
}
