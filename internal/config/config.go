package config

type Config interface {
	EnvConfig
	BackendConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

type BackendConfig interface {
	GetBackendBaseURL() string
}

type SessionConfig interface {
	GetCredentialFile() string
}

type mainConfig struct {
	EnvVars
	Backend
	Session
}

func New() Config {
	return mainConfig{}
}
