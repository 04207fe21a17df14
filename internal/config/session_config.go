package config

import "path/filepath"

const credentialFileVar = "CREDENTIAL_FILE"

type Session struct{}

var _ SessionConfig = Session{}

// GetCredentialFile returns the path of the file the credential store
// persists tokens to. Defaults to session.json inside the data folder.
func (Session) GetCredentialFile() string {
	if file := GetEnv(credentialFileVar, ""); file != "" {
		return file
	}
	return filepath.Join(EnvVars{}.GetDataFolder(), "session.json")
}
