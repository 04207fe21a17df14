package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/newnow-platform/newnow-web/identity"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// FileStore persists credentials as a single JSON document on disk so a
// session survives process restarts. The document holds the three
// logical keys; the identity is stored serialized under user_data.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("[NewFileStore] path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] create data folder")
	}
	return &FileStore{path: path}, nil
}

// Save writes all three fields in one document. The write goes to a
// temp file first and is renamed into place, so a reader never observes
// a half-written session.
func (fs *FileStore) Save(accessToken, refreshToken string, id *identity.Identity) error {
	doc := map[string]string{
		KeyAccessToken:  accessToken,
		KeyRefreshToken: refreshToken,
	}
	if id != nil {
		userData, err := json.Marshal(id)
		if err != nil {
			return errors.Wrap(err, "[FileStore.Save] marshal identity")
		}
		doc[KeyUserData] = string(userData)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] marshal document")
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.Save] write temp file")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.Wrap(err, "[FileStore.Save] rename into place")
	}
	return nil
}

// Load reads the stored credentials. A missing file is an empty
// session, not an error. A corrupt document or a malformed identity
// falls back to absent fields.
func (fs *FileStore) Load() (Credentials, error) {
	payload, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, errors.Wrap(err, "[FileStore.Load] read file")
	}

	var doc map[string]string
	if err := json.Unmarshal(payload, &doc); err != nil {
		log.Warn().Err(err).Str("file", fs.path).Msg("Corrupt credential file, treating as no session")
		return Credentials{}, nil
	}

	creds := Credentials{
		AccessToken:  doc[KeyAccessToken],
		RefreshToken: doc[KeyRefreshToken],
	}
	if userData := doc[KeyUserData]; userData != "" {
		var id identity.Identity
		if err := json.Unmarshal([]byte(userData), &id); err != nil {
			log.Warn().Err(err).Msg("Malformed stored identity, treating as absent")
		} else {
			creds.Identity = &id
		}
	}
	return creds, nil
}

// Clear removes the credential file. Clearing an already empty store
// is a no-op.
func (fs *FileStore) Clear() error {
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] remove file")
	}
	return nil
}
