package credfakes

import (
	"sync"

	"github.com/newnow-platform/newnow-web/credentials"
	"github.com/newnow-platform/newnow-web/identity"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credentials.Store for tests. Optional error
// hooks let tests simulate storage failures.
type FakeStore struct {
	lock  sync.RWMutex
	creds credentials.Credentials

	SaveErr  error
	LoadErr  error
	ClearErr error

	SaveCalls  int
	ClearCalls int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Save(accessToken, refreshToken string, id *identity.Identity) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.SaveCalls++
	if fs.SaveErr != nil {
		return fs.SaveErr
	}
	fs.creds = credentials.Credentials{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Identity:     id.Clone(),
	}
	return nil
}

func (fs *FakeStore) Load() (credentials.Credentials, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.LoadErr != nil {
		return credentials.Credentials{}, fs.LoadErr
	}
	creds := fs.creds
	creds.Identity = creds.Identity.Clone()
	return creds, nil
}

func (fs *FakeStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.ClearCalls++
	if fs.ClearErr != nil {
		return fs.ClearErr
	}
	fs.creds = credentials.Credentials{}
	return nil
}

// Seed sets the stored credentials directly, bypassing Save accounting.
func (fs *FakeStore) Seed(creds credentials.Credentials) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.creds = creds
}
