package sessionfakes

import (
	"context"
	"errors"
	"sync"

	"github.com/newnow-platform/newnow-web/backend"
	"github.com/newnow-platform/newnow-web/session"
)

var _ session.AuthClient = (*FakeAuthClient)(nil)

// FakeAuthClient is a programmable session.AuthClient for tests. Each
// operation runs its hook when set and counts its calls.
type FakeAuthClient struct {
	lock sync.Mutex

	LoginFn    func(email, password string) (*backend.AuthResponse, error)
	RegisterFn func(req backend.RegisterRequest) (*backend.MessageResponse, error)
	RefreshFn  func(refreshToken string) (*backend.AuthResponse, error)
	LogoutFn   func() (*backend.MessageResponse, error)

	LoginCalls    int
	RegisterCalls int
	RefreshCalls  int
	LogoutCalls   int
}

func NewFakeAuthClient() *FakeAuthClient {
	return &FakeAuthClient{}
}

func (f *FakeAuthClient) Login(_ context.Context, email, password string) (*backend.AuthResponse, error) {
	f.lock.Lock()
	f.LoginCalls++
	fn := f.LoginFn
	f.lock.Unlock()

	if fn == nil {
		return nil, errors.New("fake: LoginFn not configured")
	}
	return fn(email, password)
}

func (f *FakeAuthClient) RegisterRequest(_ context.Context, req backend.RegisterRequest) (*backend.MessageResponse, error) {
	f.lock.Lock()
	f.RegisterCalls++
	fn := f.RegisterFn
	f.lock.Unlock()

	if fn == nil {
		return nil, errors.New("fake: RegisterFn not configured")
	}
	return fn(req)
}

func (f *FakeAuthClient) Refresh(_ context.Context, refreshToken string) (*backend.AuthResponse, error) {
	f.lock.Lock()
	f.RefreshCalls++
	fn := f.RefreshFn
	f.lock.Unlock()

	if fn == nil {
		return nil, errors.New("fake: RefreshFn not configured")
	}
	return fn(refreshToken)
}

func (f *FakeAuthClient) Logout(_ context.Context) (*backend.MessageResponse, error) {
	f.lock.Lock()
	f.LogoutCalls++
	fn := f.LogoutFn
	f.lock.Unlock()

	if fn == nil {
		return nil, errors.New("fake: LogoutFn not configured")
	}
	return fn()
}
