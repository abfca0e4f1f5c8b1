package credentials_test

import (
	"context"
	"time"

	credentials "github.com/goliatone/go-credentials"
	"github.com/stretchr/testify/mock"
)

// MockIdentity implements credentials.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

// MockLogger implements credentials.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockIdentityStore implements credentials.IdentityStore for testing
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) FindByEmail(ctx context.Context, email string) (*credentials.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*credentials.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityStore) Exists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdentityStore) Insert(ctx context.Context, user *credentials.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// testConfig is a concrete credentials.Config for wiring tests
type testConfig struct {
	signingKey  string
	ttl         time.Duration
	issuer      string
	audience    []string
	contextKey  string
	tokenLookup string
	authScheme  string
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:  "test-signing-key",
		ttl:         30 * time.Minute,
		issuer:      "test-issuer",
		audience:    []string{"test-audience"},
		contextKey:  "user",
		tokenLookup: "header:Authorization",
		authScheme:  "Bearer",
	}
}

func (c testConfig) GetSigningKey() string             { return c.signingKey }
func (c testConfig) GetTokenExpiration() time.Duration { return c.ttl }
func (c testConfig) GetIssuer() string                 { return c.issuer }
func (c testConfig) GetAudience() []string             { return c.audience }
func (c testConfig) GetContextKey() string             { return c.contextKey }
func (c testConfig) GetTokenLookup() string            { return c.tokenLookup }
func (c testConfig) GetAuthScheme() string             { return c.authScheme }
