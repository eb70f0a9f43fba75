// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
	tokenUseCase "github.com/allisson/tokengate/internal/token/usecase"
	userDomain "github.com/allisson/tokengate/internal/user/domain"
)

// MockAuthenticator is a mock implementation of Authenticator for testing.
type MockAuthenticator struct {
	mock.Mock
}

// GenerateToken mocks the GenerateToken method of Authenticator.
func (m *MockAuthenticator) GenerateToken(
	ctx context.Context,
	source tokenUseCase.CredentialSource,
	input *tokenDomain.GenerateTokenInput,
) (string, error) {
	args := m.Called(ctx, source, input)
	return args.String(0), args.Error(1)
}

// AttemptGetValidToken mocks the AttemptGetValidToken method of Authenticator.
func (m *MockAuthenticator) AttemptGetValidToken(
	ctx context.Context,
	source tokenUseCase.CredentialSource,
	filter tokenDomain.RoleFilter,
) (string, error) {
	args := m.Called(ctx, source, filter)
	return args.String(0), args.Error(1)
}

// GetUserID mocks the GetUserID method of Authenticator.
func (m *MockAuthenticator) GetUserID(
	ctx context.Context,
	source tokenUseCase.CredentialSource,
	explicitToken string,
) (int64, error) {
	args := m.Called(ctx, source, explicitToken)
	return args.Get(0).(int64), args.Error(1)
}

// GetUserObj mocks the GetUserObj method of Authenticator.
func (m *MockAuthenticator) GetUserObj(
	ctx context.Context,
	source tokenUseCase.CredentialSource,
	explicitToken string,
) (*tokenDomain.PrincipalView, error) {
	args := m.Called(ctx, source, explicitToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.PrincipalView), args.Error(1)
}

// GetUserLevel mocks the GetUserLevel method of Authenticator.
func (m *MockAuthenticator) GetUserLevel(
	ctx context.Context,
	source tokenUseCase.CredentialSource,
	explicitToken string,
) (string, error) {
	args := m.Called(ctx, source, explicitToken)
	return args.String(0), args.Error(1)
}

// RegenerateToken mocks the RegenerateToken method of Authenticator.
func (m *MockAuthenticator) RegenerateToken(
	ctx context.Context,
	oldToken string,
	newExpiryDate int64,
) (string, error) {
	args := m.Called(ctx, oldToken, newExpiryDate)
	return args.String(0), args.Error(1)
}

// Destroy mocks the Destroy method of Authenticator.
func (m *MockAuthenticator) Destroy(ctx context.Context, source tokenUseCase.CredentialSource) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

// DeleteOldTokens mocks the DeleteOldTokens method of Authenticator.
func (m *MockAuthenticator) DeleteOldTokens(ctx context.Context, userID *int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// CountOldTokens mocks the CountOldTokens method of Authenticator.
func (m *MockAuthenticator) CountOldTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserUseCase is a mock implementation of the user UseCase for testing.
type MockUserUseCase struct {
	mock.Mock
}

// CreateUser mocks the CreateUser method of UseCase.
func (m *MockUserUseCase) CreateUser(
	ctx context.Context,
	input userDomain.CreateUserInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// VerifyCredentials mocks the VerifyCredentials method of UseCase.
func (m *MockUserUseCase) VerifyCredentials(
	ctx context.Context,
	username string,
	password string,
) (*userDomain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// GetUserByID mocks the GetUserByID method of UseCase.
func (m *MockUserUseCase) GetUserByID(ctx context.Context, id int64) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}
