// Package usecase implements the user business logic.
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/allisson/go-pwdhash"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/tokengate/internal/errors"
	tokenService "github.com/allisson/tokengate/internal/token/service"
	"github.com/allisson/tokengate/internal/user/domain"
	appValidation "github.com/allisson/tokengate/internal/validation"
)

// userCodeLength is the length of the opaque per-user code.
const userCodeLength = 32

// UseCase defines the interface for user business logic operations.
type UseCase interface {
	// CreateUser validates the input, hashes the password and stores a new user.
	CreateUser(ctx context.Context, input domain.CreateUserInput) (*domain.User, error)

	// VerifyCredentials authenticates a username/password pair. Returns
	// ErrInvalidCredentials for unknown usernames and wrong passwords alike.
	VerifyCredentials(ctx context.Context, username string, password string) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}

// UserRepository defines persistence operations for users and levels.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetLevel(ctx context.Context, levelID int64) (*domain.UserLevel, error)
}

// UserUseCase handles user-related business logic.
type UserUseCase struct {
	userRepo       UserRepository
	tokenGenerator tokenService.TokenGenerator
	passwordHasher *pwdhash.PasswordHasher
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	userRepo UserRepository,
	tokenGenerator tokenService.TokenGenerator,
) (UseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &UserUseCase{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		passwordHasher: hasher,
	}, nil
}

// validateCreateUserInput validates the creation input using jellydator/validation.
func (uc *UserUseCase) validateCreateUserInput(input domain.CreateUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("username must be between 1 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
		),
		validation.Field(&input.UserLevelID,
			validation.Required.Error("user_level_id is required"),
			validation.Min(int64(1)).Error("user_level_id must be positive"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateUser creates a new user with a hashed password and a random code.
func (uc *UserUseCase) CreateUser(ctx context.Context, input domain.CreateUserInput) (*domain.User, error) {
	if err := uc.validateCreateUserInput(input); err != nil {
		return nil, err
	}

	// The referenced level must exist before the insert.
	if _, err := uc.userRepo.GetLevel(ctx, input.UserLevelID); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordHasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	code, err := uc.tokenGenerator.GenerateToken(userCodeLength)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Code:        code,
		Username:    strings.TrimSpace(input.Username),
		Password:    hashedPassword,
		UserLevelID: input.UserLevelID,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// VerifyCredentials authenticates a username/password pair.
func (uc *UserUseCase) VerifyCredentials(
	ctx context.Context,
	username string,
	password string,
) (*domain.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// Unknown usernames collapse into the generic error to prevent enumeration.
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := uc.passwordHasher.Verify([]byte(password), user.Password)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (uc *UserUseCase) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}
