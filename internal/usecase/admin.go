package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
)

// AdminUseCase handles staff accounts and token management.
type AdminUseCase struct {
	admins repository.AdminRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAdminUseCase constructs AdminUseCase.
func NewAdminUseCase(admins repository.AdminRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AdminUseCase {
	return &AdminUseCase{admins: admins, hasher: hasher, tokens: strategy}
}

// Create registers a new admin account.
func (u *AdminUseCase) Create(ctx context.Context, email, password string) (*model.Admin, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}
	if len(password) < pkgAuth.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", domainErrors.ErrInvalidCredentials, pkgAuth.MinPasswordLength)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	admin, err := u.admins.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return admin, nil
}

// Login validates credentials and returns auth token.
func (u *AdminUseCase) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", domainErrors.ErrInvalidCredentials
	}

	admin, err := u.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "", err
	}

	if err := u.hasher.Compare(admin.PasswordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}

	return u.tokens.IssueToken(admin.ID)
}

// ParseToken extracts admin ID from provided token.
func (u *AdminUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// List returns all admins.
func (u *AdminUseCase) List(ctx context.Context) ([]model.Admin, error) {
	return u.admins.List(ctx)
}

// Delete removes another admin. Admins cannot remove themselves.
func (u *AdminUseCase) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return fmt.Errorf("%w: cannot delete own account", domainErrors.ErrPermissionDenied)
	}
	return u.admins.Delete(ctx, id)
}

// Bootstrap creates the first admin when the store has none. Returns whether an account was created.
func (u *AdminUseCase) Bootstrap(ctx context.Context, email, password string) (bool, error) {
	if normalizeEmail(email) == "" || password == "" {
		return false, nil
	}
	count, err := u.admins.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := u.Create(ctx, email, password); err != nil {
		return false, err
	}
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
