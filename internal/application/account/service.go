// Package account provisions admin accounts outside the sign-in flow.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/pkg/id"
	"github.com/portfolio-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// SeedInput describes the admin account to create.
type SeedInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type accountStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Put(ctx context.Context, a *domain.Account) error
}

// SeedAdmin creates an admin account unless one with the same email exists,
// in which case the existing account is returned with created=false.
// A zero cost uses bcrypt.DefaultCost.
func SeedAdmin(ctx context.Context, repo accountStore, in SeedInput, cost int) (acct *domain.Account, created bool, err error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(&in); err != nil {
		return nil, false, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	existing, err := repo.GetByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("account lookup: %v: %w", err, domain.ErrInternal)
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %v: %w", err, domain.ErrInternal)
	}
	now := time.Now().UTC()
	acct = &domain.Account{
		AccountID:    id.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Put(ctx, acct); err != nil {
		return nil, false, fmt.Errorf("store account: %v: %w", err, domain.ErrInternal)
	}
	return acct, true, nil
}
