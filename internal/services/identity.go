package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pathwise/pathwise-backend/internal/logger"
	"github.com/pathwise/pathwise-backend/internal/repos"
	"github.com/pathwise/pathwise-backend/internal/requestdata"
	"github.com/pathwise/pathwise-backend/internal/types"
)

// IdentityService maps the external identity-provider session to an internal
// user record, creating one when absent. Resolution runs on every guarded
// call and is never cached.
type IdentityService interface {
	// Resolve applies the email -> name -> guest precedence for the session
	// attached to ctx.
	Resolve(ctx context.Context, tx *gorm.DB) (*types.User, error)
}

type identityService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewIdentityService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) IdentityService {
	return &identityService{
		db:       db,
		log:      log.With("service", "IdentityService"),
		userRepo: userRepo,
	}
}

func (is *identityService) Resolve(ctx context.Context, tx *gorm.DB) (*types.User, error) {
	session := requestdata.GetSession(ctx)
	email := strings.TrimSpace(strings.ToLower(session.Email))
	name := strings.TrimSpace(session.Name)

	switch {
	case email != "":
		return is.resolveByEmail(ctx, tx, email, name)
	case name != "":
		return is.resolveByName(ctx, tx, name)
	default:
		return is.resolveGuest(ctx, tx)
	}
}

func (is *identityService) resolveByEmail(ctx context.Context, tx *gorm.DB, email, name string) (*types.User, error) {
	user, err := is.userRepo.UpsertByEmail(ctx, tx, &types.User{Email: &email, Name: name})
	if err != nil {
		return nil, fmt.Errorf("resolve user by email: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("resolve user by email: upsert returned no row")
	}
	return user, nil
}

// Name is not a uniqueness constraint; collisions resolve to the most
// recently created user with that name.
func (is *identityService) resolveByName(ctx context.Context, tx *gorm.DB, name string) (*types.User, error) {
	existing, err := is.userRepo.LatestByName(ctx, tx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve user by name: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	created, err := is.userRepo.Create(ctx, tx, &types.User{Name: name})
	if err != nil {
		return nil, fmt.Errorf("create user by name: %w", err)
	}
	return created, nil
}

func (is *identityService) resolveGuest(ctx context.Context, tx *gorm.DB) (*types.User, error) {
	guestEmail := types.GuestEmail
	user, err := is.userRepo.UpsertByEmail(ctx, tx, &types.User{Email: &guestEmail, Name: "Guest"})
	if err != nil {
		return nil, fmt.Errorf("resolve guest user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("resolve guest user: upsert returned no row")
	}
	return user, nil
}
