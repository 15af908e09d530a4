package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/wargaid/apiserver/internal/auth"
	"github.com/wargaid/apiserver/internal/events"
	"github.com/wargaid/apiserver/internal/store"
	"github.com/wargaid/apiserver/internal/validation"
	"github.com/wargaid/apiserver/types"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	CountByID(ctx context.Context, id int64) (int, error)
	GetByID(ctx context.Context, id int64) (types.User, error)
	GetByToken(ctx context.Context, token string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateProfile(ctx context.Context, id int64, patch types.UserPatch) (types.User, error)
	UpdateToken(ctx context.Context, id int64, token sql.NullString) error
}

// UserService encapsulates account use-cases: registration, login, profile
// access and updates, and logout. It owns all business rules; validation
// always runs before any repository access.
type UserService struct {
	repo       UserRepository
	bcryptCost int
	events     *events.Publisher
}

func NewUserService(repo UserRepository, bcryptCost int, publisher *events.Publisher) *UserService {
	if bcryptCost == 0 {
		bcryptCost = auth.DefaultCost
	}
	return &UserService{
		repo:       repo,
		bcryptCost: bcryptCost,
		events:     publisher,
	}
}

// Register creates a new account. The secret is hashed before persistence
// and never appears in the result.
func (s *UserService) Register(ctx context.Context, req validation.RegisterRequest) (types.Profile, error) {
	input, err := validation.Register(req)
	if err != nil {
		return types.Profile{}, err
	}

	count, err := s.repo.CountByID(ctx, input.ID)
	if err != nil {
		return types.Profile{}, err
	}
	if count != 0 {
		return types.Profile{}, ErrIDExists
	}

	hash, err := auth.HashSecret(formatNIK(input.NIK), s.bcryptCost)
	if err != nil {
		return types.Profile{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		ID:      input.ID,
		Name:    input.Name,
		NIKHash: hash,
	})
	if err != nil {
		// The count check races with concurrent registration; the store's
		// uniqueness constraint is the arbiter.
		if errors.Is(err, store.ErrDuplicateID) {
			return types.Profile{}, ErrIDExists
		}
		return types.Profile{}, err
	}

	s.events.Account(ctx, events.TypeRegistered, user.ID)
	return user.Profile(), nil
}

// Login verifies credentials and issues a fresh session token, replacing
// any previous one.
func (s *UserService) Login(ctx context.Context, req validation.LoginRequest) (types.Session, error) {
	input, err := validation.Login(req)
	if err != nil {
		return types.Session{}, err
	}

	user, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Session{}, ErrInvalidCredentials
		}
		return types.Session{}, err
	}

	if !auth.VerifySecret(user.NIKHash, formatNIK(input.NIK)) {
		return types.Session{}, ErrInvalidCredentials
	}

	token := auth.NewToken()
	if err := s.repo.UpdateToken(ctx, user.ID, sql.NullString{String: token, Valid: true}); err != nil {
		return types.Session{}, err
	}

	s.events.Account(ctx, events.TypeLoggedIn, user.ID)
	return types.Session{Token: token}, nil
}

// Authenticate resolves a raw Authorization header value to the account
// holding it as its session token.
func (s *UserService) Authenticate(ctx context.Context, token string) (types.User, error) {
	identity, err := validation.Identity(token)
	if err != nil {
		return types.User{}, err
	}
	return s.repo.GetByToken(ctx, identity)
}

// Current returns the profile of the account with the given ID.
func (s *UserService) Current(ctx context.Context, id int64) (types.Profile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.Profile{}, err
	}
	return user.Profile(), nil
}

// Update applies a partial profile update. Only supplied fields change;
// a supplied secret is re-hashed before persistence.
func (s *UserService) Update(ctx context.Context, id int64, req validation.UpdateRequest) (types.Profile, error) {
	input, err := validation.Update(req)
	if err != nil {
		return types.Profile{}, err
	}

	count, err := s.repo.CountByID(ctx, id)
	if err != nil {
		return types.Profile{}, err
	}
	if count != 1 {
		return types.Profile{}, store.ErrNotFound
	}

	patch := types.UserPatch{Name: input.Name}
	if input.NIK != nil {
		hash, err := auth.HashSecret(formatNIK(*input.NIK), s.bcryptCost)
		if err != nil {
			return types.Profile{}, err
		}
		patch.NIKHash = &hash
	}

	user, err := s.repo.UpdateProfile(ctx, id, patch)
	if err != nil {
		return types.Profile{}, err
	}
	return user.Profile(), nil
}

// Logout clears the account's session token, ending its single live session.
func (s *UserService) Logout(ctx context.Context, id int64) error {
	if err := s.repo.UpdateToken(ctx, id, sql.NullString{}); err != nil {
		return err
	}
	s.events.Account(ctx, events.TypeLoggedOut, id)
	return nil
}

func formatNIK(nik int64) string {
	return strconv.FormatInt(nik, 10)
}
