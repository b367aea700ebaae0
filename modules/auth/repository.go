package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	domain "github.com/example/cityshades/domain/user"
	"github.com/example/cityshades/modules/datastore"
	"github.com/go-monolith/mono/pkg/types"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when the username is already taken.
	ErrUserExists = errors.New("user with this username already exists")
)

// UserRepository reads and writes the users collection.
type UserRepository struct {
	users *datastore.Collection[domain.User]
}

// NewUserRepository creates a UserRepository over store.
func NewUserRepository(store datastore.Store, logger types.Logger) *UserRepository {
	return &UserRepository{
		users: datastore.NewCollection[domain.User](store, datastore.Users, logger),
	}
}

// FindByLogin matches login against usernames case-insensitively, then against emails.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	users, err := r.users.All(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, login) {
			return u, nil
		}
	}
	for _, u := range users {
		if u.Email != "" && strings.EqualFold(u.Email, login) {
			return u, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

// FindByID finds a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	users, err := r.users.All(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

// Count returns the number of stored users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	users, err := r.users.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

// Create appends user with the next sequential id and returns the stored copy.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	err := r.users.UpdateHeld(ctx, func(users []domain.User, held []json.RawMessage) ([]domain.User, error) {
		maxID := datastore.MaxID(held)
		for _, u := range users {
			if strings.EqualFold(u.Username, user.Username) {
				return nil, ErrUserExists
			}
			maxID = max(maxID, u.ID)
		}
		user.ID = maxID + 1
		return append(users, user), nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
