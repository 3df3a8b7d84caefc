package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/cbodonnell/rocketjam/pkg/auth/providers"
	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/repositories"
	"github.com/cbodonnell/rocketjam/pkg/repositories/models"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCacheSize  = 1024
	MinPasswordLength = 6
	MaxUsernameLength = 64
)

var (
	ErrUserNotFound       = errors.New("not found")
	ErrWrongPassword      = errors.New("wrong pw")
	ErrInvalidUsername    = errors.New("username must be 1 to 64 letters, digits, '_' or '-'")
	ErrWeakPassword       = fmt.Errorf("password should be at least %d characters", MinPasswordLength)
	ErrTokenLoginDisabled = errors.New("token login is not configured")
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// IdentityResolver maps credentials and user IDs to users.
type IdentityResolver interface {
	// FindByID returns ErrUserNotFound for an unknown id.
	FindByID(ctx context.Context, id types.UserID) (*models.User, error)
	// Authenticate checks a username and password pair.
	Authenticate(ctx context.Context, username string, password string) (*models.User, error)
	// Register creates a user with a hashed password.
	Register(ctx context.Context, username string, password string) (*models.User, error)
	// AuthenticateToken verifies an ID token and returns the user named
	// after its subject, creating it on first use.
	AuthenticateToken(ctx context.Context, idToken string) (*models.User, error)
}

var _ IdentityResolver = &Resolver{}

// Resolver is an IdentityResolver backed by the user repository with a
// read-through cache of users by ID.
type Resolver struct {
	repository   repositories.Repository
	authProvider providers.AuthProvider
	cache        *lru.Cache[types.UserID, models.User]
	bcryptCost   int
}

type NewResolverOptions struct {
	Repository repositories.Repository
	// AuthProvider enables AuthenticateToken. Optional.
	AuthProvider providers.AuthProvider
	// CacheSize defaults to DefaultCacheSize.
	CacheSize int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

func NewResolver(opts NewResolverOptions) (*Resolver, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[types.UserID, models.User](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create user cache: %v", err)
	}

	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Resolver{
		repository:   opts.Repository,
		authProvider: opts.AuthProvider,
		cache:        cache,
		bcryptCost:   cost,
	}, nil
}

func (r *Resolver) FindByID(ctx context.Context, id types.UserID) (*models.User, error) {
	if user, ok := r.cache.Get(id); ok {
		return &user, nil
	}

	user, err := r.repository.FindUserByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user %d: %v", id, err)
	}
	r.remember(user)
	return user, nil
}

func (r *Resolver) Authenticate(ctx context.Context, username string, password string) (*models.User, error) {
	user, err := r.repository.FindUserByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user %s: %v", username, err)
	}

	if user.HashedPassword == "" || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, ErrWrongPassword
	}

	r.remember(user)
	return user, nil
}

func (r *Resolver) Register(ctx context.Context, username string, password string) (*models.User, error) {
	if len(username) == 0 || len(username) > MaxUsernameLength || !usernameRegex.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user, err := r.repository.CreateUser(ctx, username, string(hash))
	if err != nil {
		if repositories.IsNameExists(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user %s: %v", username, err)
	}

	log.Info("Registered user %s with id %d", user.Username, user.ID)
	r.remember(user)
	return user, nil
}

func (r *Resolver) AuthenticateToken(ctx context.Context, idToken string) (*models.User, error) {
	if r.authProvider == nil {
		return nil, ErrTokenLoginDisabled
	}

	claims, err := r.authProvider.VerifyToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %v", err)
	}

	user, err := r.repository.FindUserByUsername(ctx, claims.UID)
	if err == nil {
		r.remember(user)
		return user, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, fmt.Errorf("failed to find user %s: %v", claims.UID, err)
	}

	user, err = r.repository.CreateUser(ctx, claims.UID, "")
	if repositories.IsNameExists(err) {
		// created concurrently by another login with the same token subject
		user, err = r.repository.FindUserByUsername(ctx, claims.UID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %v", claims.UID, err)
	}

	log.Info("Created user %d for token subject %s", user.ID, claims.UID)
	r.remember(user)
	return user, nil
}

func (r *Resolver) remember(user *models.User) {
	r.cache.Add(user.ID, *user)
}
