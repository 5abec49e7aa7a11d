// Package session maps an incoming request to the user it acts for.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/wikitok/backend/datastore"
	"github.com/wikitok/backend/models"
	"github.com/wikitok/backend/webutil"
)

const (
	ModeDemo  = "demo"
	ModeToken = "token"
)

const bearerPrefix = "Bearer "

// ErrNoIdentity means the request could not be tied to any user.
var ErrNoIdentity = errors.New("no identity for request")

// Resolver returns the user a request acts for. Implementations return
// ErrNoIdentity (possibly wrapped) when there is none.
type Resolver interface {
	CurrentUser(r *http.Request) (*models.User, error)
}

// UserLookup is the part of the user store the resolvers need.
type UserLookup interface {
	GetFirstUser(ctx context.Context) (*models.User, error)
	GetUserByTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
}

// New returns the resolver configured by mode.
func New(mode string, users UserLookup) (Resolver, error) {
	switch strings.ToLower(mode) {
	case ModeDemo:
		return NewDemoResolver(users), nil
	case ModeToken:
		return NewTokenResolver(users), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", mode)
	}
}

// DemoResolver ignores request credentials and always acts as the first
// user ever created (the seeded demo account).
type DemoResolver struct {
	users UserLookup
}

func NewDemoResolver(users UserLookup) *DemoResolver {
	return &DemoResolver{users: users}
}

func (d *DemoResolver) CurrentUser(r *http.Request) (*models.User, error) {
	user, err := d.users.GetFirstUser(r.Context())
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return nil, ErrNoIdentity
		}
		return nil, err
	}
	return user, nil
}

// TokenResolver authenticates "Authorization: Bearer <token>" against the
// SHA-256 token hashes stored on users.
type TokenResolver struct {
	users UserLookup
}

func NewTokenResolver(users UserLookup) *TokenResolver {
	return &TokenResolver{users: users}
}

func (t *TokenResolver) CurrentUser(r *http.Request) (*models.User, error) {
	header := r.Header.Get(webutil.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, ErrNoIdentity
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return nil, ErrNoIdentity
	}

	hash, err := webutil.GenerateHash(token)
	if err != nil {
		return nil, fmt.Errorf("failed to hash bearer token: %w", err)
	}

	user, err := t.users.GetUserByTokenHash(r.Context(), hash)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return nil, fmt.Errorf("unknown bearer token: %w", ErrNoIdentity)
		}
		return nil, err
	}
	return user, nil
}
