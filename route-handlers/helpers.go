package routehandlers

import (
	"errors"
	"net/http"

	"github.com/wikitok/backend/datastore"
	"github.com/wikitok/backend/models"
	"github.com/wikitok/backend/session"
	"github.com/wikitok/backend/webutil"
)

const (
	paramID = "id"

	msgArticleNotFound = "Article not found"
)

// currentUser resolves the acting user, turning a missing identity into a 401.
func currentUser(resolver session.Resolver, r *http.Request) (*models.User, error) {
	user, err := resolver.CurrentUser(r)
	if err != nil {
		if errors.Is(err, session.ErrNoIdentity) {
			return nil, webutil.ErrUnauthorizedWrap("", err)
		}
		return nil, webutil.ErrPersistenceWrap("failed to resolve current user", err)
	}
	return user, nil
}

// articleError maps a datastore error from an article-scoped operation.
func articleError(err error, action string) error {
	if errors.Is(err, datastore.ErrArticleNotFound) {
		return webutil.ErrNotFoundWrap(msgArticleNotFound, err)
	}
	return webutil.ErrPersistenceWrap(action, err)
}
