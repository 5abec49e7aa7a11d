package routehandlers

import (
	"net/http"

	"github.com/wikitok/backend/datastore"
	"github.com/wikitok/backend/models"
	"github.com/wikitok/backend/session"
	"github.com/wikitok/backend/webutil"
)

type UserHandler struct {
	Interactions *datastore.InteractionRepository
	Session      session.Resolver
}

func NewUserHandler(interactions *datastore.InteractionRepository, resolver session.Resolver) *UserHandler {
	return &UserHandler{Interactions: interactions, Session: resolver}
}

// HandleGetUserStats returns the acting user's viewed and liked counts.
// Route: GET /api/user/stats
func (h *UserHandler) HandleGetUserStats(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(h.Session, r)
	if err != nil {
		return err
	}

	viewed, err := h.Interactions.CountViewed(r.Context(), user.ID)
	if err != nil {
		return webutil.ErrPersistenceWrap("failed to count viewed articles", err)
	}
	liked, err := h.Interactions.CountLiked(r.Context(), user.ID)
	if err != nil {
		return webutil.ErrPersistenceWrap("failed to count liked articles", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, models.UserStats{
		TotalViewed: viewed,
		TotalLiked:  liked,
		User:        user,
	})
	return nil
}
