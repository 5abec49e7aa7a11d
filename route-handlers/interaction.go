package routehandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wikitok/backend/datastore"
	"github.com/wikitok/backend/session"
	"github.com/wikitok/backend/webutil"
)

// InteractionHandler serves the per-user like, view, liked-list and history
// endpoints. The {id} path parameter is the article's wiki_id.
type InteractionHandler struct {
	Interactions *datastore.InteractionRepository
	Articles     *datastore.ArticleRepository
	Session      session.Resolver
}

func NewInteractionHandler(
	interactions *datastore.InteractionRepository,
	articles *datastore.ArticleRepository,
	resolver session.Resolver,
) *InteractionHandler {
	return &InteractionHandler{
		Interactions: interactions,
		Articles:     articles,
		Session:      resolver,
	}
}

// Route: POST /api/articles/{id}/like
func (h *InteractionHandler) HandleLikeArticle(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(h.Session, r)
	if err != nil {
		return err
	}

	interaction, err := h.Interactions.LikeArticle(r.Context(), user.ID, chi.URLParam(r, paramID))
	if err != nil {
		return articleError(err, "failed to like article")
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message":     "Article liked",
		"interaction": interaction,
	})
	return nil
}

// Route: DELETE /api/articles/{id}/like
func (h *InteractionHandler) HandleUnlikeArticle(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(h.Session, r)
	if err != nil {
		return err
	}

	if err := h.Interactions.UnlikeArticle(r.Context(), user.ID, chi.URLParam(r, paramID)); err != nil {
		return articleError(err, "failed to unlike article")
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Article unliked"})
	return nil
}

// Route: POST /api/articles/{id}/view
func (h *InteractionHandler) HandleViewArticle(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(h.Session, r)
	if err != nil {
		return err
	}

	if _, err := h.Interactions.RecordView(r.Context(), user.ID, chi.URLParam(r, paramID)); err != nil {
		return articleError(err, "failed to record view")
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "View recorded"})
	return nil
}

// Route: GET /api/articles/liked
func (h *InteractionHandler) HandleGetLikedArticles(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(h.Session, r)
	if err != nil {
		return err
	}

	articles, err := h.Articles.GetLikedArticles(r.Context(), user.ID)
	if err != nil {
		return webutil.ErrPersistenceWrap("failed to retrieve liked articles", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{"articles": articles})
	return nil
}

// Route: GET /api/articles/history
func (h *InteractionHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(h.Session, r)
	if err != nil {
		return err
	}

	history, err := h.Articles.GetHistory(r.Context(), user.ID)
	if err != nil {
		return webutil.ErrPersistenceWrap("failed to retrieve history", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{"articles": history})
	return nil
}
