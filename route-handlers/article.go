package routehandlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wikitok/backend/datastore"
	"github.com/wikitok/backend/models"
	"github.com/wikitok/backend/webutil"
)

type ArticleHandler struct {
	Repo *datastore.ArticleRepository
}

func NewArticleHandler(repo *datastore.ArticleRepository) *ArticleHandler {
	return &ArticleHandler{Repo: repo}
}

// saveArticleRequest mirrors the article object the client already holds.
// Unknown fields (e.g. "extract") are ignored.
type saveArticleRequest struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Summary   string  `json:"summary"`
	URL       string  `json:"url"`
	Thumbnail *string `json:"thumbnail"`
}

// HandleSaveArticle stores an article the first time its id is seen and
// returns the stored copy on every call.
// Route: POST /api/articles
func (h *ArticleHandler) HandleSaveArticle(w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	var req saveArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return webutil.ErrBadRequest("Missing required fields")
		}
		return webutil.ErrBadRequestWrap("Invalid request payload: "+err.Error(), err)
	}

	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Title) == "" {
		return webutil.ErrBadRequest("Missing required fields")
	}

	article, created, err := h.Repo.SaveArticle(r.Context(), &models.Article{
		WikiID:    req.ID,
		Title:     req.Title,
		Summary:   req.Summary,
		URL:       req.URL,
		Thumbnail: req.Thumbnail,
	})
	if err != nil {
		return webutil.ErrPersistenceWrap("failed to save article", err)
	}

	if created {
		slog.Info("Article saved", "wiki_id", article.WikiID, "id", article.ID)
	}
	webutil.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"message": "Article saved",
		"article": article,
	})
	return nil
}
