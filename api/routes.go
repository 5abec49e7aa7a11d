package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rh "github.com/wikitok/backend/route-handlers"
	"github.com/wikitok/backend/webutil"
)

const (
	apiBasePath      = "/api"
	healthPath       = "/health"
	articlesBasePath = "/articles"
	userBasePath     = "/user"
)

const (
	likedSubPath   = "/liked"
	historySubPath = "/history"
	likeSubPath    = "/like"
	viewSubPath    = "/view"
	statsSubPath   = "/stats"
)

const (
	paramID = "id" // wiki_id of the article
)

const defaultRequestTimeout = 60 * time.Second

// Options tunes the router's middleware.
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func SetupRoutes(
	opts Options,
	articleHandler *rh.ArticleHandler,
	interactionHandler *rh.InteractionHandler,
	userHandler *rh.UserHandler,
) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Log every request
	r.Use(Recoverer) // Recover from panics as JSON 500s
	r.Use(Timeout(opts.RequestTimeout))
	r.Use(CORS(opts.AllowedOrigins))

	r.NotFound(webutil.MakeHandler(handleRouteNotFound))
	r.MethodNotAllowed(webutil.MakeHandler(handleMethodNotAllowed))

	r.Route(apiBasePath, func(r chi.Router) {
		r.Get(healthPath, rh.HandleHealthCheck)
		configureArticleRoutes(r, articleHandler, interactionHandler)
		configureUserRoutes(r, userHandler)
	})

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- Article Routes ---
func configureArticleRoutes(r chi.Router, articleHandler *rh.ArticleHandler, interactionHandler *rh.InteractionHandler) {
	specificArticlePath := pathWithParam("", paramID) // e.g., "/{id}"

	r.Route(articlesBasePath, func(r chi.Router) {
		r.Post("/", webutil.MakeHandler(articleHandler.HandleSaveArticle))
		r.Get(likedSubPath, webutil.MakeHandler(interactionHandler.HandleGetLikedArticles))
		r.Get(historySubPath, webutil.MakeHandler(interactionHandler.HandleGetHistory))
		r.Route(specificArticlePath, func(r chi.Router) {
			r.Post(likeSubPath, webutil.MakeHandler(interactionHandler.HandleLikeArticle))     // POST /articles/{id}/like
			r.Delete(likeSubPath, webutil.MakeHandler(interactionHandler.HandleUnlikeArticle)) // DELETE /articles/{id}/like
			r.Post(viewSubPath, webutil.MakeHandler(interactionHandler.HandleViewArticle))     // POST /articles/{id}/view
		})
	})
}

// --- User Routes ---
func configureUserRoutes(r chi.Router, userHandler *rh.UserHandler) {
	r.Route(userBasePath, func(r chi.Router) {
		r.Get(statsSubPath, webutil.MakeHandler(userHandler.HandleGetUserStats))
	})
}

func handleRouteNotFound(w http.ResponseWriter, r *http.Request) error {
	return webutil.ErrRouteNotFound()
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) error {
	return webutil.ErrMethodNotAllowed()
}
