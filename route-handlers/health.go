package routehandlers

import (
	"net/http"

	"github.com/wikitok/backend/webutil"
)

// HandleHealthCheck is a liveness probe. It checks no dependencies.
// Route: GET /api/health
func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "WikiTok API is running",
	})
}
