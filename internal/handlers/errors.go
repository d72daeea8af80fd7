package handlers

import (
	"net/http"

	"github.com/BNsrujan/Youtube-Clone/internal/apperrors"
	"github.com/BNsrujan/Youtube-Clone/internal/handlers/render"
	"github.com/BNsrujan/Youtube-Clone/internal/logger"
)

// Render service error. Only internal ones are logged, the rest are the client's fault.
func renderError(w http.ResponseWriter, l logger.Logger, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		l.Error("Request failed", "error", err)
	}
	render.Error(w, err)
}
