package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses. Unknown errors are
// logged and reported as 500 with fallback as the message.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflicting update", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, portsrepo.ErrRemote):
		logger.Warn("Accounting gateway rejected the request", slog.String("error", err.Error()))
		msg := err.Error()
		var remote *portsrepo.RemoteError
		if errors.As(err, &remote) {
			// The gateway's own wording is shown to the operator unchanged.
			msg = remote.Error()
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
