package middleware

import (
	"context"
	"net/http"

	"techdesk_backend/internal/database"
	"techdesk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// LeaseProvider hands out pooled connections. *database.Pool satisfies it.
type LeaseProvider interface {
	Acquire(ctx context.Context) (*database.Lease, error)
}

// ConnLease leases one connection for the whole request and returns it to the
// pool when the handler chain finishes, whatever the outcome.
func ConnLease(pool LeaseProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		lease, err := pool.Acquire(c.Request.Context())
		if err != nil {
			utils.LogError(err, "Failed to lease database connection", map[string]interface{}{
				"path": c.Request.URL.Path, "request_id": c.GetString("requestID"),
			})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError,
				"Database unavailable.", ""))
			return
		}
		defer lease.Release()

		c.Request = c.Request.WithContext(database.ContextWithLease(c.Request.Context(), lease))
		c.Next()
	}
}
