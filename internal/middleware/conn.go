package middleware

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/college-registration/internal/response"
)

const (
	// ContextKeyConn is the Gin context key for the request-scoped storage connection.
	ContextKeyConn = "db_conn"
)

// RequestConn acquires a dedicated connection from db for the lifetime of
// the request and releases it once the handler chain returns, including
// when a handler panics.
func RequestConn(db *sql.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := db.Conn(c.Request.Context())
		if err != nil {
			log.Error().Err(err).
				Str("request_id", response.GetRequestID(c)).
				Msg("Acquire storage connection failed")
			response.AbortText(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		defer func() {
			if err := conn.Close(); err != nil {
				log.Warn().Err(err).Msg("Release storage connection failed")
			}
		}()

		c.Set(ContextKeyConn, conn)
		c.Next()
	}
}

// GetConn returns the connection stored by RequestConn.
func GetConn(c *gin.Context) *sql.Conn {
	v, exists := c.Get(ContextKeyConn)
	if !exists {
		return nil
	}
	conn, _ := v.(*sql.Conn)
	return conn
}
