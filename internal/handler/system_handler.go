package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/college-registration/internal/middleware"
	"github.com/stemsi/college-registration/internal/response"
	"github.com/stemsi/college-registration/internal/service"
)

// SystemHandler exposes liveness and fallback routes.
type SystemHandler struct {
	studentService *service.StudentService
	startTime      time.Time
	log            zerolog.Logger
}

func NewSystemHandler(studentService *service.StudentService, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		studentService: studentService,
		startTime:      time.Now(),
		log:            log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Reports whether the student store answers through the request connection.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	conn := middleware.GetConn(c)

	total, err := h.studentService.CountStudents(ctx, conn)
	if err != nil {
		h.log.Error().Err(err).Msg("Health check failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":   "ok",
		"students": total,
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
	})
}

// NotFound answers unknown routes in plain text.
func (h *SystemHandler) NotFound(c *gin.Context) {
	response.Text(c, http.StatusNotFound, response.ErrNotFound, "")
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *SystemHandler) MethodNotAllowed(c *gin.Context) {
	response.Text(c, http.StatusMethodNotAllowed, response.ErrMethodNotAllowed, "")
}
