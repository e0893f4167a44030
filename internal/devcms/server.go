package devcms

import (
	"errors"
	"net/http"
	"strings"

	"github.com/complai/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server answers the Directus item and ping endpoints from a gorm store.
type Server struct {
	db     *gorm.DB
	token  string
	logger *zap.Logger
}

// NewServer wires a Server. A non-empty token makes every items request
// require "Authorization: Bearer <token>".
func NewServer(gdb *gorm.DB, token string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{db: gdb, token: strings.TrimSpace(token), logger: logger}
}

// Handler builds the gin engine serving the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(s.logger))

	r.GET("/server/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	items := r.Group("/items")
	items.Use(s.authRequired())
	items.GET("/:collection", s.readItems)

	return r
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "You don't have permission to access this.")
			return
		}
		if strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")) != s.token {
			abortWithError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid user credentials.")
			return
		}
		c.Next()
	}
}

func (s *Server) readItems(c *gin.Context) {
	col, ok := collections[c.Param("collection")]
	if !ok {
		abortWithError(c, http.StatusForbidden, "FORBIDDEN", "You don't have permission to access this.")
		return
	}

	tx, err := applyQuery(s.db.WithContext(c.Request.Context()), col, c.Request.URL.Query())
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	items := col.newSlice()
	if err := tx.Find(items).Error; err != nil {
		if errors.Is(err, errInvalidQuery) {
			abortWithError(c, http.StatusBadRequest, "INVALID_QUERY", err.Error())
			return
		}
		s.logger.Error("devcms query failed", zap.Error(err), logging.RequestField(c.Request.Context()))
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"errors": []gin.H{{
			"message":    message,
			"extensions": gin.H{"code": code},
		}},
	})
}
