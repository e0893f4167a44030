package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports frontend and CMS liveness for probes and monitors.
func (a *API) HealthCheck(c *gin.Context) {
	report, status := a.health.Check(c.Request.Context())
	c.JSON(status, report)
}

// Ping answers without touching the CMS.
func (a *API) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
