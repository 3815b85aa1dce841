package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.0.0"

// getHome godoc
// @Summary Describe the API
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Fuel Credit System API",
		"version": apiVersion,
		"endpoints": gin.H{
			"auth": gin.H{
				"register": "POST /api/auth/register",
				"login":    "POST /api/auth/login",
				"me":       "GET /api/auth/me",
				"refresh":  "POST /api/auth/refresh",
				"logout":   "POST /api/auth/logout",
			},
		},
	})
}

// getHealth godoc
// @Summary Show the status of server.
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func registerHomeRoutes(r *gin.Engine) {
	r.GET("/", getHome)
	r.GET("/health", getHealth)
}
