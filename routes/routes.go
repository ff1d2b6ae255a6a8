package routes

import (
	"net/http"

	"scoreboard/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *gin.Engine,
	scoreHandler *handlers.ScoreHandler,
	gatherer prometheus.Gatherer,
) {
	// Paths match what the existing scoreboard client calls.
	router.GET("/config", scoreHandler.GetConfig)
	router.GET("/scores", scoreHandler.ListScores)
	router.POST("/action", scoreHandler.SubmitAction)
	router.GET("/leaderboard", scoreHandler.Leaderboard)
	router.GET("/history/:person/:game", scoreHandler.History)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
