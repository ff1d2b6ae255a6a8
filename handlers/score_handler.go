package handlers

import (
	"errors"
	"log"
	"net/http"

	"scoreboard/services"

	"github.com/gin-gonic/gin"
)

type ScoreHandler struct {
	scoreService *services.ScoreService
	catalog      services.Catalog
}

func NewScoreHandler(scoreService *services.ScoreService, catalog services.Catalog) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
		catalog:      catalog,
	}
}

// ActionRequest carries no binding rules. Empty names and unknown types fall
// through to the service so they get the same rejection codes as any other
// unknown value.
type ActionRequest struct {
	Person string         `json:"person"`
	Game   string         `json:"game"`
	Type   string         `json:"type"`
	Amount *float64       `json:"amount"`
	Meta   map[string]any `json:"meta"`
}

type historyURI struct {
	Person string `uri:"person" binding:"required"`
	Game   string `uri:"game" binding:"required"`
}

func (h *ScoreHandler) SubmitAction(c *gin.Context) {
	var req ActionRequest
	if !bindJSON(c, &req, nil, "Invalid action payload") {
		return
	}

	result, err := h.scoreService.SubmitAction(c.Request.Context(), services.Action{
		Person: req.Person,
		Game:   req.Game,
		Type:   req.Type,
		Amount: req.Amount,
		Meta:   req.Meta,
	})
	if err != nil {
		writeServiceError(c, err, "Action failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ScoreHandler) ListScores(c *gin.Context) {
	rows, err := h.scoreService.ListScores(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "Failed to load scores")
		return
	}

	c.JSON(http.StatusOK, gin.H{"scores": rows})
}

func (h *ScoreHandler) Leaderboard(c *gin.Context) {
	board, err := h.scoreService.Leaderboard(c.Request.Context(), h.catalog.People)
	if err != nil {
		writeServiceError(c, err, "Failed to load leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": board})
}

func (h *ScoreHandler) History(c *gin.Context) {
	var uri historyURI
	if !bindURI(c, &uri, nil, "Person and game required") {
		return
	}

	logs, err := h.scoreService.History(c.Request.Context(), uri.Person, uri.Game)
	if err != nil {
		writeServiceError(c, err, "Failed to load history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"person": uri.Person, "game": uri.Game, "entries": logs})
}

func (h *ScoreHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}

// writeServiceError keeps caller mistakes (400) apart from system faults.
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case services.IsRejection(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  services.RejectionCode(err),
			"detail": err.Error(),
		})
	case errors.Is(err, services.ErrLockTimeout):
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":  "busy",
			"detail": "Score is busy, try again",
		})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "internal",
			"detail": fallback,
		})
	}
}
