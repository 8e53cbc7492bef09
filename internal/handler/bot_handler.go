package handler

import (
	"io"
	"net/http"

	"arbidash/backend/internal/manager"
	"arbidash/backend/internal/model"
	"arbidash/backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BotHandler struct {
	manager *manager.Manager
}

func NewBotHandler(m *manager.Manager) *BotHandler {
	return &BotHandler{
		manager: m,
	}
}

// CreateBot handles POST /api/v1/bots
func (h *BotHandler) CreateBot(c *gin.Context) {
	var req model.BotConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	bot, err := h.manager.CreateBot(c.Request.Context(), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendCreated(c, bot, "Bot created successfully")
}

// UpdateBot handles PUT /api/v1/bots/:id
func (h *BotHandler) UpdateBot(c *gin.Context) {
	var upd model.BotConfigUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	bot, err := h.manager.UpdateBotConfig(c.Request.Context(), c.Param("id"), &upd)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, bot)
}

// ListBots handles GET /api/v1/bots
func (h *BotHandler) ListBots(c *gin.Context) {
	bots, err := h.manager.GetAllBots(c.Request.Context())
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, bots)
}

// GetBot handles GET /api/v1/bots/:id
func (h *BotHandler) GetBot(c *gin.Context) {
	bot, err := h.manager.GetBot(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, bot)
}

// ActivateBot handles POST /api/v1/bots/:id/activate
func (h *BotHandler) ActivateBot(c *gin.Context) {
	if err := h.manager.ActivateBot(c.Request.Context(), c.Param("id")); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, gin.H{"message": "Bot activated successfully"})
}

// PauseBot handles POST /api/v1/bots/:id/pause
func (h *BotHandler) PauseBot(c *gin.Context) {
	if err := h.manager.PauseBot(c.Request.Context(), c.Param("id")); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, gin.H{"message": "Bot paused successfully"})
}

// StopBot handles POST /api/v1/bots/:id/stop
func (h *BotHandler) StopBot(c *gin.Context) {
	if err := h.manager.StopBot(c.Request.Context(), c.Param("id")); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, gin.H{"message": "Bot stopped successfully"})
}

// ListTrades handles GET /api/v1/bots/:id/trades
func (h *BotHandler) ListTrades(c *gin.Context) {
	trades, err := h.manager.GetBotTrades(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, trades)
}

// GetStats handles GET /api/v1/bots/:id/stats
func (h *BotHandler) GetStats(c *gin.Context) {
	stats, err := h.manager.GetBotStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, stats)
}

// GetOverallStats handles GET /api/v1/stats/overall
func (h *BotHandler) GetOverallStats(c *gin.Context) {
	stats, err := h.manager.GetOverallStats(c.Request.Context())
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, stats)
}

// ExportConfig handles GET /api/v1/config/export
func (h *BotHandler) ExportConfig(c *gin.Context) {
	payload, err := h.manager.ExportConfig(c.Request.Context())
	if err != nil {
		util.SendError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", []byte(payload))
}

// ImportConfig handles POST /api/v1/config/import
func (h *BotHandler) ImportConfig(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		util.SendError(c, util.ErrBadRequest("Unreadable request body"))
		return
	}

	count, err := h.manager.ImportConfig(c.Request.Context(), string(payload))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, gin.H{"imported": count})
}
