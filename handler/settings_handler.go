package handler

import (
	"social_graph/service"
	"social_graph/utils"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsSvc *service.SettingsService
}

func NewSettingsHandler(settingsSvc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// GetSettings 获取所有功能开关（缓存中的值）
// GET /admin/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	utils.SuccessWithMessage(c, "settings", h.settingsSvc.All())
}

// UpdateSetting 更新功能开关，立即生效
// POST /admin/settings/:key
func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}

	if err := h.settingsSvc.SetBool(c.Request.Context(), key, req.Value); err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessWithMessage(c, "setting updated successfully", gin.H{
		"key":   key,
		"value": req.Value,
	})
}

// ReloadSettings 从数据库重新加载功能开关
// POST /admin/settings/reload
func (h *SettingsHandler) ReloadSettings(c *gin.Context) {
	if err := h.settingsSvc.Reload(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessWithMessage(c, "settings reloaded successfully", h.settingsSvc.All())
}
