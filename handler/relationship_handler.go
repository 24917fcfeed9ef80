package handler

import (
	"social_graph/middleware"
	"social_graph/model"
	"social_graph/service"
	"social_graph/utils"

	"github.com/gin-gonic/gin"
)

type RelationshipHandler struct {
	relSvc *service.RelationshipService
}

func NewRelationshipHandler(relSvc *service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{relSvc: relSvc}
}

// FollowUser 关注
// POST /follow/:id
func (h *RelationshipHandler) FollowUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	relationship, err := h.relSvc.FollowUser(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Created(c, "User followed successfully", relationship)
}

// UnfollowUser 取消关注（幂等：未关注时 data 为 null）
// POST /unfollow/:id
func (h *RelationshipHandler) UnfollowUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	relationship, err := h.relSvc.UnfollowUser(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessWithMessage(c, "User unfollowed", relationship)
}

// GetRelationships 粉丝 / 关注 / 互关列表
// GET /relationships/:id?type=followers|following|mutual
func (h *RelationshipHandler) GetRelationships(c *gin.Context) {
	relType := model.ParseRelationshipType(c.Query("type"))
	users, err := h.relSvc.GetRelationships(c.Request.Context(), c.Param("id"), relType)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessWithMessage(c, "User relationships", users)
}

// GetRelationshipCounts 关系数量
// GET /relationships/:id/counts
func (h *RelationshipHandler) GetRelationshipCounts(c *gin.Context) {
	counts, err := h.relSvc.GetCounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessWithMessage(c, "User relationship counts", counts)
}

// IsFollowing 当前用户是否关注了 :id
// GET /isFollowing/:id
func (h *RelationshipHandler) IsFollowing(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	following, err := h.relSvc.IsFollowing(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessWithMessage(c, "User is following", following)
}
