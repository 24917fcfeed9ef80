package service

import (
	"context"
	"errors"
	"fmt"

	"social_graph/broker"
	"social_graph/metrics"
	"social_graph/model"
	"social_graph/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RelationshipService struct {
	db     *gorm.DB
	events eventEmitter
}

func NewRelationshipService(db *gorm.DB, publisher broker.Publisher, settings *SettingsService) *RelationshipService {
	return &RelationshipService{
		db:     db,
		events: eventEmitter{publisher: publisher, settings: settings},
	}
}

// FollowUser 关注用户（幂等：已关注时直接返回已有关系）
func (s *RelationshipService) FollowUser(ctx context.Context, userID, friendID string) (*model.Relationship, error) {
	if userID == friendID {
		return nil, utils.ConflictError("You cannot follow yourself")
	}

	// 被关注用户必须存在
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", friendID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return nil, errUserNotFound
	}

	existing, err := s.findRelationship(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// 并发关注时由复合主键兜底，不会产生重复行
	relationship := &model.Relationship{UserID: userID, FriendID: friendID}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(relationship)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to follow user: %w", result.Error)
	}

	created, err := s.findRelationship(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("relationship %s -> %s missing after insert", userID, friendID)
	}

	if result.RowsAffected > 0 {
		metrics.RelationshipOps.WithLabelValues("follow").Inc()
		s.events.emit(ctx, broker.NewEvent(broker.EventFollowed, userID, friendID))
	}
	return created, nil
}

// UnfollowUser 取消关注，返回被删除的关系；本来就没有关注时返回 nil
func (s *RelationshipService) UnfollowUser(ctx context.Context, userID, friendID string) (*model.Relationship, error) {
	var removed *model.Relationship
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Relationship
		err := tx.Where("user_id = ? AND friend_id = ?", userID, friendID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND friend_id = ?", userID, friendID).
			Delete(&model.Relationship{}).Error; err != nil {
			return err
		}
		removed = &existing
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unfollow user: %w", err)
	}

	if removed != nil {
		metrics.RelationshipOps.WithLabelValues("unfollow").Inc()
		s.events.emit(ctx, broker.NewEvent(broker.EventUnfollowed, userID, friendID))
	}
	return removed, nil
}

// GetRelationships 获取用户的粉丝 / 关注 / 互关列表
func (s *RelationshipService) GetRelationships(ctx context.Context, userID string, relType model.RelationshipType) ([]model.UserSummary, error) {
	query := s.db.WithContext(ctx).
		Table("user_entity u").
		Select("u.user_id, u.first_name, u.last_name")

	switch relType {
	case model.RelationshipFollowers:
		query = query.Joins("JOIN relationship_entity r ON u.user_id = r.user_id").
			Where("r.friend_id = ?", userID)
	case model.RelationshipFollowing:
		query = query.Joins("JOIN relationship_entity r ON u.user_id = r.friend_id").
			Where("r.user_id = ?", userID)
	default:
		query = query.Where("u.user_id IN (?)", s.mutualSubQuery(ctx, userID))
	}

	users := []model.UserSummary{}
	if err := query.Order("u.user_id ASC").Scan(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", relType, err)
	}
	return users, nil
}

// IsFollowing 检查 userID 是否关注了 friendID
func (s *RelationshipService) IsFollowing(ctx context.Context, userID, friendID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Relationship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check relationship: %w", err)
	}
	return count > 0, nil
}

// GetCounts 统计粉丝数、关注数、互关数
func (s *RelationshipService) GetCounts(ctx context.Context, userID string) (*model.RelationshipCounts, error) {
	var counts model.RelationshipCounts
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.Relationship{}).Where("friend_id = ?", userID).
		Count(&counts.Followers).Error; err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	if err := db.Model(&model.Relationship{}).Where("user_id = ?", userID).
		Count(&counts.Following).Error; err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}
	if err := s.mutualSubQuery(ctx, userID).Count(&counts.Friends).Error; err != nil {
		return nil, fmt.Errorf("failed to count friends: %w", err)
	}
	return &counts, nil
}

// mutualSubQuery 互关：r1 为 userID -> X，r2 为 X -> userID
func (s *RelationshipService) mutualSubQuery(ctx context.Context, userID string) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("relationship_entity r1").
		Select("r1.friend_id").
		Joins("JOIN relationship_entity r2 ON r1.friend_id = r2.user_id").
		Where("r1.user_id = ? AND r2.friend_id = ?", userID, userID)
}

func (s *RelationshipService) findRelationship(ctx context.Context, userID, friendID string) (*model.Relationship, error) {
	var relationship model.Relationship
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		First(&relationship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query relationship: %w", err)
	}
	return &relationship, nil
}
