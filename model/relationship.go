package model

import "time"

// Relationship 关注关系表: UserID follows FriendID
type Relationship struct {
	UserID    string    `json:"user_id" gorm:"column:user_id;type:varchar;primaryKey"`
	FriendID  string    `json:"friend_id" gorm:"column:friend_id;type:varchar;primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Relationship) TableName() string {
	return "relationship_entity"
}

// RelationshipType 关系查询类型
type RelationshipType string

const (
	RelationshipFollowers RelationshipType = "followers"
	RelationshipFollowing RelationshipType = "following"
	RelationshipFriends   RelationshipType = "friends"
)

// ParseRelationshipType 解析 ?type= 参数，followers / following 以外的值都按互关处理
func ParseRelationshipType(s string) RelationshipType {
	switch s {
	case string(RelationshipFollowers):
		return RelationshipFollowers
	case string(RelationshipFollowing):
		return RelationshipFollowing
	}
	return RelationshipFriends
}

// UserSummary 关系查询返回的用户摘要
type UserSummary struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RelationshipCounts 关注/粉丝/互关数量
type RelationshipCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Friends   int64 `json:"friends"`
}
