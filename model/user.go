package model

import "time"

// User 用户表 (user_entity)
type User struct {
	UserID      string    `json:"user_id" gorm:"column:user_id;type:varchar;primaryKey"`
	FirstName   string    `json:"first_name" gorm:"type:varchar;not null"`
	LastName    string    `json:"last_name" gorm:"type:varchar;not null"`
	Email       string    `json:"email" gorm:"type:varchar;not null;uniqueIndex"`
	Password    string    `json:"-" gorm:"type:varchar;not null"`
	PhoneNumber *string   `json:"phone_number" gorm:"type:varchar"`
	Location    *string   `json:"location" gorm:"type:varchar"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "user_entity"
}

// SignupRequest 注册请求体
type SignupRequest struct {
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=6"`
	PhoneNumber *string `json:"phone_number"`
	Location    *string `json:"location"`
}

// UpdateUserRequest 部分更新（nil 字段不修改）
type UpdateUserRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,min=1"`
	LastName    *string `json:"last_name" binding:"omitempty,min=1"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=6"`
	PhoneNumber *string `json:"phone_number"`
	Location    *string `json:"location"`
}

// LoginRequest 登录请求体
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
