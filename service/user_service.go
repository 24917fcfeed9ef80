package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"social_graph/broker"
	"social_graph/model"
	"social_graph/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost          = 10
	maxUserIDAttempts   = 5
	userIDSuffixCeiling = 10000
)

var (
	errUserNotFound = utils.ConflictError("User not found")
	errBlankName    = utils.NewHTTPError(http.StatusBadRequest, "first_name and last_name must not be blank")
)

type UserService struct {
	db       *gorm.DB
	events   eventEmitter
	settings *SettingsService
	randIntN func(n int) int
}

func NewUserService(db *gorm.DB, publisher broker.Publisher, settings *SettingsService) *UserService {
	return &UserService{
		db:       db,
		events:   eventEmitter{publisher: publisher, settings: settings},
		settings: settings,
		randIntN: rand.IntN,
	}
}

// CreateUser 注册用户
func (s *UserService) CreateUser(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	if !s.settings.RegistrationOpen() {
		return nil, utils.NewHTTPError(http.StatusForbidden, "Registration is closed")
	}

	firstName, lastName := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, errBlankName
	}

	// 检查邮箱是否已存在
	taken, err := s.emailTaken(ctx, req.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, emailExists(req.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.newUserID(ctx, firstName, lastName)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:      userID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       req.Email,
		Password:    string(hashedPassword),
		PhoneNumber: req.PhoneNumber,
		Location:    req.Location,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, emailExists(req.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.events.emit(ctx, broker.NewEvent(broker.EventUserCreated, user.UserID, ""))
	return user, nil
}

// GetUsers 获取全部用户
func (s *UserService) GetUsers(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return users, nil
}

// GetUserDetails 根据 user_id 获取用户
func (s *UserService) GetUserDetails(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// UpdateUserDetails 部分更新用户信息，密码重新哈希
func (s *UserService) UpdateUserDetails(ctx context.Context, userID string, req model.UpdateUserRequest) (*model.User, error) {
	if _, err := s.GetUserDetails(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, errBlankName
		}
		updates["first_name"] = name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if name == "" {
			return nil, errBlankName
		}
		updates["last_name"] = name
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Email != nil {
		taken, err := s.emailTaken(ctx, *req.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, emailExists(*req.Email)
		}
		updates["email"] = *req.Email
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hashedPassword)
	}

	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Model(&model.User{}).
			Where("user_id = ?", userID).
			Updates(updates).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) && req.Email != nil {
			return nil, emailExists(*req.Email)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return s.GetUserDetails(ctx, userID)
}

// DeleteUserDetails 删除用户及其所有关注关系
func (s *UserService) DeleteUserDetails(ctx context.Context, userID string) (*model.User, error) {
	var deleted model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errUserNotFound
			}
			return err
		}

		if err := tx.Where("user_id = ? OR friend_id = ?", userID, userID).
			Delete(&model.Relationship{}).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).Delete(&model.User{}).Error
	})
	if err != nil {
		if _, ok := utils.AsHTTPError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	s.events.emit(ctx, broker.NewEvent(broker.EventUserDeleted, userID, ""))
	return &deleted, nil
}

// emailTaken 检查邮箱是否被其他用户占用（excludeUserID 为空时检查所有用户）
func (s *UserService) emailTaken(ctx context.Context, email, excludeUserID string) (bool, error) {
	query := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email)
	if excludeUserID != "" {
		query = query.Where("user_id <> ?", excludeUserID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// newUserID 生成 user_id：名 + 姓（小写）+ [1, 10000] 随机数，冲突时重试
func (s *UserService) newUserID(ctx context.Context, firstName, lastName string) (string, error) {
	base := strings.ToLower(strings.Join(strings.Fields(firstName+lastName), ""))

	for i := 0; i < maxUserIDAttempts; i++ {
		candidate := base + strconv.Itoa(1+s.randIntN(userIDSuffixCeiling))

		var count int64
		if err := s.db.WithContext(ctx).Model(&model.User{}).
			Where("user_id = ?", candidate).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check user id: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", utils.ConflictError("Could not allocate a user id, please retry")
}

func emailExists(email string) *utils.HTTPError {
	return utils.ConflictError(fmt.Sprintf("This email %s already exists", email))
}
