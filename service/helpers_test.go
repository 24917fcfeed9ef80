package service

import (
	"context"
	"testing"

	"social_graph/broker"
	"social_graph/model"
	"social_graph/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 每个连接都是独立的内存库，固定为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Relationship{}, &model.AppSetting{}))
	return db
}

type testServices struct {
	db        *gorm.DB
	settings  *SettingsService
	publisher *broker.RecordingPublisher
	users     *UserService
	rels      *RelationshipService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	db := setupTestDB(t)
	settings := NewSettingsService(db)
	publisher := &broker.RecordingPublisher{}
	return &testServices{
		db:        db,
		settings:  settings,
		publisher: publisher,
		users:     NewUserService(db, publisher, settings),
		rels:      NewRelationshipService(db, publisher, settings),
	}
}

func (ts *testServices) signup(t *testing.T, first, last, email string) *model.User {
	t.Helper()

	user, err := ts.users.CreateUser(context.Background(), model.SignupRequest{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  "secret123",
	})
	require.NoError(t, err)
	return user
}

func (ts *testServices) follow(t *testing.T, from, to string) {
	t.Helper()

	_, err := ts.rels.FollowUser(context.Background(), from, to)
	require.NoError(t, err)
}

func requireHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()

	require.Error(t, err)
	he, ok := utils.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %T: %v", err, err)
	require.Equal(t, status, he.Status)
	require.Equal(t, message, he.Message)
}
