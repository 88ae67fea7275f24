package services

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pathwise/pathwise-backend/internal/db"
	"github.com/pathwise/pathwise-backend/internal/logger"
	"github.com/pathwise/pathwise-backend/internal/repos"
	"github.com/pathwise/pathwise-backend/internal/requestdata"
)

// testEnv wires the persistence-backed services against an in-memory sqlite
// database, one per test.
type testEnv struct {
	db       *gorm.DB
	identity IdentityService
	chat     ChatService
	pathway  PathwayService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	userRepo := repos.NewUserRepo(gormDB, log)
	chatRepo := repos.NewChatRepo(gormDB, log)
	pathwayRepo := repos.NewPathwayRepo(gormDB, log)

	identity := NewIdentityService(gormDB, log, userRepo)
	return &testEnv{
		db:       gormDB,
		identity: identity,
		chat:     NewChatService(gormDB, log, identity, chatRepo),
		pathway:  NewPathwayService(gormDB, log, identity, chatRepo, pathwayRepo),
	}
}

func sessionCtx(email, name string) context.Context {
	return requestdata.WithSession(context.Background(), requestdata.Session{
		Email: email,
		Name:  name,
	})
}
