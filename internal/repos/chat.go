package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pathwise/pathwise-backend/internal/logger"
	"github.com/pathwise/pathwise-backend/internal/types"
)

type ChatRepo interface {
	Create(ctx context.Context, tx *gorm.DB, chat *types.Chat) (*types.Chat, error)
	// GetOwned returns the chat only when it exists, is not soft-deleted and
	// belongs to userID; otherwise nil. Ownership mismatch is
	// indistinguishable from absence.
	GetOwned(ctx context.Context, tx *gorm.DB, chatID, userID uuid.UUID) (*types.Chat, error)
	// GetOwnedForUpdate is GetOwned with a FOR UPDATE row lock, for
	// read-modify-write of the meta blob inside a transaction.
	GetOwnedForUpdate(ctx context.Context, tx *gorm.DB, chatID, userID uuid.UUID) (*types.Chat, error)
	ListOwned(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Chat, error)
	Updates(ctx context.Context, tx *gorm.DB, chatID uuid.UUID, fields map[string]any) error
	SoftDelete(ctx context.Context, tx *gorm.DB, chatID uuid.UUID) error
}

type chatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatRepo(db *gorm.DB, baseLog *logger.Logger) ChatRepo {
	return &chatRepo{db: db, log: baseLog.With("repo", "ChatRepo")}
}

func (cr *chatRepo) Create(ctx context.Context, tx *gorm.DB, chat *types.Chat) (*types.Chat, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if chat.ID == uuid.Nil {
		chat.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(chat).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

func (cr *chatRepo) GetOwned(ctx context.Context, tx *gorm.DB, chatID, userID uuid.UUID) (*types.Chat, error) {
	return cr.getOwned(ctx, tx, chatID, userID, false)
}

func (cr *chatRepo) GetOwnedForUpdate(ctx context.Context, tx *gorm.DB, chatID, userID uuid.UUID) (*types.Chat, error) {
	return cr.getOwned(ctx, tx, chatID, userID, true)
}

func (cr *chatRepo) getOwned(ctx context.Context, tx *gorm.DB, chatID, userID uuid.UUID, forUpdate bool) (*types.Chat, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	query := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", chatID, userID)
	// sqlite has no FOR UPDATE; its single-writer model covers the tests.
	if forUpdate && transaction.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var result types.Chat
	err := query.First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *chatRepo) ListOwned(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Chat, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Chat
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *chatRepo) Updates(ctx context.Context, tx *gorm.DB, chatID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Chat{}).
		Where("id = ?", chatID).
		Updates(fields).Error
}

func (cr *chatRepo) SoftDelete(ctx context.Context, tx *gorm.DB, chatID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", chatID).
		Delete(&types.Chat{}).Error
}
