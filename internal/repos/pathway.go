package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pathwise/pathwise-backend/internal/logger"
	"github.com/pathwise/pathwise-backend/internal/types"
)

type PathwayRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pathway *types.Pathway) (*types.Pathway, error)
	GetByChatID(ctx context.Context, tx *gorm.DB, chatID uuid.UUID) (*types.Pathway, error)
	Updates(ctx context.Context, tx *gorm.DB, pathwayID uuid.UUID, fields map[string]any) error
}

type pathwayRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPathwayRepo(db *gorm.DB, baseLog *logger.Logger) PathwayRepo {
	return &pathwayRepo{db: db, log: baseLog.With("repo", "PathwayRepo")}
}

func (pr *pathwayRepo) Create(ctx context.Context, tx *gorm.DB, pathway *types.Pathway) (*types.Pathway, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if pathway.ID == uuid.Nil {
		pathway.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(pathway).Error; err != nil {
		return nil, err
	}
	return pathway, nil
}

func (pr *pathwayRepo) GetByChatID(ctx context.Context, tx *gorm.DB, chatID uuid.UUID) (*types.Pathway, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.Pathway
	err := transaction.WithContext(ctx).
		Where("chat_id = ?", chatID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *pathwayRepo) Updates(ctx context.Context, tx *gorm.DB, pathwayID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Pathway{}).
		Where("id = ?", pathwayID).
		Updates(fields).Error
}
