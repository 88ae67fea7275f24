package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pathwise/pathwise-backend/internal/logger"
	"github.com/pathwise/pathwise-backend/internal/repos"
	"github.com/pathwise/pathwise-backend/internal/roadmap"
	"github.com/pathwise/pathwise-backend/internal/types"
)

// PathwayService persists the user-confirmed form of a roadmap, one row per
// chat with upsert-by-chat semantics.
type PathwayService interface {
	// SaveAsPathway creates the chat's pathway or updates it in place.
	// title and status are optional; nil leaves the stored value untouched.
	// Returns the pathway id and whether a new row was created.
	SaveAsPathway(ctx context.Context, chatID uuid.UUID, plan roadmap.Roadmap, title *string, status *string) (uuid.UUID, bool, error)
}

type pathwayService struct {
	db          *gorm.DB
	log         *logger.Logger
	identity    IdentityService
	chatRepo    repos.ChatRepo
	pathwayRepo repos.PathwayRepo
}

func NewPathwayService(db *gorm.DB, log *logger.Logger, identity IdentityService, chatRepo repos.ChatRepo, pathwayRepo repos.PathwayRepo) PathwayService {
	return &pathwayService{
		db:          db,
		log:         log.With("service", "PathwayService"),
		identity:    identity,
		chatRepo:    chatRepo,
		pathwayRepo: pathwayRepo,
	}
}

func (ps *pathwayService) SaveAsPathway(ctx context.Context, chatID uuid.UUID, plan roadmap.Roadmap, title *string, status *string) (uuid.UUID, bool, error) {
	if status != nil && !types.ValidPathwayStatus(*status) {
		return uuid.Nil, false, fmt.Errorf("invalid pathway status %q", *status)
	}

	planSpec, err := json.Marshal(plan)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("encode plan spec: %w", err)
	}

	var (
		pathwayID uuid.UUID
		created   bool
	)
	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := ps.identity.Resolve(ctx, tx)
		if err != nil {
			return err
		}
		chat, err := ps.chatRepo.GetOwned(ctx, tx, chatID, user.ID)
		if err != nil {
			return fmt.Errorf("load chat: %w", err)
		}
		if chat == nil {
			return ErrNotFound
		}

		existing, err := ps.pathwayRepo.GetByChatID(ctx, tx, chat.ID)
		if err != nil {
			return fmt.Errorf("load pathway: %w", err)
		}

		if existing == nil {
			newStatus := types.PathwayStatusDraft
			if status != nil {
				newStatus = *status
			}
			newTitle := ""
			if title != nil {
				newTitle = *title
			}
			pathway, err := ps.pathwayRepo.Create(ctx, tx, &types.Pathway{
				UserID:   user.ID,
				ChatID:   chat.ID,
				Title:    newTitle,
				Status:   newStatus,
				PlanSpec: datatypes.JSON(planSpec),
			})
			if err != nil {
				return fmt.Errorf("create pathway: %w", err)
			}
			pathwayID = pathway.ID
			created = true
			return nil
		}

		fields := map[string]any{"plan_spec": datatypes.JSON(planSpec)}
		if title != nil {
			fields["title"] = *title
		}
		if status != nil {
			fields["status"] = *status
		}
		if err := ps.pathwayRepo.Updates(ctx, tx, existing.ID, fields); err != nil {
			return fmt.Errorf("update pathway: %w", err)
		}
		pathwayID = existing.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	return pathwayID, created, nil
}
