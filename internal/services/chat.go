package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pathwise/pathwise-backend/internal/logger"
	"github.com/pathwise/pathwise-backend/internal/repos"
	"github.com/pathwise/pathwise-backend/internal/roadmap"
	"github.com/pathwise/pathwise-backend/internal/types"
)

const (
	eventChatCreated  = "chat_created"
	eventTurnAppended = "turn_appended"
)

type ChatSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatSnapshot struct {
	ID        uuid.UUID           `json:"id"`
	Title     string              `json:"title"`
	Messages  []types.ChatMessage `json:"messages"`
	Roadmap   roadmap.Roadmap     `json:"roadmap"`
	StartedAt time.Time           `json:"started_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ChatService is the transcript store. Every operation resolves the caller's
// identity first; everything except Create and List verifies ownership and
// reports a foreign or missing chat as ErrNotFound.
type ChatService interface {
	Create(ctx context.Context, title string, initialMessages []types.ChatMessage, initialRoadmap roadmap.Roadmap) (uuid.UUID, error)
	List(ctx context.Context) ([]ChatSummary, error)
	GetSnapshot(ctx context.Context, chatID uuid.UUID) (*ChatSnapshot, error)
	// SaveSnapshot wholesale-replaces messages and roadmap. titleFallback is
	// first-write-wins: it only lands on a chat that has no title yet.
	SaveSnapshot(ctx context.Context, chatID uuid.UUID, messages []types.ChatMessage, plan roadmap.Roadmap, titleFallback string) error
	// AppendTurn appends exactly one user and one ai message, optionally
	// replaces the roadmap wholesale, shallow-merges uiPatch, and records an
	// audit event. The read-modify-write runs in one transaction under a row
	// lock so concurrent turns cannot clobber each other.
	AppendTurn(ctx context.Context, chatID uuid.UUID, userMessage, aiMessage types.ChatMessage, plan *roadmap.Roadmap, uiPatch map[string]any) error
	Rename(ctx context.Context, chatID uuid.UUID, title string) error
	Delete(ctx context.Context, chatID uuid.UUID) error
}

type chatService struct {
	db       *gorm.DB
	log      *logger.Logger
	identity IdentityService
	chatRepo repos.ChatRepo
}

func NewChatService(db *gorm.DB, log *logger.Logger, identity IdentityService, chatRepo repos.ChatRepo) ChatService {
	return &chatService{
		db:       db,
		log:      log.With("service", "ChatService"),
		identity: identity,
		chatRepo: chatRepo,
	}
}

func (cs *chatService) Create(ctx context.Context, title string, initialMessages []types.ChatMessage, initialRoadmap roadmap.Roadmap) (uuid.UUID, error) {
	var chatID uuid.UUID
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := cs.identity.Resolve(ctx, tx)
		if err != nil {
			return err
		}

		meta := types.ChatMeta{
			Messages: initialMessages,
			Roadmap:  initialRoadmap,
			Events: []types.ChatEvent{{
				Type: eventChatCreated,
				TS:   nowMillis(),
			}},
		}
		raw, err := types.EncodeChatMeta(meta)
		if err != nil {
			return fmt.Errorf("encode chat meta: %w", err)
		}

		now := time.Now()
		chat, err := cs.chatRepo.Create(ctx, tx, &types.Chat{
			UserID:    user.ID,
			Title:     title,
			Meta:      raw,
			StartedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("create chat: %w", err)
		}
		chatID = chat.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	cs.log.Debug("Chat created", "chat_id", chatID)
	return chatID, nil
}

func (cs *chatService) List(ctx context.Context) ([]ChatSummary, error) {
	var summaries []ChatSummary
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := cs.identity.Resolve(ctx, tx)
		if err != nil {
			return err
		}
		chats, err := cs.chatRepo.ListOwned(ctx, tx, user.ID)
		if err != nil {
			return fmt.Errorf("list chats: %w", err)
		}
		summaries = make([]ChatSummary, 0, len(chats))
		for _, chat := range chats {
			summaries = append(summaries, ChatSummary{
				ID:        chat.ID,
				Title:     chat.Title,
				StartedAt: chat.StartedAt,
				UpdatedAt: chat.UpdatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (cs *chatService) GetSnapshot(ctx context.Context, chatID uuid.UUID) (*ChatSnapshot, error) {
	var snapshot *ChatSnapshot
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := cs.ownedChat(ctx, tx, chatID, false)
		if err != nil {
			return err
		}
		meta := types.DecodeChatMeta(chat.Meta)
		snapshot = &ChatSnapshot{
			ID:        chat.ID,
			Title:     chat.Title,
			Messages:  meta.Messages,
			Roadmap:   meta.Roadmap,
			StartedAt: chat.StartedAt,
			UpdatedAt: chat.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (cs *chatService) SaveSnapshot(ctx context.Context, chatID uuid.UUID, messages []types.ChatMessage, plan roadmap.Roadmap, titleFallback string) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := cs.ownedChat(ctx, tx, chatID, true)
		if err != nil {
			return err
		}

		meta := types.DecodeChatMeta(chat.Meta)
		meta.Messages = messages
		meta.Roadmap = plan
		raw, err := types.EncodeChatMeta(meta)
		if err != nil {
			return fmt.Errorf("encode chat meta: %w", err)
		}

		fields := map[string]any{"meta": raw}
		if chat.Title == "" && titleFallback != "" {
			fields["title"] = titleFallback
		}
		if err := cs.chatRepo.Updates(ctx, tx, chat.ID, fields); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		return nil
	})
}

func (cs *chatService) AppendTurn(ctx context.Context, chatID uuid.UUID, userMessage, aiMessage types.ChatMessage, plan *roadmap.Roadmap, uiPatch map[string]any) error {
	userMessage.Role = types.RoleUser
	aiMessage.Role = types.RoleAI

	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := cs.ownedChat(ctx, tx, chatID, true)
		if err != nil {
			return err
		}

		meta := types.DecodeChatMeta(chat.Meta)
		meta.Messages = append(meta.Messages, userMessage, aiMessage)
		if plan != nil {
			meta.Roadmap = *plan
		}
		if len(uiPatch) > 0 {
			if meta.UI == nil {
				meta.UI = map[string]any{}
			}
			for k, v := range uiPatch {
				meta.UI[k] = v
			}
		}
		meta.Events = append(meta.Events, types.ChatEvent{
			Type: eventTurnAppended,
			TS:   nowMillis(),
			Data: map[string]any{
				"user_message_id": userMessage.ID,
				"ai_message_id":   aiMessage.ID,
			},
		})

		raw, err := types.EncodeChatMeta(meta)
		if err != nil {
			return fmt.Errorf("encode chat meta: %w", err)
		}
		if err := cs.chatRepo.Updates(ctx, tx, chat.ID, map[string]any{"meta": raw}); err != nil {
			return fmt.Errorf("append turn: %w", err)
		}
		return nil
	})
}

func (cs *chatService) Rename(ctx context.Context, chatID uuid.UUID, title string) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := cs.ownedChat(ctx, tx, chatID, false)
		if err != nil {
			return err
		}
		return cs.chatRepo.Updates(ctx, tx, chat.ID, map[string]any{"title": title})
	})
}

func (cs *chatService) Delete(ctx context.Context, chatID uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := cs.ownedChat(ctx, tx, chatID, false)
		if err != nil {
			return err
		}
		return cs.chatRepo.SoftDelete(ctx, tx, chat.ID)
	})
}

// ownedChat resolves the caller and loads the chat, collapsing "missing" and
// "not owned" into ErrNotFound.
func (cs *chatService) ownedChat(ctx context.Context, tx *gorm.DB, chatID uuid.UUID, forUpdate bool) (*types.Chat, error) {
	user, err := cs.identity.Resolve(ctx, tx)
	if err != nil {
		return nil, err
	}
	var chat *types.Chat
	if forUpdate {
		chat, err = cs.chatRepo.GetOwnedForUpdate(ctx, tx, chatID, user.ID)
	} else {
		chat, err = cs.chatRepo.GetOwned(ctx, tx, chatID, user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("load chat: %w", err)
	}
	if chat == nil {
		return nil, ErrNotFound
	}
	return chat, nil
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
