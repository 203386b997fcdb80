package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"itemboard/internal/model"
	"itemboard/internal/pkg/logger"
)

const minBodyLength = 30

var ErrNotAuthorized = errors.New("not authorized")

// ItemStore is the item workflow's view of item persistence.
// repository.ItemRepository satisfies it. The conditional update/delete
// methods fold the ownership check into the WHERE clause so check and act
// are a single statement.
type ItemStore interface {
	Create(item *model.Item) error
	ListAll() ([]model.Item, error)
	ListByAuthor(author string) ([]model.Item, error)
	GetByIDAndAuthor(id uint, author string) (*model.Item, error)
	UpdateByIDAndAuthor(id uint, author, title, body string) (int64, error)
	DeleteByIDAndAuthor(id uint, author string) (int64, error)
}

// ActivityPublisher pushes item mutation events to the activity queue.
// Publishing is best-effort: a broker outage must not fail the user's write.
type ActivityPublisher interface {
	Publish(ctx context.Context, event model.ActivityEvent) error
}

type ItemService struct {
	itemRepo  ItemStore
	publisher ActivityPublisher
}

type CreateItemInput struct {
	Author string
	Title  string
	Body   string
}

func NewItemService(itemRepo ItemStore, publisher ActivityPublisher) *ItemService {
	return &ItemService{itemRepo: itemRepo, publisher: publisher}
}

// ListPublic returns every item, newest first. An empty slice is a normal
// result, not an error.
func (s *ItemService) ListPublic() ([]model.Item, error) {
	return s.itemRepo.ListAll()
}

// ListMine returns the items authored by username, newest first.
func (s *ItemService) ListMine(username string) ([]model.Item, error) {
	if username == "" {
		return nil, ErrInvalidInput
	}
	return s.itemRepo.ListByAuthor(username)
}

func (s *ItemService) Create(ctx context.Context, input CreateItemInput) (*model.Item, error) {
	if input.Author == "" {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if err := validateItemFields(title, input.Body); err != nil {
		return nil, err
	}

	item := &model.Item{
		Title:  title,
		Body:   input.Body,
		Author: input.Author,
	}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, model.ActivityItemCreated, item.ID, input.Author)
	return item, nil
}

// GetForEdit fetches an item for its author. A missing item and a foreign
// item both return ErrNotAuthorized so existence is not leaked.
func (s *ItemService) GetForEdit(id uint, username string) (*model.Item, error) {
	if id == 0 || username == "" {
		return nil, ErrNotAuthorized
	}

	item, err := s.itemRepo.GetByIDAndAuthor(id, username)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotAuthorized
	}
	return item, nil
}

// Update re-validates and applies title/body through a single conditional
// write. Zero rows affected usually means the item is gone or owned by
// someone else, but a MySQL connection without clientFoundRows also reports
// zero for an update that changes nothing, so ownership is re-checked before
// rejecting. Submitting the edit form unchanged must succeed.
func (s *ItemService) Update(ctx context.Context, id uint, username, title, body string) error {
	if id == 0 || username == "" {
		return ErrNotAuthorized
	}

	title = strings.TrimSpace(title)
	if err := validateItemFields(title, body); err != nil {
		return err
	}

	affected, err := s.itemRepo.UpdateByIDAndAuthor(id, username, title, body)
	if err != nil {
		return err
	}
	if affected == 0 {
		item, err := s.itemRepo.GetByIDAndAuthor(id, username)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrNotAuthorized
		}
	}

	s.publishActivity(ctx, model.ActivityItemUpdated, id, username)
	return nil
}

// Delete removes the item through a single conditional write. Deleting an
// already-deleted id fails with ErrNotAuthorized and has no side effects.
func (s *ItemService) Delete(ctx context.Context, id uint, username string) error {
	if id == 0 || username == "" {
		return ErrNotAuthorized
	}

	affected, err := s.itemRepo.DeleteByIDAndAuthor(id, username)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotAuthorized
	}

	s.publishActivity(ctx, model.ActivityItemDeleted, id, username)
	return nil
}

func (s *ItemService) publishActivity(ctx context.Context, action string, itemID uint, actor string) {
	if s.publisher == nil {
		return
	}
	event := model.ActivityEvent{
		Action: action,
		ItemID: itemID,
		Actor:  actor,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Get().Warn().Err(err).Str("action", action).Uint("item_id", itemID).
			Msg("publish activity event failed")
	}
}

func validateItemFields(title, body string) error {
	if n := utf8.RuneCountInString(title); n < 1 || n > 200 {
		return fmt.Errorf("%w: title must be 1-200 characters", ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) < minBodyLength {
		return fmt.Errorf("%w: body must be at least %d characters", ErrInvalidInput, minBodyLength)
	}
	return nil
}
