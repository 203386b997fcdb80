package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"itemboard/internal/model"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(item *model.Item) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *ItemRepository) ListAll() ([]model.Item, error) {
	var items []model.Item
	if err := r.db.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) ListByAuthor(author string) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.Where("author = ?", author).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items by author failed: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) GetByIDAndAuthor(id uint, author string) (*model.Item, error) {
	var item model.Item
	if err := r.db.Where("id = ? AND author = ?", id, author).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return &item, nil
}

// UpdateByIDAndAuthor applies title/body in a single conditional UPDATE so the
// ownership check and the write cannot be split by a concurrent mutation.
// Returns the number of rows affected: 0 means the item does not exist or
// belongs to someone else, provided the connection counts matched rows
// (the default DSN sets clientFoundRows=true; without it MySQL counts
// changed rows and a no-op update also reports 0).
func (r *ItemRepository) UpdateByIDAndAuthor(id uint, author, title, body string) (int64, error) {
	res := r.db.Model(&model.Item{}).
		Where("id = ? AND author = ?", id, author).
		Updates(map[string]interface{}{"title": title, "body": body})
	if res.Error != nil {
		return 0, fmt.Errorf("update item failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteByIDAndAuthor deletes with the author folded into the WHERE clause,
// same contract as UpdateByIDAndAuthor.
func (r *ItemRepository) DeleteByIDAndAuthor(id uint, author string) (int64, error) {
	res := r.db.Where("id = ? AND author = ?", id, author).Delete(&model.Item{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete item failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}
