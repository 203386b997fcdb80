package model

import "time"

const (
	ActivityItemCreated = "item.created"
	ActivityItemUpdated = "item.updated"
	ActivityItemDeleted = "item.deleted"
)

// ActivityEvent records a mutation of an item. Events are published to the
// activity queue by the item service and persisted asynchronously by the
// activity worker.
type ActivityEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:32;not null;index" json:"action"`
	ItemID    uint      `gorm:"not null;index" json:"item_id"`
	Actor     string    `gorm:"size:25;not null" json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}
