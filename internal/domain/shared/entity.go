package shared

import (
	"time"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() int64
	IsTransient() bool
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities.
// The ID is assigned by the persistence layer on first save; an ID of 0
// marks the entity as transient (never saved).
type BaseEntity struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID (0 for unsaved entities)
func (e *BaseEntity) GetID() int64 {
	return e.ID
}

// IsTransient returns true if the entity has not been saved yet
func (e *BaseEntity) IsTransient() bool {
	return e.ID == 0
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new transient base entity
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}
