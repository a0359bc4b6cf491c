package domain

import (
	"time"

	"github.com/google/uuid"
)

// StoredEntityConfig is the raw configuration document of one class as kept
// in the database. Only source documents are stored, never completed configs.
type StoredEntityConfig struct {
	ID        uuid.UUID
	ClassName string
	Document  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}
