package models

import (
	"time"

	"github.com/google/uuid"
)

// Document represents a stored agency response letter or released record
type Document struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	RequestID   *int      `json:"request_id,omitempty"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
