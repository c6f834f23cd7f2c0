package workspace

import (
	"time"

	"github.com/google/uuid"
)

// Origin tells whether a file's content has been confirmed by the persistence
// layer or only exists as an optimistic local write.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

// File is a single workspace entry. Path is the primary key within a project.
type File struct {
	Path      string    `json:"path"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
	Origin    Origin    `json:"origin"`

	// Saved holds the last server-confirmed state, kept alongside the live
	// content so callers can implement their own rollback or retry policy.
	// The store itself never reverts a local edit.
	Saved *SavedState `json:"saved,omitempty"`
}

// SavedState is the last content the backend acknowledged for a file.
type SavedState struct {
	Content string    `json:"content"`
	Size    int64     `json:"size"`
	SavedAt time.Time `json:"saved_at"`
}

// RemoteFile carries the server-returned fields merged in by ConfirmPersisted.
type RemoteFile struct {
	Path     string
	Content  string
	Language string
	Size     int64
	SavedAt  time.Time
}

// Project is the store's view of the currently open project. It is a value
// copy of the persisted record; the store only needs identity and type.
type Project struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

// ChatMessage is one turn of the session conversation. The log is append-only
// and cleared in full when the project is replaced.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Files     []string  `json:"files,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BatchEntry is one file in a generation batch. Content is a pointer so a
// malformed entry with the field missing can be told apart from an empty file.
type BatchEntry struct {
	Path     string  `json:"path"`
	Content  *string `json:"content"`
	Language string  `json:"language"`
}

// Skip records a batch entry that was dropped instead of applied.
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// BatchResult reports what a generation batch did to the store.
type BatchResult struct {
	Applied []string `json:"applied"`
	Skipped []Skip   `json:"skipped,omitempty"`
	Stale   bool     `json:"stale,omitempty"`
}

// Ticket identifies the project generation that issued an asynchronous
// request. A response whose ticket no longer matches the store is discarded,
// which is what keeps a slow response for project A from mutating project B.
type Ticket struct {
	ProjectID uuid.UUID
	Epoch     uint64
}
