package workspace

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErr "github.com/react-studio/engine/pkg/errors"
	"github.com/react-studio/engine/pkg/logger"
)

// Store is the authoritative in-memory state of one session's open project:
// its file set, active selection, and chat log. Every mutation goes through a
// store operation, which is what keeps the file tree, editor, and preview
// consumers consistent with each other.
//
// The canonical representation is a path-keyed map; ordered slices are derived
// on read. A mutex guards the state so handlers, the worker, and websocket
// readers can share one store, but the logical model is single-writer: there
// is one session driving the mutations.
type Store struct {
	mu      sync.RWMutex
	session string

	project *Project
	epoch   uint64
	files   map[string]*File
	active  string
	chat    []ChatMessage

	subs    map[uint64]chan Event
	nextSub uint64
	closed  bool
}

// NewStore creates an empty store for the given session.
func NewStore(sessionID string) *Store {
	return &Store{
		session: sessionID,
		files:   map[string]*File{},
		subs:    map[uint64]chan Event{},
	}
}

// SessionID returns the owning session.
func (s *Store) SessionID() string { return s.session }

// ReplaceProject discards all current state and installs the given project and
// file list. The epoch bump invalidates every ticket issued before the switch,
// so late responses for the previous project are dropped rather than applied.
func (s *Store) ReplaceProject(p Project, files []File) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.project = &p
	s.files = make(map[string]*File, len(files))
	s.active = ""
	s.chat = nil

	now := time.Now()
	for _, f := range files {
		path := NormalizePath(f.Path)
		if path == "" {
			continue
		}
		cp := f
		cp.Path = path
		if cp.Language == "" {
			cp.Language = LanguageForPath(path)
		}
		if cp.Size == 0 {
			cp.Size = int64(len(cp.Content))
		}
		if cp.UpdatedAt.IsZero() {
			cp.UpdatedAt = now
		}
		if cp.Origin == "" {
			cp.Origin = OriginRemote
		}
		s.files[path] = &cp
	}

	s.notify(Event{Type: EventProjectReplaced, Project: p.ID.String()})
}

// Reset clears the store entirely, used when the current project is deleted.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.project = nil
	s.files = map[string]*File{}
	s.active = ""
	s.chat = nil
	s.notify(Event{Type: EventProjectReplaced})
}

// Ticket captures the current project identity for tagging an in-flight
// request. A zero ticket (no open project) never validates.
func (s *Store) Ticket() Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project == nil {
		return Ticket{}
	}
	return Ticket{ProjectID: s.project.ID, Epoch: s.epoch}
}

func (s *Store) ticketCurrent(t Ticket) bool {
	return s.project != nil && t.ProjectID == s.project.ID && t.Epoch == s.epoch
}

// ApplyGenerationBatch merges a generation result into the file set. Existing
// paths are replaced whole (an AI regeneration always wins over prior content,
// last writer by batch arrival order), new paths are inserted. Entries with an
// empty path or a missing content field are skipped and recorded; the rest of
// the batch still applies. After a non-empty apply the first applied entry, in
// the order the backend returned it, becomes the active file.
//
// A batch whose ticket no longer matches the store is silently dropped and
// flagged Stale in the result.
func (s *Store) ApplyGenerationBatch(t Ticket, entries []BatchEntry) BatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ticketCurrent(t) {
		logger.L().Info("generation batch dropped as stale",
			zap.String("session", s.session),
			zap.String("ticket_project", t.ProjectID.String()),
		)
		return BatchResult{Stale: true}
	}

	res := BatchResult{}
	now := time.Now()
	for _, e := range entries {
		path := NormalizePath(e.Path)
		if path == "" {
			res.Skipped = append(res.Skipped, Skip{Path: e.Path, Reason: "empty path"})
			continue
		}
		if e.Content == nil {
			res.Skipped = append(res.Skipped, Skip{Path: path, Reason: "missing content"})
			continue
		}

		lang := e.Language
		if lang == "" {
			lang = LanguageForPath(path)
		}

		if f, ok := s.files[path]; ok {
			f.Content = *e.Content
			f.Language = lang
			f.Size = int64(len(*e.Content))
			f.UpdatedAt = now
			f.Origin = OriginLocal
		} else {
			s.files[path] = &File{
				Path:      path,
				Content:   *e.Content,
				Language:  lang,
				Size:      int64(len(*e.Content)),
				UpdatedAt: now,
				Origin:    OriginLocal,
			}
		}
		res.Applied = append(res.Applied, path)
	}

	for _, sk := range res.Skipped {
		logger.L().Warn("generation batch entry skipped",
			zap.String("session", s.session),
			zap.String("path", sk.Path),
			zap.String("reason", sk.Reason),
		)
	}

	if len(res.Applied) > 0 {
		// Navigation policy: the batch's first file, in wire order, is the
		// one the user should be looking at next.
		s.active = res.Applied[0]
		s.notify(Event{Type: EventBatchApplied, Paths: res.Applied})
		s.notify(Event{Type: EventActiveFileChanged, Path: s.active})
	}
	return res
}

// SetFileContent applies a user edit to an existing file. Editing a path that
// is not in the workspace is an error, never an implicit create; the "new
// file" flow goes through the file service instead. Safe to call once per
// keystroke; debouncing of persistence is the caller's concern.
func (s *Store) SetFileContent(path, content string) error {
	path = NormalizePath(path)
	if path == "" {
		return appErr.New(appErr.CodeInvalid, "empty file path")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[path]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "file not found").WithMeta("path", path)
	}
	f.Content = content
	f.Size = int64(len(content))
	f.UpdatedAt = time.Now()
	f.Origin = OriginLocal
	s.notify(Event{Type: EventFileUpdated, Path: path})
	return nil
}

// UpsertFile installs a file created outside a generation batch, the "new
// file" user action. An existing entry at the path is replaced whole. The new
// file becomes the active selection, matching what an editor does when a file
// is created by hand.
func (s *Store) UpsertFile(path, content, language string) (File, error) {
	path = NormalizePath(path)
	if path == "" {
		return File{}, appErr.New(appErr.CodeInvalid, "empty file path")
	}
	if language == "" {
		language = LanguageForPath(path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f := &File{
		Path:      path,
		Content:   content,
		Language:  language,
		Size:      int64(len(content)),
		UpdatedAt: time.Now(),
		Origin:    OriginLocal,
	}
	if prev, ok := s.files[path]; ok {
		f.Saved = prev.Saved
	}
	s.files[path] = f
	s.active = path
	s.notify(Event{Type: EventFileUpdated, Path: path})
	s.notify(Event{Type: EventActiveFileChanged, Path: path})
	return *f, nil
}

// ConfirmPersisted merges a successful backend write into the entry. If the
// local content still equals what the server stored, the file flips to
// confirmed and adopts the server timestamp. If a newer local edit raced the
// network call, the local content survives and only the saved snapshot is
// updated; the file stays unconfirmed until the next write lands.
//
// Returns true when the file is fully confirmed. Confirming a path that has
// been deleted in the meantime is a no-op.
func (s *Store) ConfirmPersisted(path string, remote RemoteFile) bool {
	path = NormalizePath(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[path]
	if !ok {
		return false
	}

	savedAt := remote.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	f.Saved = &SavedState{Content: remote.Content, Size: remote.Size, SavedAt: savedAt}

	if f.Content != remote.Content {
		// Newer local edit wins; metadata only.
		return false
	}
	if remote.Language != "" {
		f.Language = remote.Language
	}
	f.Size = remote.Size
	f.UpdatedAt = savedAt
	f.Origin = OriginRemote
	s.notify(Event{Type: EventFileUpdated, Path: path})
	return true
}

// DeleteFile removes the entry. Deleting the active file clears the selection
// so it can never dangle. Deleting an absent path is a no-op.
func (s *Store) DeleteFile(path string) error {
	path = NormalizePath(path)
	if path == "" {
		return appErr.New(appErr.CodeInvalid, "empty file path")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[path]; !ok {
		return nil
	}
	delete(s.files, path)
	if s.active == path {
		s.active = ""
		s.notify(Event{Type: EventActiveFileChanged})
	}
	s.notify(Event{Type: EventFileDeleted, Path: path})
	return nil
}

// SetActiveFile selects a file. Selecting a path that is not present is a
// no-op, reported via the return value, so caller mistakes cannot create a
// dangling reference.
func (s *Store) SetActiveFile(path string) bool {
	path = NormalizePath(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[path]; !ok {
		return false
	}
	s.active = path
	s.notify(Event{Type: EventActiveFileChanged, Path: path})
	return true
}

// Files returns a snapshot of the file set in display order: grouped by
// directory, alphabetical within each group.
func (s *Store) Files() []File {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]File, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, *f)
	}
	SortFiles(out)
	return out
}

// File returns a copy of the entry at path.
func (s *Store) File(path string) (File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[NormalizePath(path)]
	if !ok {
		return File{}, false
	}
	return *f, true
}

// ActiveFile returns the current selection, if any.
func (s *Store) ActiveFile() (File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == "" {
		return File{}, false
	}
	f, ok := s.files[s.active]
	if !ok {
		return File{}, false
	}
	return *f, true
}

// FileCount returns the number of files in the workspace.
func (s *Store) FileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Project returns the currently open project, if any.
func (s *Store) Project() (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project == nil {
		return Project{}, false
	}
	return *s.project, true
}

// AppendMessage adds a turn to the session chat log, filling in ID and
// timestamp when absent, and returns the stored value.
func (s *Store) AppendMessage(m ChatMessage) ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.chat = append(s.chat, m)
	s.notify(Event{Type: EventChatAppended, Path: "", Message: &m})
	return m
}

// Messages returns a copy of the chat log in append order.
func (s *Store) Messages() []ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChatMessage, len(s.chat))
	copy(out, s.chat)
	return out
}

// ClearChat empties the chat log without touching files.
func (s *Store) ClearChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = nil
}
