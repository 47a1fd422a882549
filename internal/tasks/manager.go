// Package tasks owns the task list state: which tasks exist, which of them
// are completed, in what order, and whether the dark theme is on.
//
// Every mutating method writes the full state back to the Store before it
// returns. Nothing here returns an error: a store that cannot be read looks
// empty, and a store that cannot be written is logged and otherwise ignored.
// A write that fails partway can leave a task stored in both lists, which
// Initialize repairs, but never in neither.
package tasks

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Storage keys of the persisted state.
const (
	KeyActive    = "tasks"
	KeyCompleted = "completedTasks"
	KeyDarkMode  = "darkMode"
)

// Store is the persistence contract the Manager needs.
type Store interface {
	// Load decodes the value under key into dst; false means absent.
	Load(key string, dst any) bool

	// Save encodes v under key.
	Save(key string, v any) error
}

// IDSource produces task identifiers.
type IDSource interface {
	Next() int64
}

// Manager holds the in-memory task state.
//
// Tasks live in a single map keyed by ID; Active and Completed are views
// derived from each entry's status, so a task can never sit in both lists
// or in neither.
type Manager struct {
	store Store
	ids   IDSource
	log   logrus.FieldLogger

	entries  map[int64]*entry
	seq      uint64
	darkMode bool
}

type entry struct {
	task   Task
	status Status
	seq    uint64 // position within its current collection
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for swallowed storage errors.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) { m.log = log }
}

// New creates a Manager over store and loads the persisted state.
func New(store Store, ids IDSource, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		ids:   ids,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithField("module", "tasks")
	m.Initialize()
	return m
}

// Initialize replaces the in-memory state with what the store holds.
// Absent or malformed values fall back to empty lists and a light theme.
func (m *Manager) Initialize() {
	m.entries = make(map[int64]*entry)
	m.seq = 0
	m.darkMode = false

	var active, completed []Task
	m.store.Load(KeyActive, &active)
	m.store.Load(KeyCompleted, &completed)
	m.store.Load(KeyDarkMode, &m.darkMode)

	m.adopt(active, StatusActive)
	m.adopt(completed, StatusCompleted)

	m.log.WithFields(logrus.Fields{
		"active":    len(active),
		"completed": len(completed),
		"dark":      m.darkMode,
	}).Debug("state loaded")
}

// adopt appends loaded tasks with the given status. Duplicate IDs keep the
// first occurrence and blank texts are dropped.
func (m *Manager) adopt(list []Task, status Status) {
	for _, t := range list {
		if strings.TrimSpace(t.Text) == "" {
			m.log.WithField("id", t.ID).Warn("dropping stored task with empty text")
			continue
		}
		if _, dup := m.entries[t.ID]; dup {
			m.log.WithField("id", t.ID).Warn("dropping stored task with duplicate id")
			continue
		}
		m.seq++
		m.entries[t.ID] = &entry{task: t, status: status, seq: m.seq}
	}
}

// AddTask appends a new active task with the trimmed text. Blank text is
// rejected and reported with ok == false; nothing is written then.
func (m *Manager) AddTask(text string) (t Task, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}

	t = Task{ID: m.nextID(), Text: text}
	m.seq++
	m.entries[t.ID] = &entry{task: t, status: StatusActive, seq: m.seq}
	m.persist(StatusActive)
	return t, true
}

// nextID draws IDs until it finds one not already in use.
func (m *Manager) nextID() int64 {
	for {
		id := m.ids.Next()
		if _, taken := m.entries[id]; !taken {
			return id
		}
	}
}

// ToggleTask moves the task with the given id from the collection named by
// isCompleted to the end of the other one. It reports whether a task moved;
// an id that is not in the named collection is ignored and nothing is written.
func (m *Manager) ToggleTask(id int64, isCompleted bool) bool {
	e, ok := m.entries[id]
	if !ok || e.status != statusOf(isCompleted) {
		m.log.WithField("id", id).Debug("toggle ignored: task not in expected list")
		return false
	}

	e.status = e.status.Other()
	m.seq++
	e.seq = m.seq
	m.persist(e.status)
	return true
}

// SetTheme sets the dark theme flag.
func (m *Manager) SetTheme(dark bool) {
	m.darkMode = dark
	m.persist(StatusActive)
}

// ToggleTheme flips the dark theme flag and returns the new value.
func (m *Manager) ToggleTheme() bool {
	m.SetTheme(!m.darkMode)
	return m.darkMode
}

// DarkMode reports whether the dark theme is on.
func (m *Manager) DarkMode() bool { return m.darkMode }

// Active returns the active tasks in insertion order.
func (m *Manager) Active() []Task { return m.view(StatusActive) }

// Completed returns the completed tasks in the order they were completed.
func (m *Manager) Completed() []Task { return m.view(StatusCompleted) }

// List returns the completed list when completed is true, else the active one.
func (m *Manager) List(completed bool) []Task { return m.view(statusOf(completed)) }

// TaskAt returns the n-th (1-based) task of the named list.
func (m *Manager) TaskAt(completed bool, n int) (Task, bool) {
	list := m.List(completed)
	if n < 1 || n > len(list) {
		return Task{}, false
	}
	return list[n-1], true
}

// Counts returns the sizes of both lists.
func (m *Manager) Counts() (active, completed int) {
	for _, e := range m.entries {
		if e.status == StatusCompleted {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}

func (m *Manager) view(status Status) []Task {
	matched := make([]*entry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.status == status {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	out := make([]Task, len(matched))
	for i, e := range matched {
		out[i] = e.task
	}
	return out
}

// persist writes all three keys. The list that gained a task goes first and
// the list that lost it is only written once that succeeded. The theme flag
// is written regardless.
func (m *Manager) persist(gained Status) {
	lost := gained.Other()
	if m.save(listKey(gained), m.view(gained)) {
		m.save(listKey(lost), m.view(lost))
	} else {
		m.log.WithField("key", listKey(lost)).Warn("persist skipped after failed write")
	}
	m.save(KeyDarkMode, m.darkMode)
}

func (m *Manager) save(key string, v any) bool {
	if err := m.store.Save(key, v); err != nil {
		m.log.WithError(err).WithField("key", key).Warn("persist failed")
		return false
	}
	return true
}

func listKey(s Status) string {
	if s == StatusCompleted {
		return KeyCompleted
	}
	return KeyActive
}
