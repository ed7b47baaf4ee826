package core

// memstore.go provides in-memory implementations of the store interfaces.
// They back unit tests and the CLI's dry-run mode; production uses the
// PostgreSQL adapters in internal/database.

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemStore is an in-memory StudentStore.
type MemStore struct {
	mu         sync.RWMutex
	students   map[string]Student
	programmes map[string]struct{}

	// FailWith, when set, is returned (wrapped as a StorageError) by every call.
	FailWith error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		students:   make(map[string]Student),
		programmes: make(map[string]struct{}),
	}
}

func (m *MemStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	if m.FailWith != nil {
		return false, NewStorageError("exists_by_id", m.FailWith)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.students[id]
	return ok, nil
}

func (m *MemStore) Add(ctx context.Context, s Student) error {
	if m.FailWith != nil {
		return NewStorageError("add", m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[s.StudentID]; ok {
		return &DuplicateKeyError{ID: s.StudentID}
	}
	m.students[s.StudentID] = s
	return nil
}

func (m *MemStore) Update(ctx context.Context, s Student) (bool, error) {
	if m.FailWith != nil {
		return false, NewStorageError("update", m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[s.StudentID]; !ok {
		return false, nil
	}
	m.students[s.StudentID] = s
	return true, nil
}

func (m *MemStore) Delete(ctx context.Context, id string) error {
	if m.FailWith != nil {
		return NewStorageError("delete", m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.students, id)
	return nil
}

func (m *MemStore) FindByID(ctx context.Context, id string) (*Student, bool, error) {
	if m.FailWith != nil {
		return nil, false, NewStorageError("find_by_id", m.FailWith)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.students[id]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (m *MemStore) FindAll(ctx context.Context) ([]Student, error) {
	if m.FailWith != nil {
		return nil, NewStorageError("find_all", m.FailWith)
	}
	return m.filter(func(Student) bool { return true }), nil
}

func (m *MemStore) Search(ctx context.Context, query string) ([]Student, error) {
	if m.FailWith != nil {
		return nil, NewStorageError("search", m.FailWith)
	}
	q := strings.TrimSpace(query)
	lq := strings.ToLower(q)
	return m.filter(func(s Student) bool {
		return strings.Contains(s.StudentID, q) ||
			strings.Contains(strings.ToLower(s.FullName), lq)
	}), nil
}

// Len returns the number of stored students.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.students)
}

func (m *MemStore) filter(keep func(Student) bool) []Student {
	m.mu.RLock()
	out := make([]Student, 0, len(m.students))
	for _, s := range m.students {
		if keep(s) {
			out = append(out, s)
		}
	}
	m.mu.RUnlock()

	sortByName(out)
	return out
}

// sortByName orders students by full name, then id for a stable result.
func sortByName(students []Student) {
	sort.Slice(students, func(i, j int) bool {
		if students[i].FullName != students[j].FullName {
			return students[i].FullName < students[j].FullName
		}
		return students[i].StudentID < students[j].StudentID
	})
}

// ----------------------------------------------------------------------------
// Programmes
// ----------------------------------------------------------------------------

func (m *MemStore) ListProgrammes(ctx context.Context) ([]string, error) {
	if m.FailWith != nil {
		return nil, NewStorageError("list_programmes", m.FailWith)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.programmes))
	for name := range m.programmes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemStore) AddProgramme(ctx context.Context, name string) error {
	if m.FailWith != nil {
		return NewStorageError("add_programme", m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.programmes[name]; ok {
		return &DuplicateKeyError{ID: name}
	}
	m.programmes[name] = struct{}{}
	return nil
}

func (m *MemStore) RenameProgramme(ctx context.Context, oldName, newName string) error {
	if m.FailWith != nil {
		return NewStorageError("rename_programme", m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.programmes[oldName]; !ok {
		return nil
	}
	if _, ok := m.programmes[newName]; ok && newName != oldName {
		return &DuplicateKeyError{ID: newName}
	}
	delete(m.programmes, oldName)
	m.programmes[newName] = struct{}{}
	return nil
}

func (m *MemStore) DeleteProgramme(ctx context.Context, name string) error {
	if m.FailWith != nil {
		return NewStorageError("delete_programme", m.FailWith)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.programmes, name)
	return nil
}
