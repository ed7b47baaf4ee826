package core

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Service is the sole entry point for student reads and writes.
//
// Every mutation is validated first, then persisted, then audited. Nothing is
// cached between calls; each operation reads the store as needed.
type Service struct {
	store     StudentStore
	validator *Validator
	audit     auditor
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithAuditSink sets the sink that receives audit messages.
func WithAuditSink(sink AuditSink) ServiceOption {
	return func(s *Service) { s.audit.sink = sink }
}

// WithAuditTimeout bounds each asynchronous audit write.
func WithAuditTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.audit.timeout = d }
}

// NewService creates a Service over store.
func NewService(store StudentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		validator: NewValidator(store.ExistsByID),
		audit:     auditor{pending: &sync.WaitGroup{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Flush waits for audit writes still in flight. Call it before closing
// the audit sink's backing store.
func (s *Service) Flush(ctx context.Context) error {
	return s.audit.flush(ctx)
}

// Validator returns the validator used to gate writes.
func (s *Service) Validator() *Validator {
	return s.validator
}

// Add validates and inserts a new student.
func (s *Service) Add(ctx context.Context, st Student) error {
	st = st.Normalize()
	if err := s.validator.Validate(ctx, st, true); err != nil {
		return err
	}
	if err := s.store.Add(ctx, st); err != nil {
		return err
	}
	s.audit.emit(ctx, AuditMessage(ActionAdd, st.StudentID))
	return nil
}

// Update validates and overwrites an existing student. Updating an id that is
// not stored is a silent no-op.
func (s *Service) Update(ctx context.Context, st Student) error {
	st = st.Normalize()
	if err := s.validator.Validate(ctx, st, false); err != nil {
		return err
	}
	updated, err := s.store.Update(ctx, st)
	if err != nil {
		return err
	}
	if updated {
		s.audit.emit(ctx, AuditMessage(ActionUpdate, st.StudentID))
	}
	return nil
}

// Delete removes a student by id. Deleting an unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return newValidationError("studentId", "Student ID is required.")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.emit(ctx, AuditMessage(ActionDelete, id))
	return nil
}

// FindAll returns every student ordered by full name.
func (s *Service) FindAll(ctx context.Context) ([]Student, error) {
	return s.store.FindAll(ctx)
}

// Search returns students whose id or name matches query. A blank query
// returns every student.
func (s *Service) Search(ctx context.Context, query string) ([]Student, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.store.FindAll(ctx)
	}
	return s.store.Search(ctx, q)
}

// Exists reports whether a student with id is stored.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.store.ExistsByID(ctx, strings.TrimSpace(id))
}

// FindByID returns the student with id, if any.
func (s *Service) FindByID(ctx context.Context, id string) (*Student, bool, error) {
	return s.store.FindByID(ctx, strings.TrimSpace(id))
}
