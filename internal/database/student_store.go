package database

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/classmonitor/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// StudentStore is the PostgreSQL core.StudentStore and core.ProgrammeStore.
type StudentStore struct {
	session *Session
}

var (
	_ core.StudentStore   = (*StudentStore)(nil)
	_ core.ProgrammeStore = (*StudentStore)(nil)
)

func NewStudentStore(session *Session) *StudentStore {
	return &StudentStore{session: session}
}

func (s *StudentStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.session.Do(ctx, func(db DBTX) error {
		var err error
		exists, err = New(db).StudentExists(ctx, id)
		return err
	})
	return exists, storageErr("exists_by_id", err)
}

func (s *StudentStore) Add(ctx context.Context, st core.Student) error {
	err := s.session.Do(ctx, func(db DBTX) error {
		return New(db).InsertStudent(ctx, toRow(st))
	})
	return writeErr("add", st.StudentID, err)
}

// Update is a no-op when no row matches; updated reports whether one did.
func (s *StudentStore) Update(ctx context.Context, st core.Student) (bool, error) {
	var n int64
	err := s.session.Do(ctx, func(db DBTX) error {
		var err error
		n, err = New(db).UpdateStudent(ctx, toRow(st))
		return err
	})
	if err != nil {
		return false, storageErr("update", err)
	}
	return n > 0, nil
}

func (s *StudentStore) Delete(ctx context.Context, id string) error {
	err := s.session.Do(ctx, func(db DBTX) error {
		return New(db).DeleteStudent(ctx, id)
	})
	return storageErr("delete", err)
}

func (s *StudentStore) FindByID(ctx context.Context, id string) (*core.Student, bool, error) {
	var (
		row   StudentRow
		found bool
	)
	err := s.session.Do(ctx, func(db DBTX) error {
		var err error
		row, err = New(db).GetStudent(ctx, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		found = err == nil
		return err
	})
	if err != nil {
		return nil, false, storageErr("find_by_id", err)
	}
	if !found {
		return nil, false, nil
	}
	st := fromRow(row)
	return &st, true, nil
}

func (s *StudentStore) FindAll(ctx context.Context) ([]core.Student, error) {
	var rows []StudentRow
	err := s.session.Do(ctx, func(db DBTX) error {
		var err error
		rows, err = New(db).ListStudents(ctx)
		return err
	})
	if err != nil {
		return nil, storageErr("find_all", err)
	}
	return fromRows(rows), nil
}

func (s *StudentStore) Search(ctx context.Context, query string) ([]core.Student, error) {
	var rows []StudentRow
	err := s.session.Do(ctx, func(db DBTX) error {
		var err error
		rows, err = New(db).SearchStudents(ctx, query)
		return err
	})
	if err != nil {
		return nil, storageErr("search", err)
	}
	return fromRows(rows), nil
}

// ----------------------------------------------------------------------------
// Programmes
// ----------------------------------------------------------------------------

func (s *StudentStore) ListProgrammes(ctx context.Context) ([]string, error) {
	var names []string
	err := s.session.Do(ctx, func(db DBTX) error {
		var err error
		names, err = New(db).ListProgrammes(ctx)
		return err
	})
	if err != nil {
		return nil, storageErr("list_programmes", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *StudentStore) AddProgramme(ctx context.Context, name string) error {
	err := s.session.Do(ctx, func(db DBTX) error {
		return New(db).InsertProgramme(ctx, name)
	})
	return writeErr("add_programme", name, err)
}

func (s *StudentStore) RenameProgramme(ctx context.Context, oldName, newName string) error {
	err := s.session.Do(ctx, func(db DBTX) error {
		return New(db).RenameProgramme(ctx, oldName, newName)
	})
	return writeErr("rename_programme", newName, err)
}

func (s *StudentStore) DeleteProgramme(ctx context.Context, name string) error {
	err := s.session.Do(ctx, func(db DBTX) error {
		return New(db).DeleteProgramme(ctx, name)
	})
	return storageErr("delete_programme", err)
}

// ----------------------------------------------------------------------------
// Row mapping
// ----------------------------------------------------------------------------

func toRow(st core.Student) StudentRow {
	return StudentRow{
		StudentID:    st.StudentID,
		FullName:     st.FullName,
		Programme:    st.Programme,
		Level:        int32(st.Level),
		Gpa:          st.GPA,
		Email:        st.Email,
		Phone:        st.Phone,
		EnrolledDate: toDate(st.EnrolledDate),
		Status:       st.Status,
	}
}

func fromRow(r StudentRow) core.Student {
	return core.Student{
		StudentID:    r.StudentID,
		FullName:     r.FullName,
		Programme:    r.Programme,
		Level:        int(r.Level),
		GPA:          r.Gpa,
		Email:        r.Email,
		Phone:        r.Phone,
		EnrolledDate: fromDate(r.EnrolledDate),
		Status:       r.Status,
	}
}

func fromRows(rows []StudentRow) []core.Student {
	out := make([]core.Student, len(rows))
	for i, r := range rows {
		out[i] = fromRow(r)
	}
	return out
}

// toDate converts an ISO date string. Unparsable values become NULL.
func toDate(s string) pgtype.Date {
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func fromDate(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(core.DateLayout)
}
