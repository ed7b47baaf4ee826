package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Queries holds the SQL statements used by the stores.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// ----------------------------------------------------------------------------
// Students
// ----------------------------------------------------------------------------

type StudentRow struct {
	StudentID    string
	FullName     string
	Programme    string
	Level        int32
	Gpa          float64
	Email        string
	Phone        string
	EnrolledDate pgtype.Date
	Status       string
}

const studentColumns = `student_id, full_name, programme, level, gpa, email, phone, enrolled_date, status`

const studentExists = `-- name: StudentExists :one
SELECT EXISTS (SELECT 1 FROM students WHERE student_id = $1)
`

func (q *Queries) StudentExists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, studentExists, studentID).Scan(&exists)
	return exists, err
}

const insertStudent = `-- name: InsertStudent :exec
INSERT INTO students (` + studentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (q *Queries) InsertStudent(ctx context.Context, arg StudentRow) error {
	_, err := q.db.Exec(ctx, insertStudent,
		arg.StudentID,
		arg.FullName,
		arg.Programme,
		arg.Level,
		arg.Gpa,
		arg.Email,
		arg.Phone,
		arg.EnrolledDate,
		arg.Status,
	)
	return err
}

const updateStudent = `-- name: UpdateStudent :execrows
UPDATE students
SET full_name = $2, programme = $3, level = $4, gpa = $5,
    email = $6, phone = $7, enrolled_date = $8, status = $9
WHERE student_id = $1
`

func (q *Queries) UpdateStudent(ctx context.Context, arg StudentRow) (int64, error) {
	tag, err := q.db.Exec(ctx, updateStudent,
		arg.StudentID,
		arg.FullName,
		arg.Programme,
		arg.Level,
		arg.Gpa,
		arg.Email,
		arg.Phone,
		arg.EnrolledDate,
		arg.Status,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteStudent = `-- name: DeleteStudent :exec
DELETE FROM students WHERE student_id = $1
`

func (q *Queries) DeleteStudent(ctx context.Context, studentID string) error {
	_, err := q.db.Exec(ctx, deleteStudent, studentID)
	return err
}

const getStudent = `-- name: GetStudent :one
SELECT ` + studentColumns + ` FROM students WHERE student_id = $1
`

func (q *Queries) GetStudent(ctx context.Context, studentID string) (StudentRow, error) {
	var r StudentRow
	err := q.db.QueryRow(ctx, getStudent, studentID).Scan(
		&r.StudentID,
		&r.FullName,
		&r.Programme,
		&r.Level,
		&r.Gpa,
		&r.Email,
		&r.Phone,
		&r.EnrolledDate,
		&r.Status,
	)
	return r, err
}

const listStudents = `-- name: ListStudents :many
SELECT ` + studentColumns + ` FROM students ORDER BY full_name, student_id
`

func (q *Queries) ListStudents(ctx context.Context) ([]StudentRow, error) {
	return q.queryStudents(ctx, listStudents)
}

// strpos keeps user input out of LIKE pattern syntax.
const searchStudents = `-- name: SearchStudents :many
SELECT ` + studentColumns + ` FROM students
WHERE strpos(student_id, $1) > 0
   OR strpos(lower(full_name), lower($1)) > 0
ORDER BY full_name, student_id
`

func (q *Queries) SearchStudents(ctx context.Context, query string) ([]StudentRow, error) {
	return q.queryStudents(ctx, searchStudents, query)
}

func (q *Queries) queryStudents(ctx context.Context, sql string, args ...any) ([]StudentRow, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []StudentRow
	for rows.Next() {
		var r StudentRow
		if err := rows.Scan(
			&r.StudentID,
			&r.FullName,
			&r.Programme,
			&r.Level,
			&r.Gpa,
			&r.Email,
			&r.Phone,
			&r.EnrolledDate,
			&r.Status,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// ----------------------------------------------------------------------------
// Programmes
// ----------------------------------------------------------------------------

const listProgrammes = `-- name: ListProgrammes :many
SELECT name FROM programmes ORDER BY name
`

func (q *Queries) ListProgrammes(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listProgrammes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	return items, rows.Err()
}

const insertProgramme = `-- name: InsertProgramme :exec
INSERT INTO programmes (name) VALUES ($1)
`

func (q *Queries) InsertProgramme(ctx context.Context, name string) error {
	_, err := q.db.Exec(ctx, insertProgramme, name)
	return err
}

const renameProgramme = `-- name: RenameProgramme :exec
UPDATE programmes SET name = $2 WHERE name = $1
`

func (q *Queries) RenameProgramme(ctx context.Context, oldName, newName string) error {
	_, err := q.db.Exec(ctx, renameProgramme, oldName, newName)
	return err
}

const deleteProgramme = `-- name: DeleteProgramme :exec
DELETE FROM programmes WHERE name = $1
`

func (q *Queries) DeleteProgramme(ctx context.Context, name string) error {
	_, err := q.db.Exec(ctx, deleteProgramme, name)
	return err
}

// ----------------------------------------------------------------------------
// Audit log
// ----------------------------------------------------------------------------

type InsertAuditEntryParams struct {
	ID        pgtype.UUID
	Message   string
	CreatedAt pgtype.Timestamptz
}

const insertAuditEntry = `-- name: InsertAuditEntry :exec
INSERT INTO audit_log (id, message, created_at) VALUES ($1, $2, $3)
`

func (q *Queries) InsertAuditEntry(ctx context.Context, arg InsertAuditEntryParams) error {
	_, err := q.db.Exec(ctx, insertAuditEntry, arg.ID, arg.Message, arg.CreatedAt)
	return err
}

type AuditEntryRow struct {
	ID        pgtype.UUID
	Message   string
	CreatedAt pgtype.Timestamptz
}

const listAuditEntries = `-- name: ListAuditEntries :many
SELECT id, message, created_at FROM audit_log
ORDER BY created_at DESC
LIMIT $1
`

func (q *Queries) ListAuditEntries(ctx context.Context, limit int32) ([]AuditEntryRow, error) {
	rows, err := q.db.Query(ctx, listAuditEntries, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []AuditEntryRow
	for rows.Next() {
		var r AuditEntryRow
		if err := rows.Scan(&r.ID, &r.Message, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const deleteAuditEntriesBefore = `-- name: DeleteAuditEntriesBefore :execrows
DELETE FROM audit_log WHERE created_at < $1
`

func (q *Queries) DeleteAuditEntriesBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteAuditEntriesBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
