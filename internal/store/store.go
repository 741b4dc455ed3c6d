// Package store is the only place SQL touches the student table. It is
// constructed with an open gorm handle and injected into the feature
// modules; nothing reaches the database through package-level state.
package store

import (
	"strings"

	"student-data-system/internal/model"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound means no row exists for the requested id or NIS.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateNIS means a unique-index violation on nis.
	ErrDuplicateNIS = errors.New("store: nis already exists")
	// ErrAdminExists means the write would create a second ADMIN row.
	ErrAdminExists = errors.New("store: an admin row already exists")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Filter narrows List. Kelas matches exactly; Search matches nama or
// nis case-insensitively as a substring.
type Filter struct {
	Kelas  string
	Search string
}

// KelasCount is one row of the per-class aggregation.
type KelasCount struct {
	Kelas string `json:"kelas"`
	Count int64  `json:"count"`
}

func (s *Store) List(f Filter) ([]model.Student, error) {
	q := s.db.Model(&model.Student{})
	if f.Kelas != "" {
		q = q.Where("kelas = ?", f.Kelas)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(nama) LIKE ? OR LOWER(nis) LIKE ?", pattern, pattern)
	}

	var students []model.Student
	if err := q.Order("nama asc").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *Store) Get(id uint) (*model.Student, error) {
	var student model.Student
	err := s.db.First(&student, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	return &student, nil
}

func (s *Store) FindByNIS(nis string) (*model.Student, error) {
	var student model.Student
	err := s.db.Where("nis = ?", nis).First(&student).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	return &student, nil
}

// Create inserts one row. A duplicate NIS yields ErrDuplicateNIS; a row
// that would become a second ADMIN yields ErrAdminExists.
func (s *Store) Create(student *model.Student) error {
	if student.Role == model.RoleAdmin {
		if err := s.ensureNoAdmin(); err != nil {
			return err
		}
	}
	if err := s.db.Create(student).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicateNIS
		}
		return err
	}
	return nil
}

// Update applies a partial column map to one row and returns the
// refreshed record.
func (s *Store) Update(id uint, fields map[string]any) (*model.Student, error) {
	student, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if role, ok := fields["role"]; ok && role == string(model.RoleAdmin) && student.Role != model.RoleAdmin {
		if err := s.ensureNoAdmin(); err != nil {
			return nil, err
		}
	}

	if len(fields) > 0 {
		if err := s.db.Model(student).Updates(fields).Error; err != nil {
			if isDuplicateErr(err) {
				return nil, ErrDuplicateNIS
			}
			return nil, err
		}
	}
	return s.Get(id)
}

func (s *Store) Delete(id uint) error {
	result := s.db.Delete(&model.Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkCreate inserts rows in one statement with duplicate-NIS rows
// silently skipped, and returns the number actually inserted. Existing
// rows are never touched; duplicates within the batch (including empty
// NIS values after the first) collapse the same way.
func (s *Store) BulkCreate(students []model.Student) (int64, error) {
	if len(students) == 0 {
		return 0, nil
	}
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&students)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.Model(&model.Student{}).Count(&count).Error
	return count, err
}

func (s *Store) CountByKelas() ([]KelasCount, error) {
	var rows []KelasCount
	err := s.db.Model(&model.Student{}).
		Select("kelas, COUNT(id) AS count").
		Group("kelas").
		Order("kelas asc").
		Scan(&rows).Error
	return rows, err
}

func (s *Store) ensureNoAdmin() error {
	var count int64
	if err := s.db.Model(&model.Student{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAdminExists
	}
	return nil
}

// isDuplicateErr matches the translated gorm sentinel and, as a
// fallback, the raw MySQL duplicate-entry error.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}
