package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PageSize is the fixed number of vacancies per catalog page.
const PageSize = 5

// ErrVacancyNotFound is returned when a vacancy id resolves to no row.
var ErrVacancyNotFound = errors.New("vacancy not found")

type Vacancy struct {
	ID          int64
	Title       string
	Description string
	City        string
}

// CreateVacancy inserts a new vacancy and returns its assigned id.
func (s *Store) CreateVacancy(ctx context.Context, title, description, city string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO vacancies (title, description, city) VALUES (?, ?, ?)`,
		title, description, city,
	)
	if err != nil {
		return 0, fmt.Errorf("insert vacancy: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("vacancy id: %w", err)
	}

	return id, nil
}

// Vacancy returns a single vacancy by id, or ErrVacancyNotFound.
func (s *Store) Vacancy(ctx context.Context, id int64) (*Vacancy, error) {
	v := &Vacancy{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, city FROM vacancies WHERE id = ?`, id,
	).Scan(&v.ID, &v.Title, &v.Description, &v.City)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVacancyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select vacancy: %w", err)
	}

	return v, nil
}

// ListVacancies returns one zero-based page of vacancies and the total count.
func (s *Store) ListVacancies(ctx context.Context, page int) ([]*Vacancy, int, error) {
	if page < 0 {
		page = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vacancies`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vacancies: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, city FROM vacancies ORDER BY id LIMIT ? OFFSET ?`,
		PageSize, page*PageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("select vacancies: %w", err)
	}
	defer rows.Close()

	var vacancies []*Vacancy
	for rows.Next() {
		v := &Vacancy{}
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.City); err != nil {
			return nil, 0, fmt.Errorf("scan vacancy: %w", err)
		}
		vacancies = append(vacancies, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate vacancies: %w", err)
	}

	return vacancies, total, nil
}

// HasNextPage reports whether another page follows the given zero-based page.
func HasNextPage(page, total int) bool {
	return (page+1)*PageSize < total
}
