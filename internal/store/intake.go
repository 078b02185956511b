package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/noahform/intake/internal/model"
)

// IntakeStore persists intake submissions in the inschrijvingen table.
type IntakeStore struct {
	db *sql.DB
}

func NewIntakeStore(db *sql.DB) *IntakeStore {
	return &IntakeStore{db: db}
}

func scanIntake(scanner interface{ Scan(...any) error }) (*model.Intake, error) {
	var i model.Intake
	var (
		beroep, blessures, struggle, trainFreq sql.NullString
		uiteten, voeding, doelen, actie, start sql.NullString
	)
	err := scanner.Scan(
		&i.ID, &i.Voornaam, &i.Achternaam, &i.Email, &i.Telefoon,
		&i.Leeftijd, &i.Lengte, &i.Gewicht,
		&beroep, &blessures, &struggle, &trainFreq, &uiteten, &voeding, &doelen,
		&i.Importance, &actie, &start, &i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.Beroep = beroep.String
	i.Blessures = blessures.String
	i.Struggle = struggle.String
	i.TrainFrequentie = trainFreq.String
	i.Uiteten = uiteten.String
	i.VoedingAanpak = voeding.String
	i.Doelen = doelen.String
	i.Actie = actie.String
	i.StartNu = start.String
	return &i, nil
}

const intakeCols = `id, voornaam, achternaam, email, telefoon, leeftijd, lengte, gewicht,
	beroep, blessures, struggle, train_frequentie, uiteten, voeding_aanpak, doelen,
	importance, actie, start_nu, created_at`

// Create inserts a submission and returns the stored row. created_at is set by
// the database.
func (s *IntakeStore) Create(ctx context.Context, in *model.Intake) (*model.Intake, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO inschrijvingen (
			voornaam, achternaam, email, telefoon, leeftijd, lengte, gewicht,
			beroep, blessures, struggle, train_frequentie, uiteten, voeding_aanpak, doelen,
			importance, actie, start_nu, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		in.Voornaam, in.Achternaam, in.Email, in.Telefoon, in.Leeftijd, in.Lengte, in.Gewicht,
		in.Beroep, in.Blessures, in.Struggle, in.TrainFrequentie, in.Uiteten, in.VoedingAanpak, in.Doelen,
		in.Importance, in.Actie, in.StartNu,
	)
	if err != nil {
		return nil, fmt.Errorf("insert intake: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *IntakeStore) GetByID(ctx context.Context, id int64) (*model.Intake, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+intakeCols+` FROM inschrijvingen WHERE id = ?`, id)
	i, err := scanIntake(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get intake: %w", err)
	}
	return i, nil
}

// List returns all submissions, newest first.
func (s *IntakeStore) List(ctx context.Context) ([]model.Intake, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+intakeCols+` FROM inschrijvingen ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list intakes: %w", err)
	}
	defer rows.Close()

	var intakes []model.Intake
	for rows.Next() {
		i, err := scanIntake(rows)
		if err != nil {
			return nil, fmt.Errorf("scan intake: %w", err)
		}
		intakes = append(intakes, *i)
	}
	return intakes, rows.Err()
}

// Delete removes a submission. It reports false when no row matched.
func (s *IntakeStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM inschrijvingen WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete intake: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of stored submissions.
func (s *IntakeStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inschrijvingen`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count intakes: %w", err)
	}
	return count, nil
}
