// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"mcp-ahara/internal/apperrors"
	"mcp-ahara/internal/models"
)

const DefaultLimit = 50

// timeLayout is RFC3339 with fixed-width nanoseconds so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc sqlite serializes writers per connection
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    PRAGMA foreign_keys = ON;

    CREATE TABLE IF NOT EXISTS patients (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        dominant_dosha TEXT NOT NULL,
        profile TEXT NOT NULL,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS quiz_results (
        id TEXT PRIMARY KEY,
        patient_id TEXT,
        total_vata REAL NOT NULL,
        total_pitta REAL NOT NULL,
        total_kapha REAL NOT NULL,
        prakriti TEXT NOT NULL,
        description TEXT NOT NULL,
        recommendations TEXT NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS meals (
        id TEXT PRIMARY KEY,
        patient_id TEXT NOT NULL,
        name TEXT NOT NULL,
        meal_type TEXT NOT NULL,
        timestamp TEXT NOT NULL,
        total_calories REAL NOT NULL,
        total_protein REAL NOT NULL,
        total_anh_score INTEGER NOT NULL,
        constraints_satisfied INTEGER NOT NULL,
        algorithm TEXT NOT NULL,
        created_at TEXT NOT NULL,
        FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS meal_items (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        meal_id TEXT NOT NULL,
        food_id TEXT NOT NULL,
        quantity REAL NOT NULL,
        unit TEXT NOT NULL,
        FOREIGN KEY (meal_id) REFERENCES meals(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_quiz_results_patient ON quiz_results(patient_id, created_at);
    CREATE INDEX IF NOT EXISTS idx_meals_patient_timestamp ON meals(patient_id, timestamp);
    CREATE INDEX IF NOT EXISTS idx_meal_items_meal_id ON meal_items(meal_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// SavePatient inserts or replaces a patient profile.
func (s *SQLiteStorage) SavePatient(ctx context.Context, patient models.PatientProfile) error {
	profile, err := json.Marshal(patient)
	if err != nil {
		return fmt.Errorf("failed to marshal patient: %w", err)
	}

	now := formatTime(time.Now())
	query := `
        INSERT INTO patients (id, name, dominant_dosha, profile, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            dominant_dosha = excluded.dominant_dosha,
            profile = excluded.profile,
            updated_at = excluded.updated_at
    `
	_, err = s.db.ExecContext(ctx, query,
		patient.ID, patient.Name, string(patient.Prakriti.Dominant), string(profile), now, now)
	if err != nil {
		return apperrors.NewStorageError("save patient", err)
	}
	return nil
}

func (s *SQLiteStorage) GetPatient(ctx context.Context, id string) (models.PatientProfile, error) {
	var profile string
	err := s.db.QueryRowContext(ctx, `SELECT profile FROM patients WHERE id = ?`, id).Scan(&profile)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PatientProfile{}, apperrors.NewNotFoundError("patient", id)
	}
	if err != nil {
		return models.PatientProfile{}, apperrors.NewStorageError("get patient", err)
	}

	var patient models.PatientProfile
	if err := json.Unmarshal([]byte(profile), &patient); err != nil {
		return models.PatientProfile{}, fmt.Errorf("failed to unmarshal patient %s: %w", id, err)
	}
	return patient, nil
}

// ListPatients returns patients by most recent update.
func (s *SQLiteStorage) ListPatients(ctx context.Context, limit int) ([]models.PatientProfile, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT profile FROM patients ORDER BY updated_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.NewStorageError("list patients", err)
	}
	defer rows.Close()

	patients := []models.PatientProfile{}
	for rows.Next() {
		var profile string
		if err := rows.Scan(&profile); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		var patient models.PatientProfile
		if err := json.Unmarshal([]byte(profile), &patient); err != nil {
			return nil, fmt.Errorf("failed to unmarshal patient: %w", err)
		}
		patients = append(patients, patient)
	}
	return patients, rows.Err()
}

func (s *SQLiteStorage) SaveQuizResult(ctx context.Context, result models.PrakritiQuizResult) error {
	prakriti, err := json.Marshal(result.Prakriti)
	if err != nil {
		return fmt.Errorf("failed to marshal prakriti: %w", err)
	}
	recs, err := json.Marshal(result.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	var patientID sql.NullString
	if result.PatientID != "" {
		patientID = sql.NullString{String: result.PatientID, Valid: true}
	}

	query := `
        INSERT INTO quiz_results (id, patient_id, total_vata, total_pitta, total_kapha, prakriti, description, recommendations, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = s.db.ExecContext(ctx, query,
		result.ID, patientID, result.TotalVata, result.TotalPitta, result.TotalKapha,
		string(prakriti), result.Description, string(recs), formatTime(result.CreatedAt))
	if err != nil {
		return apperrors.NewStorageError("save quiz result", err)
	}
	return nil
}

// GetQuizResults returns a patient's assessments, newest first.
func (s *SQLiteStorage) GetQuizResults(ctx context.Context, patientID string, limit int) ([]models.PrakritiQuizResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `
        SELECT id, patient_id, total_vata, total_pitta, total_kapha, prakriti, description, recommendations, created_at
        FROM quiz_results
        WHERE patient_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, query, patientID, limit)
	if err != nil {
		return nil, apperrors.NewStorageError("query quiz results", err)
	}
	defer rows.Close()

	results := []models.PrakritiQuizResult{}
	for rows.Next() {
		var (
			r                          models.PrakritiQuizResult
			pid                        sql.NullString
			prakriti, recs, createdStr string
		)
		err := rows.Scan(&r.ID, &pid, &r.TotalVata, &r.TotalPitta, &r.TotalKapha,
			&prakriti, &r.Description, &recs, &createdStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz result: %w", err)
		}
		r.PatientID = pid.String
		if err := json.Unmarshal([]byte(prakriti), &r.Prakriti); err != nil {
			return nil, fmt.Errorf("failed to unmarshal prakriti: %w", err)
		}
		if err := json.Unmarshal([]byte(recs), &r.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
		}
		if r.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *SQLiteStorage) SaveMeal(ctx context.Context, meal models.SavedMeal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	mealQuery := `
        INSERT INTO meals (id, patient_id, name, meal_type, timestamp, total_calories, total_protein,
            total_anh_score, constraints_satisfied, algorithm, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = tx.ExecContext(ctx, mealQuery,
		meal.ID, meal.PatientID, meal.Name, string(meal.Type), formatTime(meal.Timestamp),
		meal.TotalCalories, meal.TotalProtein, meal.TotalANHScore, meal.ConstraintsSatisfied,
		meal.Algorithm, formatTime(meal.CreatedAt))
	if err != nil {
		return apperrors.NewStorageError("insert meal", err)
	}

	itemQuery := `
        INSERT INTO meal_items (meal_id, food_id, quantity, unit)
        VALUES (?, ?, ?, ?)
    `
	for _, item := range meal.Items {
		if _, err := tx.ExecContext(ctx, itemQuery, meal.ID, item.FoodID, item.Quantity, item.Unit); err != nil {
			return apperrors.NewStorageError("insert meal item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("commit meal", err)
	}
	return nil
}

// GetMeals returns a patient's meals, newest first. Dates are YYYY-MM-DD and inclusive.
func (s *SQLiteStorage) GetMeals(ctx context.Context, patientID, startDate, endDate string, limit int) ([]models.SavedMeal, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `
        SELECT id, patient_id, name, meal_type, timestamp, total_calories, total_protein,
            total_anh_score, constraints_satisfied, algorithm, created_at
        FROM meals
        WHERE patient_id = ?
    `
	args := []interface{}{patientID}

	if startDate != "" {
		query += " AND DATE(timestamp) >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND DATE(timestamp) <= ?"
		args = append(args, endDate)
	}

	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("query meals", err)
	}

	meals := []models.SavedMeal{}
	for rows.Next() {
		var (
			meal                       models.SavedMeal
			mealType                   string
			timestampStr, createdAtStr string
		)
		err := rows.Scan(&meal.ID, &meal.PatientID, &meal.Name, &mealType, &timestampStr,
			&meal.TotalCalories, &meal.TotalProtein, &meal.TotalANHScore, &meal.ConstraintsSatisfied,
			&meal.Algorithm, &createdAtStr)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meal.Type = models.MealType(mealType)
		if meal.Timestamp, err = parseTime(timestampStr); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}
		if meal.CreatedAt, err = parseTime(createdAtStr); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read meals: %w", err)
	}
	rows.Close()

	// items are loaded after the meal cursor is closed; the pool holds one connection
	for i := range meals {
		if err := s.loadItemsForMeal(ctx, &meals[i]); err != nil {
			return nil, fmt.Errorf("failed to load items for meal %s: %w", meals[i].ID, err)
		}
	}

	return meals, nil
}

func (s *SQLiteStorage) loadItemsForMeal(ctx context.Context, meal *models.SavedMeal) error {
	query := `
        SELECT food_id, quantity, unit
        FROM meal_items
        WHERE meal_id = ?
        ORDER BY id
    `

	rows, err := s.db.QueryContext(ctx, query, meal.ID)
	if err != nil {
		return fmt.Errorf("failed to query meal items: %w", err)
	}
	defer rows.Close()

	items := []models.SavedMealItem{}
	for rows.Next() {
		var item models.SavedMealItem
		if err := rows.Scan(&item.FoodID, &item.Quantity, &item.Unit); err != nil {
			return fmt.Errorf("failed to scan meal item: %w", err)
		}
		items = append(items, item)
	}

	meal.Items = items
	return rows.Err()
}
