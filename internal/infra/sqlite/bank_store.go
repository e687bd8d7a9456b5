// Package sqlite keeps question banks in a local SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"traffic-quiz/internal/domain"
)

// BankStore reads and writes banks in SQLite.
type BankStore struct {
	conn *sql.DB
}

// Open opens (or creates) the database at path and makes sure the tables exist.
func Open(path string) (*BankStore, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := createTables(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &BankStore{conn: conn}, nil
}

// Close closes the database connection
func (s *BankStore) Close() error {
	return s.conn.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS banks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS questions (
			bank_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			id INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			options TEXT NOT NULL,
			correct INTEGER NOT NULL,
			level INTEGER NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (bank_id, id)
		);
		CREATE TABLE IF NOT EXISTS achievements (
			bank_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (bank_id, id)
		)
	`)
	return err
}

func (s *BankStore) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	bank := domain.Bank{ID: bankID}
	err := s.conn.QueryRowContext(ctx, `SELECT title FROM banks WHERE id = ?`, bankID).Scan(&bank.Title)
	if err == sql.ErrNoRows {
		return domain.Bank{}, fmt.Errorf("bank %q: %w", bankID, domain.ErrBankNotFound)
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, prompt, options, correct, level, image FROM questions WHERE bank_id = ? ORDER BY position`, bankID)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			q       domain.Question
			options string
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &options, &q.Correct, &q.Level, &q.Image); err != nil {
			return domain.Bank{}, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return domain.Bank{}, fmt.Errorf("question %d options: %w", q.ID, err)
		}
		bank.Questions = append(bank.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.Bank{}, err
	}

	achRows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, description, icon FROM achievements WHERE bank_id = ? ORDER BY position`, bankID)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load achievements: %w", err)
	}
	defer achRows.Close()
	for achRows.Next() {
		var a domain.Achievement
		if err := achRows.Scan(&a.ID, &a.Title, &a.Description, &a.Icon); err != nil {
			return domain.Bank{}, fmt.Errorf("scan achievement: %w", err)
		}
		bank.Achievements = append(bank.Achievements, a)
	}
	return bank, achRows.Err()
}

// SaveBank replaces any stored copy of bank in a single transaction.
func (s *BankStore) SaveBank(ctx context.Context, bank domain.Bank) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM questions WHERE bank_id = ?`,
		`DELETE FROM achievements WHERE bank_id = ?`,
		`DELETE FROM banks WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, bank.ID); err != nil {
			return fmt.Errorf("clear bank: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO banks (id, title) VALUES (?, ?)`, bank.ID, bank.Title); err != nil {
		return fmt.Errorf("insert bank: %w", err)
	}
	for i, q := range bank.Questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO questions (bank_id, position, id, prompt, options, correct, level, image) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			bank.ID, i, q.ID, q.Prompt, string(options), q.Correct, q.Level, q.Image)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", q.ID, err)
		}
	}
	for i, a := range bank.Achievements {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO achievements (bank_id, position, id, title, description, icon) VALUES (?, ?, ?, ?, ?, ?)`,
			bank.ID, i, a.ID, a.Title, a.Description, a.Icon)
		if err != nil {
			return fmt.Errorf("insert achievement %q: %w", a.ID, err)
		}
	}
	return tx.Commit()
}
