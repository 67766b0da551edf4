package terminology

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists terminology tables in a sqlite database so they survive
// between runs. The pipeline itself never touches the store; it consumes
// read-only Table snapshots loaded from it per document run.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) a terminology database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open terminology database: %w", err)
	}

	query := `CREATE TABLE IF NOT EXISTS terms (
		language TEXT NOT NULL,
		source   TEXT NOT NULL,
		target   TEXT NOT NULL,
		PRIMARY KEY (language, source)
	)`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create terms table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or updates one term.
func (s *Store) Put(languageName, source, target string) error {
	if source == "" {
		return fmt.Errorf("source term must not be empty")
	}
	_, err := s.db.Exec(
		`INSERT INTO terms (language, source, target) VALUES (?, ?, ?)
		 ON CONFLICT (language, source) DO UPDATE SET target = excluded.target`,
		languageName, source, target)
	if err != nil {
		return fmt.Errorf("failed to store term: %w", err)
	}
	return nil
}

// Delete removes one term.
func (s *Store) Delete(languageName, source string) error {
	_, err := s.db.Exec(`DELETE FROM terms WHERE language = ? AND source = ?`,
		languageName, source)
	if err != nil {
		return fmt.Errorf("failed to delete term: %w", err)
	}
	return nil
}

// Table returns a read-only snapshot of one language's terms.
func (s *Store) Table(languageName string) (Table, error) {
	rows, err := s.db.Query(`SELECT source, target FROM terms WHERE language = ?`,
		languageName)
	if err != nil {
		return nil, fmt.Errorf("failed to query terms: %w", err)
	}
	defer rows.Close()

	table := Table{}
	for rows.Next() {
		var source, target string
		if err := rows.Scan(&source, &target); err != nil {
			return nil, fmt.Errorf("failed to scan term row: %w", err)
		}
		table[source] = target
	}
	return table, rows.Err()
}

// Load returns a snapshot of the whole library.
func (s *Store) Load() (Library, error) {
	rows, err := s.db.Query(`SELECT language, source, target FROM terms`)
	if err != nil {
		return nil, fmt.Errorf("failed to query terms: %w", err)
	}
	defer rows.Close()

	lib := Library{}
	for rows.Next() {
		var languageName, source, target string
		if err := rows.Scan(&languageName, &source, &target); err != nil {
			return nil, fmt.Errorf("failed to scan term row: %w", err)
		}
		if lib[languageName] == nil {
			lib[languageName] = Table{}
		}
		lib[languageName][source] = target
	}
	return lib, rows.Err()
}

// ImportLibrary merges a library into the store and returns the number of
// terms written.
func (s *Store) ImportLibrary(lib Library) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}

	count := 0
	for languageName, table := range lib {
		for source, target := range table {
			if source == "" {
				continue
			}
			_, err := tx.Exec(
				`INSERT INTO terms (language, source, target) VALUES (?, ?, ?)
				 ON CONFLICT (language, source) DO UPDATE SET target = excluded.target`,
				languageName, source, target)
			if err != nil {
				tx.Rollback()
				return 0, fmt.Errorf("failed to import term %q: %w", source, err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return count, nil
}
