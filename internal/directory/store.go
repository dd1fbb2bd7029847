package directory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/reachly/reachly/internal/campaign"
)

// Store holds the contact directory in SQLite. Directory order is insertion
// order; the engine relies on it being stable between runs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the directory database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(migrationContacts); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

const migrationContacts = `
CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    company TEXT NOT NULL DEFAULT '',
    job_title TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT '',
    draft_subject TEXT NOT NULL DEFAULT '',
    draft_body TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_email
    ON contacts(lower(email)) WHERE email != '';
`

// Add inserts a contact. Contacts whose email already exists (matched
// case-insensitively) are updated in place instead, keeping their directory
// position.
func (s *Store) Add(c *campaign.Contact) error {
	if c.Email != "" {
		existing, err := s.GetByEmail(c.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			c.ID = existing.ID
			return s.update(c)
		}
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := s.db.Exec(`
		INSERT INTO contacts (id, first_name, last_name, email, company, job_title, city, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Company, c.JobTitle, c.City, c.State, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to add contact: %w", err)
	}
	return nil
}

func (s *Store) update(c *campaign.Contact) error {
	_, err := s.db.Exec(`
		UPDATE contacts SET first_name = ?, last_name = ?, email = ?, company = ?, job_title = ?, city = ?, state = ?
		WHERE id = ?`,
		c.FirstName, c.LastName, c.Email, c.Company, c.JobTitle, c.City, c.State, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return nil
}

// GetByEmail returns the contact with the given address, matched
// case-insensitively, or nil when absent.
func (s *Store) GetByEmail(email string) (*campaign.Contact, error) {
	c := &campaign.Contact{}
	err := s.db.QueryRow(`
		SELECT id, first_name, last_name, email, company, job_title, city, state, draft_subject, draft_body
		FROM contacts WHERE lower(email) = ? AND email != ''`,
		campaign.NormalizeEmail(email),
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Company, &c.JobTitle, &c.City, &c.State, &c.DraftSubject, &c.DraftBody)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListContacts returns every contact in directory order.
func (s *Store) ListContacts() ([]campaign.Contact, error) {
	rows, err := s.db.Query(`
		SELECT id, first_name, last_name, email, company, job_title, city, state, draft_subject, draft_body
		FROM contacts ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []campaign.Contact{}
	for rows.Next() {
		var c campaign.Contact
		err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Company, &c.JobTitle, &c.City, &c.State, &c.DraftSubject, &c.DraftBody)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// Count returns the number of contacts.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM contacts").Scan(&n)
	return n, err
}

// SaveDraft stores a generated draft artifact on the contact row.
func (s *Store) SaveDraft(contactID string, d *campaign.Draft) error {
	res, err := s.db.Exec(`
		UPDATE contacts SET draft_subject = ?, draft_body = ? WHERE id = ?`,
		d.Subject, d.Body, contactID,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to save draft: contact %s not found", contactID)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
