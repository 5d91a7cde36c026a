// ABOUTME: Phone directory store operations for the dev platform server.
// ABOUTME: Handles inserts and token-paginated listing of account numbers.

package store

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

type PhoneNumber struct {
	ID       string
	Number   string
	Label    string
	Verified bool
}

// CreatePhoneNumber inserts a directory number, assigning an id when none
// is given.
func (s *Store) CreatePhoneNumber(n *PhoneNumber) error {
	if n.ID == "" {
		n.ID = "num_" + uuid.NewString()[:8]
	}
	_, err := s.db.Exec("INSERT INTO phone_numbers (id, number, label, verified) VALUES (?, ?, ?, ?)",
		n.ID, n.Number, n.Label, n.Verified)
	return err
}

// GetPhoneNumber fetches one directory number by id
func (s *Store) GetPhoneNumber(id string) (*PhoneNumber, error) {
	n := &PhoneNumber{}
	err := s.db.QueryRow("SELECT id, number, label, verified FROM phone_numbers WHERE id = ?", id).
		Scan(&n.ID, &n.Number, &n.Label, &n.Verified)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("number not found")
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListPhoneNumbers returns one page of directory numbers plus a token for
// the next page (empty on the last page).
func (s *Store) ListPhoneNumbers(verifiedOnly bool, pageSize int, pageToken string) ([]PhoneNumber, string, error) {
	offset := 0
	if pageToken != "" {
		decoded, err := base64.StdEncoding.DecodeString(pageToken)
		if err == nil {
			offset, _ = strconv.Atoi(string(decoded))
		}
	}

	query := "SELECT id, number, label, verified FROM phone_numbers"
	args := []any{}
	if verifiedOnly {
		query += " WHERE verified = 1"
	}
	query += " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, pageSize+1, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var numbers []PhoneNumber
	for rows.Next() {
		var n PhoneNumber
		if err := rows.Scan(&n.ID, &n.Number, &n.Label, &n.Verified); err != nil {
			return nil, "", err
		}
		numbers = append(numbers, n)
	}

	var nextToken string
	if len(numbers) > pageSize {
		numbers = numbers[:pageSize]
		nextToken = base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset + pageSize)))
	}

	return numbers, nextToken, nil
}
