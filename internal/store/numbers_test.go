// ABOUTME: Tests for phone directory store operations.
// ABOUTME: Covers inserts, lookups, and verified-only token pagination.

package store

import (
	"fmt"
	"os"
	"testing"
)

func TestPhoneNumberCRUD(t *testing.T) {
	dbPath := "test_numbers_crud.db"
	defer os.Remove(dbPath)

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	n := &PhoneNumber{Number: "+16502530000", Label: "Office", Verified: true}
	if err := s.CreatePhoneNumber(n); err != nil {
		t.Fatalf("CreatePhoneNumber() error = %v", err)
	}
	if n.ID == "" {
		t.Fatal("CreatePhoneNumber() did not assign an id")
	}

	got, err := s.GetPhoneNumber(n.ID)
	if err != nil {
		t.Fatalf("GetPhoneNumber() error = %v", err)
	}
	if got.Number != "+16502530000" || got.Label != "Office" || !got.Verified {
		t.Errorf("GetPhoneNumber() = %+v", got)
	}

	if _, err := s.GetPhoneNumber("num_missing"); err == nil {
		t.Error("GetPhoneNumber() on missing id should fail")
	}
}

func TestListPhoneNumbers(t *testing.T) {
	dbPath := "test_numbers_list.db"
	defer os.Remove(dbPath)

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	for i := 0; i < 5; i++ {
		n := &PhoneNumber{
			Number:   fmt.Sprintf("+1650253000%d", i),
			Label:    fmt.Sprintf("Line %d", i),
			Verified: i%2 == 0,
		}
		if err := s.CreatePhoneNumber(n); err != nil {
			t.Fatalf("CreatePhoneNumber(%d) error = %v", i, err)
		}
	}

	seen := map[string]bool{}
	token := ""
	for {
		numbers, next, err := s.ListPhoneNumbers(false, 2, token)
		if err != nil {
			t.Fatalf("ListPhoneNumbers() error = %v", err)
		}
		for _, n := range numbers {
			if seen[n.ID] {
				t.Errorf("number %s returned twice", n.ID)
			}
			seen[n.ID] = true
		}
		if next == "" {
			break
		}
		token = next
	}
	if len(seen) != 5 {
		t.Errorf("distinct numbers = %d, want 5", len(seen))
	}

	verified, next, err := s.ListPhoneNumbers(true, 10, "")
	if err != nil {
		t.Fatalf("ListPhoneNumbers(verified) error = %v", err)
	}
	if next != "" {
		t.Errorf("unexpected next token %q", next)
	}
	if len(verified) != 3 {
		t.Errorf("verified numbers = %d, want 3", len(verified))
	}
	for _, n := range verified {
		if !n.Verified {
			t.Errorf("unverified number %s in verified listing", n.ID)
		}
	}
}
