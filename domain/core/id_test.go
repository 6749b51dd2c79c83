package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Errorf("Expected distinct run IDs, got %s twice", a)
	}
	if len(a.String()) != 36 {
		t.Errorf("Expected a 36 character UUID, got %q", a)
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.csv")
	data := []byte("Puntaje_Pretest,Puntaje_Postest\n1,2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	h, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if h != NewHash(data) {
		t.Errorf("HashFile and NewHash disagree: %s vs %s", h, NewHash(data))
	}
	if len(h.Short()) != 12 {
		t.Errorf("Short() should be 12 chars, got %q", h.Short())
	}

	if _, err := HashFile(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestErrorHelpers(t *testing.T) {
	err := NewInsufficientDataError(4, 5)
	if !IsInsufficientData(err) {
		t.Error("expected insufficient data error")
	}
	if err.Error() != "insufficient data for analysis: 4 valid pairs, need at least 5" {
		t.Errorf("unexpected message %q", err.Error())
	}

	if !IsNotFoundError(NewSheetNotFoundError("NLA")) {
		t.Error("sheet error should be a not-found error")
	}
	colErr := NewColumnNotFoundError("NLA", "Puntaje_Pretest")
	if !errors.Is(colErr, ErrColumnNotFound) {
		t.Error("column error should wrap ErrColumnNotFound")
	}
}
