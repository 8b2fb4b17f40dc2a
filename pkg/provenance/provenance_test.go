package provenance

import (
	"testing"
	"time"
)

func TestIdentityHash_Deterministic(t *testing.T) {
	dob := time.Date(1980, 3, 15, 0, 0, 0, 0, time.UTC)

	first := IdentityHash("Jane Doe", &dob)
	second := IdentityHash("Jane Doe", &dob)

	if first != second {
		t.Errorf("identical inputs yield different ids: %s vs %s", first, second)
	}

	if len(first) != 32 {
		t.Errorf("id length = %d, want 32 hex chars", len(first))
	}
}

func TestIdentityHash_DistinctInputs(t *testing.T) {
	dob1 := time.Date(1980, 3, 15, 0, 0, 0, 0, time.UTC)
	dob2 := time.Date(1980, 3, 16, 0, 0, 0, 0, time.UTC)

	if IdentityHash("Jane Doe", &dob1) == IdentityHash("Jane Doe", &dob2) {
		t.Error("different dates of birth yield the same id")
	}

	if IdentityHash("Jane Doe", &dob1) == IdentityHash("John Doe", &dob1) {
		t.Error("different names yield the same id")
	}
}

func TestIdentityHash_NilDOB(t *testing.T) {
	dob := time.Date(1980, 3, 15, 0, 0, 0, 0, time.UTC)

	if IdentityHash("Jane Doe", nil) == IdentityHash("Jane Doe", &dob) {
		t.Error("nil and known date of birth yield the same id")
	}

	if IdentityHash("Jane Doe", nil) != IdentityHash("Jane Doe", nil) {
		t.Error("nil date of birth is not deterministic")
	}
}

func TestNewBatch(t *testing.T) {
	batch := NewBatch("export.csv")

	if batch.ID == "" {
		t.Error("batch id is empty")
	}

	if batch.SourceFile != "export.csv" {
		t.Errorf("SourceFile = %s, want export.csv", batch.SourceFile)
	}

	if batch.IngestedAt.IsZero() {
		t.Error("IngestedAt is zero")
	}

	if NewBatch("export.csv").ID == batch.ID {
		t.Error("two batches share an id")
	}
}
