// Package provenance provides run provenance stamps and deterministic
// identity digests for ingested records.
package provenance

import (
	"crypto/md5" //nolint:gosec // content digest for identity, not security
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// DOBLayout is the date-of-birth layout used inside identity digests. It must
// never change: the digest input is part of patient identity across runs.
const DOBLayout = "2006-01-02"

// Batch identifies one pipeline run over one source file. Every bronze record
// carries its batch stamp.
type Batch struct {
	ID         string
	SourceFile string
	IngestedAt time.Time
}

// NewBatch creates a batch stamp for the given source file.
func NewBatch(sourceFile string) Batch {
	return Batch{
		ID:         uuid.NewString(),
		SourceFile: sourceFile,
		IngestedAt: time.Now().UTC(),
	}
}

// IdentityHash derives the stable patient identifier from the natural key.
// The digest input is "name_dob" with the date formatted as DOBLayout, or
// "name_" when the date of birth is unknown. Identical inputs always yield
// identical ids, so joins stay stable across runs without a lookup table.
func IdentityHash(name string, dob *time.Time) string {
	key := name + "_"
	if dob != nil {
		key += dob.Format(DOBLayout)
	}

	sum := md5.Sum([]byte(key)) //nolint:gosec

	return hex.EncodeToString(sum[:])
}
