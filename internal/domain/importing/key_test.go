package importing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveIdempotencyKey(t *testing.T) {
	t.Run("deterministic for identical rows", func(t *testing.T) {
		row := CanonicalRow{SerialNumber: "SER-42", CustomerName: "Ana"}
		assert.Equal(t, DeriveIdempotencyKey(row), DeriveIdempotencyKey(row))
	})

	t.Run("fixed length hex digest", func(t *testing.T) {
		key := DeriveIdempotencyKey(CanonicalRow{SerialNumber: "SER-42"})
		assert.Len(t, key, 64)
		assert.Regexp(t, "^[0-9a-f]+$", key)
	})

	t.Run("serial number takes precedence over reference", func(t *testing.T) {
		withBoth := DeriveIdempotencyKey(CanonicalRow{SerialNumber: "SER-1", Reference: "REF-1"})
		serialOnly := DeriveIdempotencyKey(CanonicalRow{SerialNumber: "SER-1"})
		assert.Equal(t, serialOnly, withBoth)
	})

	t.Run("rows differing only in serial number get different keys", func(t *testing.T) {
		a := CanonicalRow{SerialNumber: "SER-1", CustomerName: "Ana", CreatedAt: "2024-03-15"}
		b := CanonicalRow{SerialNumber: "SER-2", CustomerName: "Ana", CreatedAt: "2024-03-15"}
		assert.NotEqual(t, DeriveIdempotencyKey(a), DeriveIdempotencyKey(b))
	})

	t.Run("reference used when no serial", func(t *testing.T) {
		a := DeriveIdempotencyKey(CanonicalRow{Reference: "REF-1"})
		b := DeriveIdempotencyKey(CanonicalRow{Reference: "REF-2"})
		assert.NotEqual(t, a, b)
	})

	t.Run("composite of name date and amount", func(t *testing.T) {
		row := CanonicalRow{
			CustomerName: "Ana",
			CreatedAt:    "2024-03-15",
			Price:        decimal.RequireFromString("45000.5"),
			HasPrice:     true,
		}
		same := DeriveIdempotencyKey(row)
		assert.Equal(t, same, DeriveIdempotencyKey(row))

		other := row
		other.Price = decimal.RequireFromString("45000.6")
		assert.NotEqual(t, same, DeriveIdempotencyKey(other))
	})

	t.Run("informationless rows still produce a key", func(t *testing.T) {
		key := DeriveIdempotencyKey(CanonicalRow{Quantity: 1})
		assert.Len(t, key, 64)
	})
}
