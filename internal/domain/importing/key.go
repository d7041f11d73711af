package importing

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// DeriveIdempotencyKey produces a stable fingerprint for a row so that
// repeated submission of the same logical row never double-creates an order.
//
// Key source precedence: explicit serial number, then explicit external
// reference, then a composite of customer name, ISO date and amount. Rows
// carrying none of those fall back to the current epoch millis; such rows are
// informationless and cannot be deduplicated anyway.
//
// The base always runs through SHA-256 so the key has a fixed size and leaks
// nothing about the raw row content.
func DeriveIdempotencyKey(row CanonicalRow) string {
	base := keyBase(row)
	if base == "" {
		base = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}

func keyBase(row CanonicalRow) string {
	if row.SerialNumber != "" {
		return row.SerialNumber
	}
	if row.Reference != "" {
		return row.Reference
	}
	if row.CustomerName == "" && row.CreatedAt == "" && !row.HasPrice {
		return ""
	}
	price := ""
	if row.HasPrice {
		price = row.Price.String()
	}
	return row.CustomerName + "-" + row.CreatedAt + "-" + price
}
