package importing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultQuantity is used whenever a row's quantity is absent or invalid
const DefaultQuantity = 1

// CanonicalRow is one CSV record normalized into known fields. Every field is
// optional except Quantity, which always resolves to DefaultQuantity when the
// source value is absent, non-numeric or non-positive.
type CanonicalRow struct {
	CustomerName string
	Email        string
	Phone        string

	ProductTitle string
	SKU          string
	VariantID    int64 // 0 means absent

	Quantity int
	Price    decimal.Decimal
	HasPrice bool

	Status string

	PointOfSale  string
	Salesperson  string
	SerialNumber string
	Reference    string
	Color        string

	CreatedAt string // ISO date text, passed through as-is
}

// fieldAliases maps each canonical field to the column names it may appear
// under. The first matching non-empty column wins. Lookup is case-insensitive
// so exports with inconsistent header casing still resolve.
var fieldAliases = map[string][]string{
	"customer_name": {"CLIENTE", "customer", "customer_name", "name"},
	"email":         {"Correo Electrónico", "Correo Electronico", "email", "correo"},
	"phone":         {"Telefono", "Teléfono", "phone"},
	"product_title": {"product_title", "Producto", "product", "title"},
	"sku":           {"sku"},
	"variant_id":    {"variant_id"},
	"quantity":      {"Cantidad", "quantity", "qty"},
	"price":         {"Valor", "price", "unit_price"},
	"status":        {"Estado", "status", "financial_status"},
	"point_of_sale": {"Punto de venta", "point_of_sale", "pos"},
	"salesperson":   {"Vendedor", "salesperson", "seller"},
	"serial_number": {"NUM_SERIE", "serial_number", "serial"},
	"reference":     {"REFERENCIA", "reference", "ref"},
	"color":         {"COLOR", "color"},
	"created_at":    {"Fecha_ISO", "date_iso", "Fecha", "date", "created_at"},
}

// NormalizeRow turns a raw column-name → value mapping into a CanonicalRow.
// It never fails: absence or garbage degrades individual fields, never the row.
func NormalizeRow(data map[string]string) CanonicalRow {
	folded := make(map[string]string, len(data))
	for k, v := range data {
		folded[strings.ToLower(strings.TrimSpace(k))] = v
	}

	get := func(field string) (string, bool) {
		for _, alias := range fieldAliases[field] {
			if raw, ok := folded[strings.ToLower(alias)]; ok {
				if s, present := SafeString(raw); present {
					return s, true
				}
			}
		}
		return "", false
	}

	row := CanonicalRow{Quantity: DefaultQuantity}

	row.CustomerName, _ = get("customer_name")
	row.Email, _ = get("email")
	row.Phone, _ = get("phone")
	row.ProductTitle, _ = get("product_title")
	row.SKU, _ = get("sku")
	row.Status, _ = get("status")
	row.PointOfSale, _ = get("point_of_sale")
	row.Salesperson, _ = get("salesperson")
	row.SerialNumber, _ = get("serial_number")
	row.Reference, _ = get("reference")
	row.Color, _ = get("color")
	row.CreatedAt, _ = get("created_at")

	if raw, ok := get("variant_id"); ok {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			row.VariantID = id
		}
	}

	if raw, ok := get("quantity"); ok {
		row.Quantity = ParseQuantity(raw, DefaultQuantity)
	}

	if raw, ok := get("price"); ok {
		row.Price, row.HasPrice = ParsePrice(raw)
	}

	return row
}

// SafeString trims the value and reports whether it carries data. Empty
// strings and the literal "nan" (any casing, a common artifact of spreadsheet
// exports) are treated as absent.
func SafeString(v string) (string, bool) {
	s := strings.TrimSpace(v)
	if s == "" || strings.EqualFold(s, "nan") {
		return "", false
	}
	return s, true
}

// ParsePrice parses a localized COP amount where '.' is the thousands
// separator and ',' is the decimal separator ("1.234,56" → 1234.56).
// Returns false when the value does not resolve to a number.
func ParsePrice(v string) (decimal.Decimal, bool) {
	s, ok := SafeString(v)
	if !ok {
		return decimal.Decimal{}, false
	}
	normalized := strings.ReplaceAll(s, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseQuantity parses a positive truncated integer quantity. Non-positive,
// empty or non-numeric input yields the provided default, as do NaN, Inf and
// values too large for a line item (the float to int conversion is undefined
// outside int range).
func ParseQuantity(v string, def int) int {
	s := strings.TrimSpace(v)
	if s == "" {
		return def
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || n <= 0 || n > math.MaxInt32 {
		return def
	}
	return int(n)
}
