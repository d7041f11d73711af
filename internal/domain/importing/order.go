package importing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Defaults applied when a row carries no usable data for a field
const (
	DefaultProductTitle = "Producto sin título"
	DefaultFirstName    = "sin"
	DefaultLastName     = "nombre"
	ImportTag           = "imported-csv"
)

// Financial statuses understood by the remote platform
const (
	FinancialStatusPaid    = "paid"
	FinancialStatusPending = "pending"
)

// paidVocabulary is the fixed set of status texts that classify a row as paid
var paidVocabulary = map[string]struct{}{
	"pagado":  {},
	"paid":    {},
	"cerrada": {},
	"cerrado": {},
}

// emailPattern is a structural check only: local@domain.tld. The remote
// platform rejects orders whose email is not syntactically valid, so anything
// failing this check is replaced with the sentinel address instead.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LineItem is the single product entry attached to a generated order.
// VariantID and SKU are mutually exclusive; VariantID wins when both resolve.
type LineItem struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price,omitempty"`
	VariantID int64  `json:"variant_id,omitempty"`
	SKU       string `json:"sku,omitempty"`
}

// Transaction is a synthetic settlement attached to orders marked paid
type Transaction struct {
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Amount string `json:"amount"`
}

// Customer carries either a resolved platform customer id or the raw
// identity fields for the platform to match on.
type Customer struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Order is the remote platform's order-creation shape
type Order struct {
	Email           string        `json:"email"`
	Phone           string        `json:"phone,omitempty"`
	CreatedAt       string        `json:"created_at,omitempty"`
	FinancialStatus string        `json:"financial_status"`
	Currency        string        `json:"currency"`
	Tags            string        `json:"tags"`
	Note            string        `json:"note,omitempty"`
	Customer        *Customer     `json:"customer,omitempty"`
	LineItems       []LineItem    `json:"line_items"`
	Transactions    []Transaction `json:"transactions,omitempty"`
}

// OrderPayload wraps the order for the platform's request envelope. The
// settlement basis keeps the parsed price at full precision so the synthetic
// transaction amount is not skewed by the two-decimal line item rendering.
type OrderPayload struct {
	Order Order `json:"order"`

	settlement decimal.Decimal
}

// MapperConfig holds the per-run constants of the mapping
type MapperConfig struct {
	Currency      string
	SentinelEmail string
}

// FinancialStatus classifies a row's free-text status against the known paid
// vocabulary, case-insensitively. Everything unknown is pending.
func FinancialStatus(status string) string {
	if _, ok := paidVocabulary[strings.ToLower(strings.TrimSpace(status))]; ok {
		return FinancialStatusPaid
	}
	return FinancialStatusPending
}

// IsValidEmail reports whether the address passes the structural check
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// SplitName splits a free-text customer name into first/last parts,
// substituting defaults so the platform always receives both.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return DefaultFirstName, DefaultLastName
	}
	first = parts[0]
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	} else {
		last = DefaultLastName
	}
	return first, last
}

// MapRowToOrder projects a canonical row into an order-creation payload with
// exactly one line item. The payload is constructed once per row and submitted
// as-is on every retry attempt.
func MapRowToOrder(row CanonicalRow, cfg MapperConfig) *OrderPayload {
	item := LineItem{
		Title:    row.ProductTitle,
		Quantity: row.Quantity,
	}
	if item.Title == "" {
		item.Title = DefaultProductTitle
	}
	if row.VariantID > 0 {
		item.VariantID = row.VariantID
	} else if row.SKU != "" {
		item.SKU = row.SKU
	}
	if row.HasPrice {
		item.Price = row.Price.StringFixed(2)
	}

	email := cfg.SentinelEmail
	if IsValidEmail(row.Email) {
		email = strings.TrimSpace(row.Email)
	}

	order := Order{
		Email:           email,
		Phone:           row.Phone,
		CreatedAt:       row.CreatedAt,
		FinancialStatus: FinancialStatus(row.Status),
		Currency:        cfg.Currency,
		Tags:            ImportTag,
		LineItems:       []LineItem{item},
	}

	var noteParts []string
	if row.PointOfSale != "" {
		noteParts = append(noteParts, "Punto de venta: "+row.PointOfSale)
	}
	if row.Salesperson != "" {
		noteParts = append(noteParts, "Vendedor: "+row.Salesperson)
	}
	if row.SerialNumber != "" {
		noteParts = append(noteParts, "NUM_SERIE: "+row.SerialNumber)
	}
	if row.Reference != "" {
		noteParts = append(noteParts, "Referencia: "+row.Reference)
	}
	if row.Color != "" {
		noteParts = append(noteParts, "Color: "+row.Color)
	}
	if len(noteParts) > 0 {
		order.Note = strings.Join(noteParts, " | ")
	}

	if row.CustomerName != "" || row.Email != "" || row.Phone != "" {
		customer := &Customer{Phone: row.Phone}
		if row.CustomerName != "" {
			customer.FirstName, customer.LastName = SplitName(row.CustomerName)
		}
		if IsValidEmail(row.Email) {
			customer.Email = strings.TrimSpace(row.Email)
		}
		order.Customer = customer
	}

	payload := &OrderPayload{Order: order}
	if row.HasPrice {
		payload.settlement = row.Price.Mul(decimal.NewFromInt(int64(row.Quantity)))
	}
	return payload
}

// IsPaid reports whether the payload's financial status is paid
func (p *OrderPayload) IsPaid() bool {
	return p.Order.FinancialStatus == FinancialStatusPaid
}

// MarkPaid forces the financial status to paid (operator override)
func (p *OrderPayload) MarkPaid() {
	p.Order.FinancialStatus = FinancialStatusPaid
}

// SetCustomerID replaces the customer block with a resolved platform id
func (p *OrderPayload) SetCustomerID(id int64) {
	p.Order.Customer = &Customer{ID: id}
}

// SettlementAmount is the parsed price times quantity rounded to 2 decimals,
// or zero when the row carried no usable price.
func (p *OrderPayload) SettlementAmount() decimal.Decimal {
	return p.settlement.Round(2)
}

// AttachPaidTransaction attaches one synthetic manual sale transaction for the
// settlement amount. A zero-amount transaction is attached when no price is
// computable, keeping the payload shape consistent.
func (p *OrderPayload) AttachPaidTransaction() {
	p.Order.Transactions = append(p.Order.Transactions, Transaction{
		Kind:   "sale",
		Status: "success",
		Amount: p.SettlementAmount().StringFixed(2),
	})
}
