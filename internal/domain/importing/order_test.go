package importing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMapperConfig = MapperConfig{
	Currency:      "COP",
	SentinelEmail: "no@gmail.com",
}

func TestFinancialStatus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"pagado", FinancialStatusPaid},
		{"Pagado", FinancialStatusPaid},
		{"PAID", FinancialStatusPaid},
		{"cerrada", FinancialStatusPaid},
		{"cerrado", FinancialStatusPaid},
		{"pendiente", FinancialStatusPending},
		{"", FinancialStatusPending},
		{"abierta", FinancialStatusPending},
	}

	for _, tt := range tests {
		t.Run("status "+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FinancialStatus(tt.input))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ana@example.com"))
	assert.True(t, IsValidEmail("a.b+c@sub.domain.co"))
	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail("spaces in@mail.com"))
}

func TestSplitName(t *testing.T) {
	t.Run("first and rest", func(t *testing.T) {
		first, last := SplitName("Ana María López")
		assert.Equal(t, "Ana", first)
		assert.Equal(t, "María López", last)
	})

	t.Run("single word gets default last name", func(t *testing.T) {
		first, last := SplitName("Ana")
		assert.Equal(t, "Ana", first)
		assert.Equal(t, DefaultLastName, last)
	})

	t.Run("empty gets both defaults", func(t *testing.T) {
		first, last := SplitName("")
		assert.Equal(t, DefaultFirstName, first)
		assert.Equal(t, DefaultLastName, last)
	})
}

func TestMapRowToOrder(t *testing.T) {
	t.Run("variant id wins over sku", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{
			Quantity:  1,
			VariantID: 123,
			SKU:       "SKU-1",
		}, testMapperConfig)

		require.Len(t, payload.Order.LineItems, 1)
		item := payload.Order.LineItems[0]
		assert.Equal(t, int64(123), item.VariantID)
		assert.Empty(t, item.SKU, "variant id and sku are mutually exclusive")
	})

	t.Run("sku used when no variant id", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{Quantity: 1, SKU: "SKU-1"}, testMapperConfig)
		item := payload.Order.LineItems[0]
		assert.Zero(t, item.VariantID)
		assert.Equal(t, "SKU-1", item.SKU)
	})

	t.Run("price rendered as fixed two decimals", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{
			Quantity: 1,
			Price:    decimal.RequireFromString("45000.5"),
			HasPrice: true,
		}, testMapperConfig)
		assert.Equal(t, "45000.50", payload.Order.LineItems[0].Price)
	})

	t.Run("absent price omitted from line item", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{Quantity: 1}, testMapperConfig)
		assert.Empty(t, payload.Order.LineItems[0].Price)

		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), `"price"`)
	})

	t.Run("title defaults when absent", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{Quantity: 1}, testMapperConfig)
		assert.Equal(t, DefaultProductTitle, payload.Order.LineItems[0].Title)
	})

	t.Run("invalid email replaced by sentinel", func(t *testing.T) {
		for _, email := range []string{"", "nope", "missing@tld"} {
			payload := MapRowToOrder(CanonicalRow{Quantity: 1, Email: email}, testMapperConfig)
			assert.Equal(t, testMapperConfig.SentinelEmail, payload.Order.Email)
		}
	})

	t.Run("valid email kept", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{Quantity: 1, Email: "ana@example.com"}, testMapperConfig)
		assert.Equal(t, "ana@example.com", payload.Order.Email)
	})

	t.Run("note assembled from annotations", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{
			Quantity:     1,
			PointOfSale:  "Centro",
			Salesperson:  "Luis",
			SerialNumber: "SER-1",
			Reference:    "REF-9",
			Color:        "rojo",
		}, testMapperConfig)
		assert.Equal(t,
			"Punto de venta: Centro | Vendedor: Luis | NUM_SERIE: SER-1 | Referencia: REF-9 | Color: rojo",
			payload.Order.Note)
	})

	t.Run("no note when no annotations", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{Quantity: 1}, testMapperConfig)
		assert.Empty(t, payload.Order.Note)
	})

	t.Run("tags and currency fixed for the run", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{Quantity: 1}, testMapperConfig)
		assert.Equal(t, ImportTag, payload.Order.Tags)
		assert.Equal(t, "COP", payload.Order.Currency)
	})

	t.Run("customer block from name and contact", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{
			Quantity:     1,
			CustomerName: "Ana López",
			Email:        "ana@example.com",
			Phone:        "300123",
		}, testMapperConfig)
		require.NotNil(t, payload.Order.Customer)
		assert.Equal(t, "Ana", payload.Order.Customer.FirstName)
		assert.Equal(t, "López", payload.Order.Customer.LastName)
		assert.Equal(t, "ana@example.com", payload.Order.Customer.Email)
		assert.Equal(t, "300123", payload.Order.Customer.Phone)
	})

	t.Run("no customer block for anonymous row", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{Quantity: 1}, testMapperConfig)
		assert.Nil(t, payload.Order.Customer)
	})
}

func TestOrderPayloadTransactions(t *testing.T) {
	t.Run("settlement is price times quantity rounded", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{
			Quantity: 3,
			Price:    decimal.RequireFromString("19.995"),
			HasPrice: true,
		}, testMapperConfig)

		payload.AttachPaidTransaction()
		require.Len(t, payload.Order.Transactions, 1)
		tx := payload.Order.Transactions[0]
		assert.Equal(t, "sale", tx.Kind)
		assert.Equal(t, "success", tx.Status)
		assert.Equal(t, "59.99", tx.Amount) // 19.995 * 3 = 59.985 → 59.99
	})

	t.Run("zero amount when no price computable", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{Quantity: 2}, testMapperConfig)
		payload.AttachPaidTransaction()
		require.Len(t, payload.Order.Transactions, 1)
		assert.Equal(t, "0.00", payload.Order.Transactions[0].Amount)
	})

	t.Run("mark paid overrides pending", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{Quantity: 1, Status: "abierta"}, testMapperConfig)
		assert.False(t, payload.IsPaid())
		payload.MarkPaid()
		assert.True(t, payload.IsPaid())
	})

	t.Run("set customer id replaces identity block", func(t *testing.T) {
		payload := MapRowToOrder(CanonicalRow{Quantity: 1, CustomerName: "Ana"}, testMapperConfig)
		payload.SetCustomerID(987)
		require.NotNil(t, payload.Order.Customer)
		assert.Equal(t, int64(987), payload.Order.Customer.ID)
		assert.Empty(t, payload.Order.Customer.FirstName)
	})
}
