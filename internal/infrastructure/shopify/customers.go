package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// CreatedCustomerTag marks customers created as a side effect of an import run
const CreatedCustomerTag = "csv-import"

const customerByEmailQuery = `
query customerByEmail($query: String!) {
  customers(first: 1, query: $query) {
    edges {
      node {
        legacyResourceId
        email
      }
    }
  }
}`

// customersQueryData is the GraphQL customer search response shape
type customersQueryData struct {
	Customers struct {
		Edges []struct {
			Node struct {
				LegacyResourceID string `json:"legacyResourceId"`
				Email            string `json:"email"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"customers"`
}

// FindCustomerByEmail searches the shop for a customer with the exact email.
// Returns found=false when no customer matches.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (int64, bool, error) {
	var data customersQueryData
	variables := map[string]any{"query": "email:" + email}
	if err := c.doGraphQL(ctx, customerByEmailQuery, variables, &data); err != nil {
		return 0, false, err
	}
	if len(data.Customers.Edges) == 0 {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(data.Customers.Edges[0].Node.LegacyResourceID, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: bad customer id %q", integration.ErrPlatformInvalidResponse, data.Customers.Edges[0].Node.LegacyResourceID)
	}
	return id, true, nil
}

// customerCreateRequest is the REST customer-creation request shape
type customerCreateRequest struct {
	Customer struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name,omitempty"`
		LastName  string `json:"last_name,omitempty"`
		Phone     string `json:"phone,omitempty"`
		Tags      string `json:"tags"`
	} `json:"customer"`
}

// customerCreateResponse is the REST customer-creation response shape
type customerCreateResponse struct {
	Customer struct {
		ID int64 `json:"id"`
	} `json:"customer"`
}

// CreateCustomer creates a customer record tagged as import-created and
// returns its numeric id.
func (c *Client) CreateCustomer(ctx context.Context, email, firstName, lastName, phone string) (int64, error) {
	var req customerCreateRequest
	req.Customer.Email = email
	req.Customer.FirstName = firstName
	req.Customer.LastName = lastName
	req.Customer.Phone = phone
	req.Customer.Tags = CreatedCustomerTag

	status, body, err := c.doREST(ctx, http.MethodPost, "customers.json", req, nil)
	if err != nil {
		return 0, err
	}
	if status < 200 || status >= 300 {
		return 0, fmt.Errorf("%w: HTTP %d: %s", integration.ErrCustomerNotCreated, status, string(body))
	}

	var resp customerCreateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if resp.Customer.ID == 0 {
		return 0, fmt.Errorf("%w: customer id missing from response", integration.ErrPlatformInvalidResponse)
	}
	return resp.Customer.ID, nil
}
