package shopify

import "errors"

// DefaultAPIVersion is the Admin API version pinned for all requests
const DefaultAPIVersion = "2024-10"

// Errors for Shopify configuration
var (
	ErrConfigMissingShopDomain  = errors.New("shopify: shop domain is required")
	ErrConfigMissingAccessToken = errors.New("shopify: access token is required")
)

// Config holds credentials and tuning for the Shopify Admin API
type Config struct {
	// ShopDomain is the myshopify domain, e.g. "demo.myshopify.com"
	ShopDomain string
	// AccessToken is the Admin API access token for the shop
	AccessToken string
	// APIVersion selects the Admin API version path segment
	APIVersion string
	// APIBaseURL overrides the https://{shop-domain} base, used in tests
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// NewConfig creates a Shopify configuration with defaults
func NewConfig(shopDomain, accessToken string) *Config {
	return &Config{
		ShopDomain:     shopDomain,
		AccessToken:    accessToken,
		APIVersion:     DefaultAPIVersion,
		TimeoutSeconds: 30,
	}
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.ShopDomain == "" {
		return ErrConfigMissingShopDomain
	}
	if c.AccessToken == "" {
		return ErrConfigMissingAccessToken
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

func (c *Config) baseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return "https://" + c.ShopDomain
}

// restURL builds an Admin REST endpoint URL for a resource path like
// "orders.json" or "customers.json".
func (c *Config) restURL(resource string) string {
	return c.baseURL() + "/admin/api/" + c.APIVersion + "/" + resource
}

// graphqlURL builds the Admin GraphQL endpoint URL
func (c *Config) graphqlURL() string {
	return c.baseURL() + "/admin/api/" + c.APIVersion + "/graphql.json"
}
