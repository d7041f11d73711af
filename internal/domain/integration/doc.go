// Package integration contains the boundary contracts to the remote commerce
// platform (Shopify Admin API).
//
// Key concepts:
//   - OrderAPI / CustomerAPI: ports consumed by the import pipeline
//   - OrderAdminAPI / ShopAPI: ports consumed by the operational tools and console
//   - PlatformError: a rejected remote call with its last observed status and body
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
