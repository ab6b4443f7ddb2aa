// Package models contains the GORM persistence models of the print shop
// tables. Domain types stay free of ORM tags; each model converts itself with
// ToDomain and FromDomain.
//
//   - base.go: shared columns (id, timestamps, version, tenant, creator)
//   - catalog.go: products and their bill of materials components
//   - partner.go: customers with the flattened postal address
//   - quote.go: quotes, quote items and the quote status catalog
//   - production.go: production orders, the production status catalog and the per-tenant order sequence
//   - inventory.go: the stock movement ledger
//   - finance.go: receivables with installments, payables and payment terms
package models
