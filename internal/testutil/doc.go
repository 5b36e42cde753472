// Package testutil holds helpers shared by migen's tests: schema builders,
// SQL and error-code assertions, file fixtures and throwaway databases.
//
// SQLite databases are in-memory and always available. PostgreSQL tests
// need a server and run with the integration tag:
//
//	POSTGRES_URL=postgres://... go test -tags=integration ./...
package testutil
