// Package database provides the SQLite persistence layer for FleetRMS.
//
// It wraps database/sql with connection configuration appropriate for
// SQLite (WAL journaling, busy timeout, single writer) and an embedded
// migration runner. Domain repositories in internal/device, internal/command,
// internal/settings and internal/capture build on the *DB handle exposed here.
//
// The connection pool is limited to a single open connection. SQLite
// serialises writers regardless, and a single connection avoids
// SQLITE_BUSY churn between the check-in path and command dispatch.
package database
