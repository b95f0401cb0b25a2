// Package core defines the central value types shared across LeapBridge:
// connection records, engine types, schema snapshots, query results, and
// the error kinds returned by the connection and discovery layers.
//
// Packages under pkg/ and internal/ depend on core; core depends on nothing
// but the standard library.
package core
