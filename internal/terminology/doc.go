// Package terminology manages domain term tables and the placeholder
// protocol that protects terms during a backend translation call. Tables
// are loaded from JSON or a sqlite store and consumed as read-only
// snapshots; the per-unit placeholder mapping never outlives one text
// unit's round trip.
package terminology
