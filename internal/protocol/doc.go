// Package protocol defines the blockade service wire model.
//
// Ownership boundary:
// - enum token sets and their tolerant decode rules
//
// - config/state document shapes, including null and absent field handling
//
// - request payload shapes for every mutating endpoint
//
// The package performs no I/O. Callers hand it raw JSON bodies; transport
// and endpoint routing live in internal/client.
package protocol
