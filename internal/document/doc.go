// Package document drives the translation pipeline over plain-text
// files. A file is split into paragraph units; each unit goes through
// the skip gate, terminology placeholder substitution, the backend
// orchestrator and placeholder restoration, strictly in document order.
package document
