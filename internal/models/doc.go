// Package models provides functionality for listing the OpenAI models
// available to the configured API key, so users can pick a translation
// model without guessing.
package models
