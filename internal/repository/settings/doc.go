// Package settings writes the product's configuration set into its
// configuration container (a registry key on Windows).
//
// Application is idempotent and best-effort per key: a failed key write
// is collected with the key name and the writer continues, so the
// orchestrator can surface the aggregate instead of a silent partial
// apply.
package settings
