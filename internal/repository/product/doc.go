// Package product reads the locally installed version of a product from
// the installed-programs registry.
//
// The enumeration mechanism is deliberately hidden behind the probe: a
// missing product is an answer (the zero version), never an error.
package product
