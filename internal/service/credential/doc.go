// Package credential persists a named network credential in the Windows
// credential manager so later unattended access to the profile share
// authenticates without an interactive prompt.
//
// The secret value is handed straight to the OS facility and is never
// logged at any verbosity.
package credential
