// Package agent sequences the deployment pipeline: probe the installed
// version, resolve the latest release, conditionally fetch and silently
// install it, then persist the share credential, apply the profile
// configuration and restart the product service.
//
// The pipeline is a strictly sequential state machine. The orchestrator
// owns the fatal/non-fatal decision table: resolution and install
// failures abort the run, configuration failures are recorded and the
// run finishes in the best achievable state.
package agent
