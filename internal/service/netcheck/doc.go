// Package netcheck provides a TCP reachability probe with a bounded
// timeout. It is used as a pre-flight gate before trusting the profile
// share: SMB egress is commonly blocked, and the probe turns that into a
// user-actionable diagnostic instead of a late failure.
package netcheck
