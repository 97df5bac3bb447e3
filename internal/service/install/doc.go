// Package install runs the extracted installer non-interactively and
// restarts the product's background service.
//
// Exit-code interpretation is driven by an allow-list because installer
// semantics are not uniform (3010 commonly means "success, reboot
// required"). The default accepts only 0.
package install
