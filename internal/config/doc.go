// Package config defines the agent's policy settings and provides helpers
// to load, normalize, validate and save them in YAML format.
//
// Every default that drifted between observed rollouts (share size,
// credential user format, accepted installer exit codes) lives here as an
// explicit field with one documented default.
package config
