// Package config loads, normalizes, and validates labdesk configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks for the hosted backend
// credentials (LABDESK_REST_URL, LABDESK_REST_API_KEY). Always obtain
// settings through this package so downstream code receives sanitized paths
// and clear validation errors.
package config
