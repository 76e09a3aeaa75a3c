// Package preflight runs the environment checks behind `labdesk doctor`:
// directory permissions and store reachability.
package preflight
