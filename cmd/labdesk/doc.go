// Package main hosts the labdesk CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, opens the configured
// store backend and hands a catalog to each subcommand. Record rules live in
// the internal packages; commands here only parse flags and render output.
package main
