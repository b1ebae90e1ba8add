// Package cli wires together the Cobra command tree for the guardian binary.
//
// It defines the root command and its subcommands (serve, scan, fix,
// version), reads configuration, builds the review orchestrator and maps
// outcomes onto deterministic exit codes so the tool can gate CI jobs.
package cli
