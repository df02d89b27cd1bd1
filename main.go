// =============================================================================
// Sales Sync - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Sales Sync CLI application. It hands
// control to the Cobra command tree in the cmd package.
//
// USAGE:
//   salesync ingest --distributor ALL   - Ingest every distributor extract
//   salesync report                     - Build reports and submit the ledger
//   salesync outlets unmapped           - List outlets awaiting reconciliation
//   salesync migrate                    - Apply database migrations
//   salesync version                    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Readers, normalizers, pipeline, store, report, ledger
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/salesync/cmd"
)

func main() {
	cmd.Execute()
}
