// Package reset implements the registration reset workflow.
//
// States: active, soft_reset, restored and hard_cleared. A soft reset is
// recoverable through Restore as long as the durable key-value copy is intact.
// A hard reset is irreversible and only reachable from the CLI.
package reset
