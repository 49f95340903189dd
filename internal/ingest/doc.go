// Package ingest reads price batch CSV files into the store, once per batch.
//
// Each row is (timestamp-millis, symbol, price). The pipeline tolerates
// malformed rows and duplicate points: they are counted and skipped, never
// aborting the batch. A batch is recorded in the store's ledger after its
// pass completes, so re-running the pipeline (or restarting the process) is
// idempotent. A batch that cannot be read at all is left out of the ledger
// and retried on the next run; other batches still proceed.
package ingest
