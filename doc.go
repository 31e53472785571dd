// Package budget implements a local, single-writer ledger engine for
// personal budgeting. It is designed to be local-first and auditable: the
// whole entity graph lives in one JSON document on disk, every mutation is
// serialized behind a single writer and written through synchronously, and
// recurring money movements leave an immutable audit trail.
//
// The core functionalities include:
//   - Account Management: Accounts with nested pots (named sub-balances that
//     ring-fence funds for bills and goals), incomes, expenses and recurring
//     commitments.
//   - Transfer Schedules: Standing instructions that move fixed amounts
//     between account and pot endpoints, with optional credit card links.
//   - Scheduled Processing: A once-per-period processor that applies
//     monthly and yearly recurring transactions when due, gated behind pot
//     funding and guarded by an idempotency log.
//   - Monthly Reduction: A linear depletion model that walks each account's
//     balance from its month baseline toward zero at month end.
//   - Audit & Purge: Execution events and processing logs that can be
//     inspected, and purged by time window without disturbing balances.
//
// This package serves as the foundational logic for the `bap` command-line
// tool, ensuring that all operations go through a single source of truth.
package budget
