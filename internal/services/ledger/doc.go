// Package ledger implements the balance mutation engine. Every change to an
// account balance in the system funnels through Apply or ApplyIn: the engine
// locks the account row, validates the direction and the amount, rejects
// overdrafts, updates the cumulative counters and writes the audit movement,
// all inside one database transaction. No other code writes balances.
package ledger
