package iservices

//
// Nested undo sessions over the ledger state.
//
type IUndoSession interface {
	// start a new transaction session
	BeginTransaction()

	// end current transaction session, commit or discard changes
	// a committed session nested in another can still be discarded by its parent
	EndTransaction(commit bool) error

	// number of open sessions
	TransactionHeight() uint
}
