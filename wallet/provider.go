package wallet

import "context"

// Provider is the single capability surface over the two wallet bridges.
// The two implementations are structurally incompatible on the wire
// (request shapes, address-purpose semantics, error taxonomies); everything
// above this interface is provider-agnostic.
type Provider interface {
	Type() WalletType

	// Installed probes the bridge lazily at call time. Bridges come up
	// after the daemon does, so the result must not be cached.
	Installed() bool

	// Connect prompts the wallet for accounts. All accounts of a
	// successful connect arrive together.
	Connect(ctx context.Context) ([]WalletAccount, error)

	// Accounts returns already-authorized accounts without prompting.
	// It never fails the caller; an unreachable bridge yields no accounts.
	Accounts(ctx context.Context) []WalletAccount

	// SendPayments pays every recipient and returns a transaction id.
	// Atomicity is provider-specific: the Xverse path batches all
	// recipients into one signed transaction, the Unisat path signs one
	// transaction per recipient sequentially and returns only the last
	// txid. A mid-sequence failure on the Unisat path leaves the earlier
	// transfers broadcast and irreversible.
	SendPayments(ctx context.Context, recipients []satRecipient) (string, error)
}
