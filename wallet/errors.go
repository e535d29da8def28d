package wallet

import "errors"

// Provider failures are mapped onto this taxonomy so that nothing outside
// the adapter ever branches on provider identity. The messages are shown to
// the user as-is and carry the remediation, not the raw provider error.
var (
	ErrProviderNotInstalled = errors.New("wallet is not installed, please install the browser extension")
	ErrNoAccounts           = errors.New("no accounts returned, please unlock your wallet and try again")
	ErrWrongNetwork         = errors.New("please switch to Bitcoin Mainnet in your wallet")
	ErrUserRejected         = errors.New("request rejected, please approve it in your wallet")
	ErrPaymentRejected      = errors.New("payment was cancelled, please approve the transaction")
	ErrNoAddresses          = errors.New("no addresses returned from the wallet")
	ErrNoValidAddresses     = errors.New("no valid addresses found")
	ErrNoRecipients         = errors.New("no recipients provided")
	ErrNotConnected         = errors.New("no wallet connected")
	ErrConnectInFlight      = errors.New("another connect request is already pending")
	ErrUnknownWalletType    = errors.New("invalid wallet type")
)
