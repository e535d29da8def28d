package wallet

import "github.com/shopspring/decimal"

type WalletType string

const (
	TypeUnisat WalletType = "unisat"
	TypeXverse WalletType = "xverse"
)

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

type Purpose string

const (
	PurposeOrdinals Purpose = "ordinals"
	PurposePayment  Purpose = "payment"
)

// WalletAccount is re-derived on every connect and never persisted.
type WalletAccount struct {
	Address   string  `json:"address"`
	PublicKey string  `json:"publicKey,omitempty"`
	Purpose   Purpose `json:"purpose,omitempty"`
}

// WalletState is the single process-wide connection state. Connected is true
// iff at least one account is present, and WalletType is set iff Connected.
type WalletState struct {
	WalletType WalletType      `json:"walletType,omitempty"`
	Accounts   []WalletAccount `json:"accounts"`
	Connected  bool            `json:"connected"`
	Network    Network         `json:"network"`
}

// Recipient is one leg of a payment. Amounts below 1 are interpreted as BTC,
// amounts of 1 and above as satoshis; see NormalizeToSats.
type Recipient struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

type satRecipient struct {
	Address string
	Sats    int64
}
