package minting

type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// MintingStatus is the observable state of one mint attempt. Transitions are
// driven purely by sequential step completion; "completed" means the wallet
// call returned a transaction id, not that the transaction is mined. An
// attempt that was never started, or was reset, reads as idle.
type MintingStatus struct {
	Status        Status `json:"status"`
	Progress      int    `json:"progress"`
	InscriptionID string `json:"inscriptionId,omitempty"`
	Txid          string `json:"txid,omitempty"`
	PaymentTxid   string `json:"paymentTxid,omitempty"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
}

const (
	progressPreparing = 10
	progressInscribe  = 30
	progressPaid      = 80
	progressDone      = 100
)
