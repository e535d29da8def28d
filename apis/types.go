package apis

import "github.com/ordshop/trainer-minter/wallet"

type LogMintRequest struct {
	MinterAddress string `json:"minterAddress"`
	TrainerName   string `json:"trainerName"`
	InscriptionID string `json:"inscriptionId"`
	Txid          string `json:"txid"`
	Price         int64  `json:"price"`
	Timestamp     string `json:"timestamp"`
}

type LogMintResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type ListMintsResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Mints   []interface{} `json:"mints"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ConnectRequest struct {
	WalletType wallet.WalletType `json:"walletType"`
}

type AccountsChangedRequest struct {
	WalletType wallet.WalletType      `json:"walletType"`
	Accounts   []wallet.WalletAccount `json:"accounts"`
}

type FeesResponse struct {
	Rates       interface{} `json:"rates"`
	Recommended int         `json:"recommended"`
}

type StartMintRequest struct {
	TrainerID string `json:"trainerId"`
	FeeRate   int    `json:"feeRate"`
}

type StartMintResponse struct {
	Success   bool   `json:"success"`
	AttemptID string `json:"attemptId"`
}

type ExportResponse struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
}
