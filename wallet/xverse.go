package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ordshop/trainer-minter/internal/metrics"
)

// XverseProvider speaks the sats-connect style API: requests carry a method
// and params, responses carry an explicit success/error status with a
// structured error code. Unlike UniSat, the bridge separates ordinals and
// payment addresses by purpose and batches multi-recipient transfers into a
// single signed transaction.
type XverseProvider struct {
	url    string
	client *http.Client
}

func NewXverseProvider(url string) *XverseProvider {
	return &XverseProvider{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (x *XverseProvider) Type() WalletType { return TypeXverse }

func (x *XverseProvider) Installed() bool {
	if x.url == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.url, strings.NewReader("{}"))
	if err != nil {
		return false
	}
	resp, err := x.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

type xverseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type xverseResponse struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
	Error  *xverseError    `json:"error"`
}

func (x *XverseProvider) request(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	defer metrics.ObserveWalletCall("xverse."+method, time.Now())

	body, err := json.Marshal(map[string]interface{}{
		"method": method,
		"params": params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out xverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("unexpected response format: %v", err)
	}
	if out.Status != "success" {
		if out.Error != nil {
			// The structured code is authoritative when present; the
			// message match is the fallback for older bridges.
			if out.Error.Code == "USER_REJECTION" ||
				strings.Contains(out.Error.Message, "User rejected") ||
				strings.Contains(out.Error.Message, "rejected") {
				return nil, ErrUserRejected
			}
			return nil, fmt.Errorf("xverse: %s", out.Error.Message)
		}
		return nil, fmt.Errorf("xverse request failed")
	}
	return out.Result, nil
}

type xverseAddress struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
	Purpose   string `json:"purpose"`
}

func (x *XverseProvider) Connect(ctx context.Context) ([]WalletAccount, error) {
	if !x.Installed() {
		return nil, fmt.Errorf("Xverse %w", ErrProviderNotInstalled)
	}

	raw, err := x.request(ctx, "wallet_connect", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Addresses []xverseAddress `json:"addresses"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("unexpected addresses format: %v", err)
	}
	if len(result.Addresses) == 0 {
		return nil, ErrNoAddresses
	}

	// Partition by purpose: ordinals first, payment second, input order
	// irrelevant. Addresses with other purposes are ignored.
	var accounts []WalletAccount
	for _, purpose := range []Purpose{PurposeOrdinals, PurposePayment} {
		for _, addr := range result.Addresses {
			if Purpose(addr.Purpose) == purpose && addr.Address != "" {
				accounts = append(accounts, WalletAccount{
					Address:   addr.Address,
					PublicKey: addr.PublicKey,
					Purpose:   purpose,
				})
				break
			}
		}
	}
	if len(accounts) == 0 {
		return nil, ErrNoValidAddresses
	}
	return accounts, nil
}

// Accounts re-issues a connect request; the bridge resolves it without a
// prompt while the connection is still authorized.
func (x *XverseProvider) Accounts(ctx context.Context) []WalletAccount {
	if !x.Installed() {
		return nil
	}
	accounts, err := x.Connect(ctx)
	if err != nil {
		return nil
	}
	return accounts
}

// SendPayments submits the full recipient set as one sendTransfer request,
// which the wallet fulfills as a single signed transaction with one txid.
func (x *XverseProvider) SendPayments(ctx context.Context, recipients []satRecipient) (string, error) {
	if !x.Installed() {
		return "", fmt.Errorf("Xverse %w", ErrProviderNotInstalled)
	}

	type transferRecipient struct {
		Address string `json:"address"`
		Amount  int64  `json:"amount"`
	}
	outs := make([]transferRecipient, 0, len(recipients))
	for _, r := range recipients {
		outs = append(outs, transferRecipient{Address: r.Address, Amount: r.Sats})
	}

	raw, err := x.request(ctx, "sendTransfer", map[string]interface{}{
		"recipients": outs,
		"network":    map[string]string{"type": "Mainnet"},
	})
	if err != nil {
		if errors.Is(err, ErrUserRejected) {
			return "", ErrPaymentRejected
		}
		return "", err
	}

	var result struct {
		Txid    string `json:"txid"`
		TxIdAlt string `json:"txId"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("unexpected txid format: %v", err)
	}
	if result.Txid != "" {
		return result.Txid, nil
	}
	if result.TxIdAlt != "" {
		return result.TxIdAlt, nil
	}
	return "", fmt.Errorf("failed to send via Xverse")
}
