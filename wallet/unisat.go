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

// UnisatProvider speaks the method-call style API of the UniSat bridge:
// every request is a POST carrying {"method": ..., "params": [...]}. The
// bridge does not separate ordinals and payment addresses, so accounts come
// back untagged.
type UnisatProvider struct {
	url    string
	client *http.Client
}

func NewUnisatProvider(url string) *UnisatProvider {
	return &UnisatProvider{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (u *UnisatProvider) Type() WalletType { return TypeUnisat }

func (u *UnisatProvider) Installed() bool {
	if u.url == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := u.call(ctx, "getAccounts")
	return err == nil || !isTransportError(err)
}

type unisatError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type unisatResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *unisatError    `json:"error"`
}

type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func isTransportError(err error) bool {
	var te *transportError
	return errors.As(err, &te)
}

func (u *UnisatProvider) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	defer metrics.ObserveWalletCall("unisat."+method, time.Now())

	if params == nil {
		params = []interface{}{}
	}
	body, err := json.Marshal(map[string]interface{}{
		"method": method,
		"params": params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, &transportError{err}
	}
	defer resp.Body.Close()

	var out unisatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("unexpected response format: %v", err)
	}
	if out.Error != nil {
		if out.Error.Code == 4001 || strings.Contains(out.Error.Message, "User rejected") {
			return nil, ErrUserRejected
		}
		return nil, fmt.Errorf("unisat: %s", out.Error.Message)
	}
	return out.Result, nil
}

func (u *UnisatProvider) Connect(ctx context.Context) ([]WalletAccount, error) {
	if !u.Installed() {
		return nil, fmt.Errorf("UniSat %w", ErrProviderNotInstalled)
	}

	raw, err := u.call(ctx, "requestAccounts")
	if err != nil {
		return nil, err
	}
	var addrs []string
	if err := json.Unmarshal(raw, &addrs); err != nil {
		return nil, fmt.Errorf("unexpected accounts format: %v", err)
	}
	if len(addrs) == 0 {
		return nil, ErrNoAccounts
	}

	raw, err = u.call(ctx, "getNetwork")
	if err != nil {
		return nil, err
	}
	var network string
	if err := json.Unmarshal(raw, &network); err != nil {
		return nil, fmt.Errorf("unexpected network format: %v", err)
	}
	if network != "livenet" {
		return nil, ErrWrongNetwork
	}

	accounts := make([]WalletAccount, 0, len(addrs))
	for _, addr := range addrs {
		accounts = append(accounts, WalletAccount{Address: addr})
	}
	return accounts, nil
}

func (u *UnisatProvider) Accounts(ctx context.Context) []WalletAccount {
	if !u.Installed() {
		return nil
	}
	raw, err := u.call(ctx, "getAccounts")
	if err != nil {
		return nil
	}
	var addrs []string
	if err := json.Unmarshal(raw, &addrs); err != nil {
		return nil
	}
	accounts := make([]WalletAccount, 0, len(addrs))
	for _, addr := range addrs {
		accounts = append(accounts, WalletAccount{Address: addr})
	}
	return accounts
}

// SendPayments signs one transaction per recipient, in order. Only the last
// txid is returned; a failure partway through does not undo the transfers
// already broadcast. This is inherent to the UniSat send API, which has no
// multi-recipient call.
func (u *UnisatProvider) SendPayments(ctx context.Context, recipients []satRecipient) (string, error) {
	if !u.Installed() {
		return "", fmt.Errorf("UniSat %w", ErrProviderNotInstalled)
	}

	var lastTxid string
	for _, r := range recipients {
		raw, err := u.call(ctx, "sendBitcoin", r.Address, r.Sats)
		if err != nil {
			if errors.Is(err, ErrUserRejected) {
				return "", ErrPaymentRejected
			}
			return "", err
		}
		if err := json.Unmarshal(raw, &lastTxid); err != nil {
			return "", fmt.Errorf("unexpected txid format: %v", err)
		}
	}
	return lastTxid, nil
}
