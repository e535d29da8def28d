package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type fakeXverseBridge struct {
	mu        sync.Mutex
	addresses []map[string]string
	reject    bool
	transfers []json.RawMessage
	txid      string
}

func (f *fakeXverseBridge) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		if f.reject {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "error",
				"error":  map[string]string{"code": "USER_REJECTION", "message": "User rejected the request"},
			})
			return
		}

		switch req.Method {
		case "wallet_connect":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "success",
				"result": map[string]interface{}{"addresses": f.addresses},
			})
		case "sendTransfer":
			f.transfers = append(f.transfers, req.Params)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "success",
				"result": map[string]string{"txid": f.txid},
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "error",
				"error":  map[string]string{"code": "INVALID_REQUEST", "message": "unknown method"},
			})
		}
	}
}

func TestXversePartitionsByPurpose(t *testing.T) {
	// Payment first on the wire; partition order must not depend on it.
	bridge := &fakeXverseBridge{
		addresses: []map[string]string{
			{"address": "3Ppayment", "publicKey": "pk-pay", "purpose": "payment"},
			{"address": "bc1pordinals", "publicKey": "pk-ord", "purpose": "ordinals"},
		},
	}
	ts := httptest.NewServer(bridge.handler())
	defer ts.Close()

	p := NewXverseProvider(ts.URL)
	accounts, err := p.Connect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Purpose != PurposeOrdinals || accounts[0].Address != "bc1pordinals" {
		t.Errorf("expected the ordinals account first, got %+v", accounts[0])
	}
	if accounts[1].Purpose != PurposePayment || accounts[1].Address != "3Ppayment" {
		t.Errorf("expected the payment account second, got %+v", accounts[1])
	}
}

func TestXverseNoAddresses(t *testing.T) {
	bridge := &fakeXverseBridge{addresses: []map[string]string{}}
	ts := httptest.NewServer(bridge.handler())
	defer ts.Close()

	p := NewXverseProvider(ts.URL)
	if _, err := p.Connect(context.Background()); !errors.Is(err, ErrNoAddresses) {
		t.Fatalf("expected ErrNoAddresses, got %v", err)
	}
}

func TestXverseNoValidAddresses(t *testing.T) {
	bridge := &fakeXverseBridge{
		addresses: []map[string]string{
			{"address": "bc1qstacking", "purpose": "stacking"},
		},
	}
	ts := httptest.NewServer(bridge.handler())
	defer ts.Close()

	p := NewXverseProvider(ts.URL)
	if _, err := p.Connect(context.Background()); !errors.Is(err, ErrNoValidAddresses) {
		t.Fatalf("expected ErrNoValidAddresses, got %v", err)
	}
}

func TestXverseUserRejection(t *testing.T) {
	bridge := &fakeXverseBridge{reject: true}
	ts := httptest.NewServer(bridge.handler())
	defer ts.Close()

	p := NewXverseProvider(ts.URL)
	if _, err := p.Connect(context.Background()); !errors.Is(err, ErrUserRejected) {
		t.Fatalf("expected ErrUserRejected, got %v", err)
	}
}

func TestXverseBatchPayment(t *testing.T) {
	bridge := &fakeXverseBridge{
		addresses: []map[string]string{
			{"address": "bc1pordinals", "purpose": "ordinals"},
		},
		txid: "batch-txid",
	}
	ts := httptest.NewServer(bridge.handler())
	defer ts.Close()

	p := NewXverseProvider(ts.URL)
	txid, err := p.SendPayments(context.Background(), []satRecipient{
		{Address: "3Padmin", Sats: 5000},
		{Address: "bc1qpay", Sats: 10000},
	})
	if err != nil {
		t.Fatal(err)
	}
	if txid != "batch-txid" {
		t.Errorf("unexpected txid: %s", txid)
	}
	if len(bridge.transfers) != 1 {
		t.Fatalf("expected one batched sendTransfer request, got %d", len(bridge.transfers))
	}

	var params struct {
		Recipients []struct {
			Address string `json:"address"`
			Amount  int64  `json:"amount"`
		} `json:"recipients"`
		Network struct {
			Type string `json:"type"`
		} `json:"network"`
	}
	if err := json.Unmarshal(bridge.transfers[0], &params); err != nil {
		t.Fatal(err)
	}
	if len(params.Recipients) != 2 {
		t.Fatalf("expected both recipients in one request, got %d", len(params.Recipients))
	}
	if params.Network.Type != "Mainnet" {
		t.Errorf("expected Mainnet network, got %s", params.Network.Type)
	}
}
