package minting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordshop/trainer-minter/catalog"
	"github.com/ordshop/trainer-minter/mintlog"
	"github.com/ordshop/trainer-minter/wallet"
)

const adminAddress = "3PxmhPTh8p7K7xhJeb2Hf8QbMnsagrJxcG"

type fixedFee int

func (f fixedFee) Recommend(selected int) int {
	if selected > 0 {
		return selected
	}
	return int(f)
}

type walletSend struct {
	Address string
	Sats    int64
}

// unisatBridge is a minimal wallet bridge for orchestration tests. It
// records every sendBitcoin call.
type unisatBridge struct {
	mu    sync.Mutex
	sends []walletSend
}

func (b *unisatBridge) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		write := func(result interface{}) {
			json.NewEncoder(w).Encode(map[string]interface{}{"result": result})
		}
		switch req.Method {
		case "requestAccounts", "getAccounts":
			write([]string{"bc1qminter"})
		case "getNetwork":
			write("livenet")
		case "sendBitcoin":
			var addr string
			var sats int64
			json.Unmarshal(req.Params[0], &addr)
			json.Unmarshal(req.Params[1], &sats)
			b.mu.Lock()
			b.sends = append(b.sends, walletSend{addr, sats})
			n := len(b.sends)
			b.mu.Unlock()
			write(fmt.Sprintf("txid-%d", n))
		default:
			http.Error(w, "unknown method", http.StatusBadRequest)
		}
	}
}

func (b *unisatBridge) recorded() []walletSend {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]walletSend(nil), b.sends...)
}

func newConnectedManager(t *testing.T, bridge *unisatBridge) *wallet.Manager {
	t.Helper()
	ts := httptest.NewServer(bridge.handler())
	t.Cleanup(ts.Close)

	m := wallet.NewManager(wallet.NewUnisatProvider(ts.URL))
	if _, err := m.Connect(context.Background(), wallet.TypeUnisat); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPaymentSetPaidItem(t *testing.T) {
	o := &Orchestrator{adminAddress: adminAddress}
	result := &InscribeResult{
		PayAddress: "bc1pfund",
		Amount:     decimal.RequireFromString("0.0001"),
	}

	payments := o.paymentSet(5000, result)
	if len(payments) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(payments))
	}
	if payments[0].Address != adminAddress {
		t.Errorf("first leg goes to %s, want the admin address", payments[0].Address)
	}
	if !payments[0].Amount.Equal(decimal.RequireFromString("0.00005")) {
		t.Errorf("price leg = %s BTC, want 0.00005", payments[0].Amount)
	}
	if payments[1].Address != "bc1pfund" || !payments[1].Amount.Equal(result.Amount) {
		t.Errorf("funding leg = %+v", payments[1])
	}
}

func TestPaymentSetFreeItemOmitsPriceLeg(t *testing.T) {
	o := &Orchestrator{adminAddress: adminAddress}
	result := &InscribeResult{
		PayAddress: "bc1pfund",
		Amount:     decimal.RequireFromString("0.0001"),
	}

	payments := o.paymentSet(0, result)
	if len(payments) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(payments))
	}
	if payments[0].Address != "bc1pfund" {
		t.Errorf("funding leg goes to %s", payments[0].Address)
	}
}

func TestStartMintRequiresWallet(t *testing.T) {
	o := NewOrchestrator(wallet.NewManager(), nil, fixedFee(10), nil, adminAddress)
	trainer, _ := catalog.Find("gag-trainer")

	if _, err := o.StartMint(trainer, 0); !errors.Is(err, ErrWalletNotConnected) {
		t.Fatalf("expected ErrWalletNotConnected, got %v", err)
	}
}

func TestStatusUnknownAttemptReadsIdle(t *testing.T) {
	o := NewOrchestrator(wallet.NewManager(), nil, fixedFee(10), nil, adminAddress)
	if st := o.Status("nope"); st.Status != StatusIdle {
		t.Fatalf("status = %q, want idle", st.Status)
	}
}

func waitForTerminal(t *testing.T, o *Orchestrator, id string) MintingStatus {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		st := o.Status(id)
		if st.Status == StatusCompleted || st.Status == StatusFailed {
			return st
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("attempt never reached a terminal status")
	return MintingStatus{}
}

func TestMintFlow(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","result":{"payAddress":"bc1pfund","amount":0.0001,"orderId":"ord-123"}}`))
	}))
	defer backend.Close()

	bridge := &unisatBridge{}
	wallets := newConnectedManager(t, bridge)

	logged := make(chan mintlog.MintRecord, 1)
	logSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rec mintlog.MintRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logged <- rec
		w.Write([]byte(`{"success":true}`))
	}))
	defer logSrv.Close()

	o := NewOrchestrator(wallets, NewInscriberClient(backend.URL), fixedFee(12), mintlog.NewLogger(logSrv.URL), adminAddress)
	trainer, _ := catalog.Find("gag-trainer")

	id, err := o.StartMint(trainer, 0)
	if err != nil {
		t.Fatal(err)
	}

	st := waitForTerminal(t, o, id)
	if st.Status != StatusCompleted {
		t.Fatalf("attempt failed: %+v", st)
	}
	if st.Progress != 100 || st.Message != "Successfully minted!" {
		t.Errorf("unexpected terminal status: %+v", st)
	}
	if st.InscriptionID != "pending-ord-123" {
		t.Errorf("inscriptionId = %q, want the order fallback", st.InscriptionID)
	}
	if st.Txid != "ord-123" {
		t.Errorf("txid = %q, want the order fallback", st.Txid)
	}
	if st.PaymentTxid == "" {
		t.Error("expected a payment txid")
	}

	sends := bridge.recorded()
	if len(sends) != 2 {
		t.Fatalf("expected 2 wallet sends, got %d", len(sends))
	}
	if sends[0].Address != adminAddress || sends[0].Sats != 5000 {
		t.Errorf("price leg sent %+v", sends[0])
	}
	if sends[1].Address != "bc1pfund" || sends[1].Sats != 10000 {
		t.Errorf("funding leg sent %+v", sends[1])
	}

	select {
	case rec := <-logged:
		if rec.TrainerName != "Gag Trainer" || rec.MinterAddress != "bc1qminter" {
			t.Errorf("unexpected mint log record: %+v", rec)
		}
	case <-time.After(2 * time.Second):
		t.Error("attempt was never reported to the mint log")
	}

	o.Reset(id)
	if st := o.Status(id); st.Status != StatusIdle {
		t.Fatalf("status = %q after reset, want idle", st.Status)
	}
}

func TestMintFlowBackendFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"ordinals service unavailable"}`))
	}))
	defer backend.Close()

	wallets := newConnectedManager(t, &unisatBridge{})
	o := NewOrchestrator(wallets, NewInscriberClient(backend.URL), fixedFee(12), nil, adminAddress)
	trainer, _ := catalog.Find("cum-trainer")

	id, err := o.StartMint(trainer, 0)
	if err != nil {
		t.Fatal(err)
	}

	st := waitForTerminal(t, o, id)
	if st.Status != StatusFailed || st.Progress != 0 {
		t.Fatalf("unexpected terminal status: %+v", st)
	}
	if st.Error != "ordinals service unavailable" {
		t.Errorf("error = %q", st.Error)
	}
}
