package minting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/ordshop/trainer-minter/catalog"
	"github.com/ordshop/trainer-minter/internal/metrics"
	"github.com/ordshop/trainer-minter/mintlog"
	"github.com/ordshop/trainer-minter/wallet"
)

var (
	ErrWalletNotConnected = errors.New("please connect your wallet first")
	ErrEmptyPaymentTxid   = errors.New("payment transaction failed")
)

// Orchestrator sequences one mint attempt: build the delegate payload,
// submit the inscription order, compute the payment set, pay through the
// wallet adapter, and report the outcome. There is no retry and no cancel
// path once payment submission is in flight; a failed attempt is restarted
// from scratch by the user.
type Orchestrator struct {
	wallets   *wallet.Manager
	inscriber *InscriberClient
	fees      FeeSelector
	logger    *mintlog.Logger

	// adminAddress receives the item price leg of every paid mint.
	adminAddress string

	mu       sync.Mutex
	attempts map[string]*MintingStatus
}

// FeeSelector resolves the effective fee rate for an attempt.
type FeeSelector interface {
	Recommend(selected int) int
}

func NewOrchestrator(wallets *wallet.Manager, inscriber *InscriberClient, fees FeeSelector, logger *mintlog.Logger, adminAddress string) *Orchestrator {
	return &Orchestrator{
		wallets:      wallets,
		inscriber:    inscriber,
		fees:         fees,
		logger:       logger,
		adminAddress: adminAddress,
		attempts:     make(map[string]*MintingStatus),
	}
}

// StartMint validates the guard synchronously and launches the attempt in
// the background. The returned id is used to observe progress.
func (o *Orchestrator) StartMint(trainer catalog.TrainerItem, feeRate int) (string, error) {
	recipient, ok := o.wallets.PaymentAccount()
	if !ok {
		return "", ErrWalletNotConnected
	}

	id := uuid.NewString()
	o.setStatus(id, MintingStatus{
		Status:   StatusProcessing,
		Progress: progressPreparing,
		Message:  "Preparing delegate inscription...",
	})

	go o.run(id, trainer, recipient, o.fees.Recommend(feeRate))
	return id, nil
}

// Status returns the attempt's current record. An id that was never started,
// or whose attempt has been reset, reads as idle.
func (o *Orchestrator) Status(id string) MintingStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st, ok := o.attempts[id]; ok {
		return *st
	}
	return MintingStatus{Status: StatusIdle}
}

// Reset drops the attempt, returning its status record to idle.
func (o *Orchestrator) Reset(id string) {
	o.mu.Lock()
	delete(o.attempts, id)
	o.mu.Unlock()
}

func (o *Orchestrator) setStatus(id string, st MintingStatus) {
	o.mu.Lock()
	o.attempts[id] = &st
	o.mu.Unlock()
}

func (o *Orchestrator) run(id string, trainer catalog.TrainerItem, recipient wallet.WalletAccount, feeRate int) {
	ctx := context.Background()
	now := time.Now()

	log.Infof("minting delegate for %s (original %s, recipient %s, %d sat/vB)",
		trainer.Name, trainer.InscriptionID, recipient.Address, feeRate)

	result, paymentTxid, err := o.execute(ctx, id, trainer, recipient, feeRate, now)
	if err != nil {
		o.setStatus(id, MintingStatus{
			Status:   StatusFailed,
			Progress: 0,
			Error:    err.Error(),
		})
		metrics.MintAttempts.WithLabelValues(string(StatusFailed)).Inc()
		log.Warnf("mint attempt %s failed: %v", id, err)
		o.notifyLogger(ctx, trainer, recipient, nil, "")
		return
	}

	inscriptionID := result.InscriptionID
	if inscriptionID == "" {
		inscriptionID = fmt.Sprintf("pending-%s", result.OrderID)
	}
	txid := result.Txid
	if txid == "" {
		txid = result.OrderID
	}

	o.setStatus(id, MintingStatus{
		Status:        StatusCompleted,
		Progress:      progressDone,
		Message:       "Successfully minted!",
		InscriptionID: inscriptionID,
		Txid:          txid,
		PaymentTxid:   paymentTxid,
	})
	metrics.MintAttempts.WithLabelValues(string(StatusCompleted)).Inc()
	log.Infof("mint attempt %s completed, payment txid %s", id, paymentTxid)

	o.notifyLogger(ctx, trainer, recipient, result, txid)
}

func (o *Orchestrator) execute(ctx context.Context, id string, trainer catalog.TrainerItem, recipient wallet.WalletAccount, feeRate int, now time.Time) (*InscribeResult, string, error) {
	meta := NewDelegateMetadata(trainer.InscriptionID, trainer.Name, now)
	content, err := BuildDelegateHTML(meta)
	if err != nil {
		return nil, "", err
	}

	o.setStatus(id, MintingStatus{
		Status:   StatusProcessing,
		Progress: progressInscribe,
		Message:  "Creating inscription via UniSat API...",
	})

	result, err := o.inscriber.Inscribe(ctx, DelegateFilename(trainer.Name, now), []byte(content), recipient.Address, feeRate, meta)
	if err != nil {
		return nil, "", err
	}

	paymentTxid, err := o.wallets.SendBatchPayment(ctx, o.paymentSet(trainer.Price, result))
	if err != nil {
		return nil, "", err
	}
	if paymentTxid == "" {
		return nil, "", ErrEmptyPaymentTxid
	}

	o.setStatus(id, MintingStatus{
		Status:   StatusProcessing,
		Progress: progressPaid,
		Message:  "Payment confirmed! Waiting for inscription...",
	})

	return result, paymentTxid, nil
}

// paymentSet is the full recipient list for one mint: the item price (in
// BTC) to the admin address, then the backend's funding amount to its pay
// address. The price leg is omitted entirely for free items.
func (o *Orchestrator) paymentSet(priceSats int64, result *InscribeResult) []wallet.Recipient {
	var payments []wallet.Recipient
	if priceSats > 0 {
		priceBTC := decimal.NewFromInt(priceSats).Div(decimal.NewFromInt(100_000_000))
		payments = append(payments, wallet.Recipient{
			Address: o.adminAddress,
			Amount:  priceBTC,
		})
	}
	payments = append(payments, wallet.Recipient{
		Address: result.PayAddress,
		Amount:  result.Amount,
	})
	return payments
}

// notifyLogger reports the attempt to the mint log regardless of outcome.
// Logging failures never surface to the user.
func (o *Orchestrator) notifyLogger(ctx context.Context, trainer catalog.TrainerItem, recipient wallet.WalletAccount, result *InscribeResult, txid string) {
	if o.logger == nil {
		return
	}
	rec := mintlog.MintRecord{
		MinterAddress: recipient.Address,
		TrainerName:   trainer.Name,
		Price:         trainer.Price,
	}
	if result != nil {
		rec.InscriptionID = result.InscriptionID
		rec.Txid = txid
	}
	o.logger.LogMint(ctx, rec)
}
