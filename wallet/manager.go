package wallet

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Manager owns the process-wide WalletState. It is the only writer; every
// transition keeps the invariant that Connected equals len(Accounts) > 0 and
// that WalletType is set iff Connected. Consumers read snapshots via State
// or subscribe for pushed changes.
type Manager struct {
	mu         sync.Mutex
	state      WalletState
	providers  map[WalletType]Provider
	connecting bool
	subs       map[int]chan WalletState
	nextSub    int
}

func NewManager(providers ...Provider) *Manager {
	m := &Manager{
		state:     disconnectedState(),
		providers: make(map[WalletType]Provider, len(providers)),
		subs:      make(map[int]chan WalletState),
	}
	for _, p := range providers {
		m.providers[p.Type()] = p
	}
	return m
}

func disconnectedState() WalletState {
	return WalletState{
		Accounts:  []WalletAccount{},
		Connected: false,
		Network:   NetworkMainnet,
	}
}

func (m *Manager) State() WalletState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Detect reports which providers are reachable right now. Evaluated lazily
// on every call; bridges may appear after the daemon starts.
func (m *Manager) Detect() map[WalletType]bool {
	out := make(map[WalletType]bool, len(m.providers))
	for t, p := range m.providers {
		out[t] = p.Installed()
	}
	return out
}

func (m *Manager) provider(t WalletType) (Provider, error) {
	p, ok := m.providers[t]
	if !ok {
		return nil, ErrUnknownWalletType
	}
	return p, nil
}

// Connect connects the given wallet and replaces the state atomically with
// the full account set. A second Connect while one is pending is rejected.
func (m *Manager) Connect(ctx context.Context, walletType WalletType) ([]WalletAccount, error) {
	p, err := m.provider(walletType)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.connecting {
		m.mu.Unlock()
		return nil, ErrConnectInFlight
	}
	m.connecting = true
	m.mu.Unlock()

	accounts, err := p.Connect(ctx)

	m.mu.Lock()
	m.connecting = false
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.state = WalletState{
		WalletType: walletType,
		Accounts:   accounts,
		Connected:  len(accounts) > 0,
		Network:    NetworkMainnet,
	}
	if !m.state.Connected {
		m.state = disconnectedState()
	}
	state := m.state
	m.mu.Unlock()

	m.notify(state)
	return accounts, nil
}

func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.state = disconnectedState()
	state := m.state
	m.mu.Unlock()
	m.notify(state)
}

// Restore adopts already-authorized UniSat accounts without prompting, for
// session pickup after a restart. Errors are ignored; a failed probe just
// leaves the state disconnected.
func (m *Manager) Restore(ctx context.Context) {
	p, err := m.provider(TypeUnisat)
	if err != nil {
		return
	}
	accounts := p.Accounts(ctx)
	if len(accounts) == 0 {
		return
	}
	m.mu.Lock()
	m.state = WalletState{
		WalletType: TypeUnisat,
		Accounts:   accounts,
		Connected:  true,
		Network:    NetworkMainnet,
	}
	state := m.state
	m.mu.Unlock()
	m.notify(state)
}

// AccountsChanged applies a provider-pushed account change. An empty account
// list resets the state to disconnected.
func (m *Manager) AccountsChanged(walletType WalletType, accounts []WalletAccount) {
	m.mu.Lock()
	if len(accounts) == 0 {
		m.state = disconnectedState()
	} else {
		m.state = WalletState{
			WalletType: walletType,
			Accounts:   accounts,
			Connected:  true,
			Network:    NetworkMainnet,
		}
	}
	state := m.state
	m.mu.Unlock()
	m.notify(state)
}

// Subscribe returns a channel receiving every state change and a cancel
// function that must be called to release it. Slow subscribers drop updates
// rather than blocking the manager.
func (m *Manager) Subscribe() (<-chan WalletState, func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	ch := make(chan WalletState, 8)
	m.subs[id] = ch
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
		m.mu.Unlock()
	}
	return ch, cancel
}

func (m *Manager) notify(state WalletState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- state:
		default:
			log.Warnf("wallet state subscriber is lagging, dropping update")
		}
	}
}

// SendBatchPayment normalizes the recipient amounts to satoshis and pays them
// through the connected wallet. The atomicity of the result depends on the
// wallet path; see Provider.SendPayments.
func (m *Manager) SendBatchPayment(ctx context.Context, recipients []Recipient) (string, error) {
	if len(recipients) == 0 {
		return "", ErrNoRecipients
	}

	m.mu.Lock()
	state := m.state
	m.mu.Unlock()
	if !state.Connected {
		return "", ErrNotConnected
	}

	p, err := m.provider(state.WalletType)
	if err != nil {
		return "", err
	}
	return p.SendPayments(ctx, normalizeRecipients(recipients))
}

// PaymentAccount returns the account a mint should be received on: the
// ordinals-purpose account when the provider distinguishes purposes, else
// the first account.
func (m *Manager) PaymentAccount() (WalletAccount, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Connected {
		return WalletAccount{}, false
	}
	for _, acc := range m.state.Accounts {
		if acc.Purpose == PurposeOrdinals {
			return acc, true
		}
	}
	return m.state.Accounts[0], true
}
