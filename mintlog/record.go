package mintlog

import (
	"fmt"
	"math/rand"
	"time"
)

// MintRecord is one append-only log entry. Entries are never updated or
// deleted; ordering in the store is newest first.
type MintRecord struct {
	ID            string `json:"id"`
	MinterAddress string `json:"minterAddress"`
	TrainerName   string `json:"trainerName"`
	InscriptionID string `json:"inscriptionId"`
	Txid          string `json:"txid"`
	Price         int64  `json:"price"`
	Timestamp     string `json:"timestamp"`
}

const (
	defaultPending = "pending"
	defaultPrice   = 5000
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// newID builds "mint_<epochMillis>_<random9>". Uniqueness is probabilistic;
// the log accepts the residual collision risk at its volume.
func newID(now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = base36[rand.Intn(len(base36))]
	}
	return fmt.Sprintf("mint_%d_%s", now.UnixMilli(), suffix)
}

// FillDefaults generates the id and fills every optional field the way the
// append endpoint does: pending markers for the ids, the catalog price, and
// the current time.
func (r *MintRecord) FillDefaults(now time.Time) {
	r.ID = newID(now)
	if r.InscriptionID == "" {
		r.InscriptionID = defaultPending
	}
	if r.Txid == "" {
		r.Txid = defaultPending
	}
	if r.Price == 0 {
		r.Price = defaultPrice
	}
	if r.Timestamp == "" {
		r.Timestamp = now.UTC().Format(time.RFC3339)
	}
}
