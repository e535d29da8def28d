package mintlog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Logger is the fire-and-forget client side of the append endpoint. LogMint
// never fails its caller; any transport or server error is downgraded to a
// warning and a false return.
type Logger struct {
	url    string
	client *http.Client
}

func NewLogger(url string) *Logger {
	return &Logger{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (l *Logger) LogMint(ctx context.Context, rec MintRecord) bool {
	if rec.Timestamp == "" {
		rec.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(rec)
	if err != nil {
		log.Warnf("failed to encode mint record: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(body))
	if err != nil {
		log.Warnf("failed to build mint log request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		log.Warnf("error logging mint: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		log.Warnf("failed to log mint: %s", msg)
		return false
	}
	return true
}
