package minting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Postage is the minimal spendable output size in satoshis; every
// inscription is created with this fixed postage.
const Postage = 546

var ErrMalformedBackendResponse = errors.New("inscription service did not return payment details")

// InscribeResult is the backend's funding quote for one inscription order.
// Amount is the service fee in BTC. InscriptionID and Txid are only present
// when the backend minted synchronously.
type InscribeResult struct {
	PayAddress    string          `json:"payAddress"`
	Amount        decimal.Decimal `json:"amount"`
	InscriptionID string          `json:"inscriptionId"`
	OrderID       string          `json:"orderId"`
	Txid          string          `json:"txid"`
}

// InscriberClient talks to the external inscription backend. The backend is
// a black box: one multipart POST in, a funding address and amount out.
type InscriberClient struct {
	baseURL string
	client  *http.Client
}

func NewInscriberClient(baseURL string) *InscriberClient {
	return &InscriberClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Inscribe submits the delegate payload. An HTTP error status carries the
// backend's error message when one is present in the body.
func (ic *InscriberClient) Inscribe(ctx context.Context, filename string, content []byte, recipientAddress string, feeRate int, meta DelegateMetadata) (*InscribeResult, error) {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	_ = w.WriteField("address", recipientAddress)
	_ = w.WriteField("feeRate", strconv.Itoa(feeRate))
	_ = w.WriteField("postage", strconv.Itoa(Postage))
	_ = w.WriteField("delegateMetadata", string(metaJSON))
	if err := w.Close(); err != nil {
		return nil, err
	}

	url := ic.baseURL + "/api/unisat/inscribe"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := ic.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			return nil, fmt.Errorf("%s", errBody.Error)
		}
		return nil, fmt.Errorf("failed to create inscription: status %d", resp.StatusCode)
	}

	var out struct {
		Status string          `json:"status"`
		Error  string          `json:"error"`
		Result *InscribeResult `json:"result"`
		Data   struct {
			Data *InscribeResult `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unexpected backend response: %v", err)
	}
	if out.Status != "ok" {
		if out.Error != "" {
			return nil, fmt.Errorf("%s", out.Error)
		}
		return nil, fmt.Errorf("inscription service returned unexpected format")
	}

	result := out.Result
	if result == nil {
		result = out.Data.Data
	}
	if result == nil || result.PayAddress == "" || result.Amount.IsZero() {
		return nil, ErrMalformedBackendResponse
	}
	return result, nil
}
