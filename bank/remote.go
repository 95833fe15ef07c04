package bank

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"empowerment/metrics"

	"github.com/go-resty/resty/v2"
)

// ActiveLoanResponse is the data of GET /bank/active-loans.
type ActiveLoanResponse struct {
	BankNo        string `json:"bankNo"`
	HasActiveLoan bool   `json:"hasActiveLoan"`
}

type activeLoanEnvelope struct {
	Status  bool               `json:"status"`
	Message string             `json:"message"`
	Data    ActiveLoanResponse `json:"data"`
}

// RemoteLedger queries a bank ledger over HTTP.
type RemoteLedger struct {
	client *resty.Client
}

func NewRemoteLedger(baseURL, apiKey string, timeout time.Duration, retries int) *RemoteLedger {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("X-Api-Key", apiKey).
		SetHeader("Accept", "application/json").
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &RemoteLedger{client: client}
}

func (r *RemoteLedger) HasActiveLoan(ctx context.Context, bankNo string) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.BankLookupDuration.Observe(time.Since(start).Seconds())
	}()

	var out activeLoanEnvelope
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("bank_no", bankNo).
		SetResult(&out).
		Get("/bank/active-loans")
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	return out.Data.HasActiveLoan, nil
}
