// Package client is a Go client for the lookup simulator's HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/internal/faults"
	"github.com/Checker-Finance/simulators/internal/httpclient"
	"github.com/Checker-Finance/simulators/internal/rate"
	"github.com/Checker-Finance/simulators/internal/synth"
	"github.com/Checker-Finance/simulators/pkg/model"
)

// FailureError is a failure response from the simulator.
type FailureError struct {
	Status  int
	Key     model.ErrorKey
	Message string
}

func (e *FailureError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("simulator: %s (%d %s)", e.Message, e.Status, e.Key)
	}
	return fmt.Sprintf("simulator: status %d %s", e.Status, e.Key)
}

// Unwrap exposes injected faults as faults.ErrTransientNetwork and
// faults.ErrGeolocationUnavailable so faults.IsRetryable works on client errors.
func (e *FailureError) Unwrap() error {
	switch e.Key {
	case model.ErrKeyNetwork:
		return faults.ErrTransientNetwork
	case model.ErrKeyGeolocationUnavailable:
		return faults.ErrGeolocationUnavailable
	}
	return nil
}

// structural reports whether the failure is a stable lookup outcome.
func (e *FailureError) structural() bool {
	switch e.Key {
	case model.ErrKeyMissingFields, model.ErrKeyInvalidAccountFormat, model.ErrKeyInvalidInstitution,
		model.ErrKeyAccountNotFound, model.ErrKeyAccountBlocked:
		return true
	}
	return false
}

func decodeFailure(status int, body []byte) error {
	var f struct {
		ErrorKey model.ErrorKey `json:"errorKey"`
		Error    string         `json:"error"`
	}
	_ = json.Unmarshal(body, &f)
	return &FailureError{Status: status, Key: f.ErrorKey, Message: f.Error}
}

// Options tunes a Client. Zero values pick defaults.
type Options struct {
	HTTPClient *http.Client
	// RetryMax bounds retries of 5xx responses, including injected faults.
	RetryMax int
	// RequestsPerSecond enables client-side throttling when positive.
	RequestsPerSecond int
	Burst             int
	Logger            *zap.Logger
}

// Client calls a running simulator.
type Client struct {
	base string
	exec *httpclient.Executor
}

// New creates a Client for baseURL, e.g. "http://localhost:9040".
func New(baseURL string, opts Options) *Client {
	var mgr *rate.Manager
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = opts.RequestsPerSecond
		}
		mgr = rate.NewManager(rate.Config{RequestsPerSecond: opts.RequestsPerSecond, Burst: burst})
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		exec: httpclient.New(opts.Logger, mgr, opts.HTTPClient, opts.RetryMax, "simulator", decodeFailure),
	}
}

func (c *Client) get(path string, query url.Values) httpclient.RequestFunc {
	return func(ctx context.Context) (*http.Request, error) {
		u := c.base + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}
}

func (c *Client) post(path string, payload any) (httpclient.RequestFunc, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, nil
}

// LookupBank verifies an account. Stable failures (validation, not found,
// blocked) come back as an AccountInfo with Success false; injected faults
// that survive the retries come back as errors.
func (c *Client) LookupBank(ctx context.Context, accountNumber, bankCode string) (model.AccountInfo, error) {
	build, err := c.post("/api/v1/bank/lookup", map[string]string{
		"accountNumber": accountNumber,
		"bankCode":      bankCode,
	})
	if err != nil {
		return model.AccountInfo{}, err
	}

	var info model.AccountInfo
	err = c.exec.DoJSON(ctx, build, "bank", &info)
	var fe *FailureError
	if errors.As(err, &fe) && fe.structural() {
		return model.Failed(fe.Key), nil
	}
	return info, err
}

// LookupCrypto reports a wallet's holdings. chainID may be empty.
func (c *Client) LookupCrypto(ctx context.Context, address, chainID string) (model.WalletInfo, error) {
	build, err := c.post("/api/v1/crypto/lookup", map[string]string{
		"address": address,
		"chainId": chainID,
	})
	if err != nil {
		return model.WalletInfo{}, err
	}
	var info model.WalletInfo
	err = c.exec.DoJSON(ctx, build, "crypto", &info)
	return info, err
}

// Institutions lists supported banks.
func (c *Client) Institutions(ctx context.Context) ([]catalog.Institution, error) {
	var out struct {
		Banks []catalog.Institution `json:"banks"`
	}
	err := c.exec.DoJSON(ctx, c.get("/api/v1/institutions", nil), "catalog", &out)
	return out.Banks, err
}

// TransactionHistory fetches the seeded statement of accountNumber.
func (c *Client) TransactionHistory(ctx context.Context, accountNumber string) ([]model.Transaction, error) {
	var out struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	path := "/api/v1/bank/accounts/" + url.PathEscape(accountNumber) + "/transactions"
	err := c.exec.DoJSON(ctx, c.get(path, nil), "bank", &out)
	return out.Transactions, err
}

// NearestBranches finds branches near location; empty means "where I am".
func (c *Client) NearestBranches(ctx context.Context, location string) ([]model.Branch, error) {
	q := url.Values{}
	if location != "" {
		q.Set("location", location)
	}
	var out struct {
		Branches []model.Branch `json:"branches"`
	}
	err := c.exec.DoJSON(ctx, c.get("/api/v1/bank/branches", q), "bank", &out)
	return out.Branches, err
}

// RandomName asks the simulator for a synthesized name.
func (c *Client) RandomName(ctx context.Context, opts synth.NameOptions) (model.NameInfo, error) {
	q := url.Values{}
	if opts.Gender != "" {
		q.Set("gender", string(opts.Gender))
	}
	if opts.MiddleName != nil {
		q.Set("middle", strconv.FormatBool(*opts.MiddleName))
	}
	if opts.Title != nil {
		q.Set("title", strconv.FormatBool(*opts.Title))
	}
	var out model.NameInfo
	err := c.exec.DoJSON(ctx, c.get("/api/v1/names/random", q), "names", &out)
	return out, err
}
