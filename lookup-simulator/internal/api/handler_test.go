package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/bank"
	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/internal/crypto"
	"github.com/Checker-Finance/simulators/internal/faults"
	"github.com/Checker-Finance/simulators/internal/rate"
	"github.com/Checker-Finance/simulators/internal/synth"
	"github.com/Checker-Finance/simulators/lookup-simulator/internal/service"
	"github.com/Checker-Finance/simulators/pkg/model"
)

// --- Mock Service ---

type mockService struct {
	lookupBankFn    func(ctx context.Context, acct, code string) (model.AccountInfo, error)
	lookupCryptoFn  func(ctx context.Context, addr, chain string) (model.WalletInfo, error)
	branchesFn      func(ctx context.Context, location string) ([]model.Branch, error)
	recentFn        func(ctx context.Context, kind model.LookupKind, limit int) ([]model.LookupEvent, error)
	randomNameFn    func(opts synth.NameOptions) model.NameInfo
	transactionsErr error
}

func (m *mockService) Institutions() []catalog.Institution {
	return []catalog.Institution{{Code: "044", Name: "Access Bank"}}
}

func (m *mockService) Chains() []catalog.Chain {
	return []catalog.Chain{{ID: "1", Name: "Ethereum", Symbol: "ETH"}}
}

func (m *mockService) LookupBank(ctx context.Context, acct, code string) (model.AccountInfo, error) {
	if m.lookupBankFn != nil {
		return m.lookupBankFn(ctx, acct, code)
	}
	return model.AccountInfo{}, errors.New("not implemented")
}

func (m *mockService) LookupCrypto(ctx context.Context, addr, chain string) (model.WalletInfo, error) {
	if m.lookupCryptoFn != nil {
		return m.lookupCryptoFn(ctx, addr, chain)
	}
	return model.WalletInfo{}, errors.New("not implemented")
}

func (m *mockService) TransactionHistory(acct string) ([]model.Transaction, error) {
	if m.transactionsErr != nil {
		return nil, m.transactionsErr
	}
	return []model.Transaction{{Reference: "ref-1", Type: model.TxCredit}}, nil
}

func (m *mockService) NearestBranches(ctx context.Context, location string) ([]model.Branch, error) {
	if m.branchesFn != nil {
		return m.branchesFn(ctx, location)
	}
	return nil, nil
}

func (m *mockService) RandomAccount() model.AccountInfo {
	return model.AccountInfo{Success: true, AccountNumber: "1111111111", Source: model.SourceRandom}
}

func (m *mockService) RandomWallet() model.WalletInfo {
	return model.WalletInfo{Success: true, Address: "0xabc", Source: model.SourceRandom}
}

func (m *mockService) RandomName(opts synth.NameOptions) model.NameInfo {
	if m.randomNameFn != nil {
		return m.randomNameFn(opts)
	}
	return synth.FallbackName()
}

func (m *mockService) RecentLookups(ctx context.Context, kind model.LookupKind, limit int) ([]model.LookupEvent, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, kind, limit)
	}
	return nil, service.ErrAuditUnavailable
}

// --- Test Helpers ---

func newTestApp(svc LookupService) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, nil, nil, nil, NewLookupHandler(zap.NewNop(), svc))
	return app
}

func newRealService(t *testing.T) *service.Service {
	t.Helper()
	cat, err := catalog.New(catalog.Default())
	require.NoError(t, err)
	gen := synth.NewWithRand(cat, rand.New(rand.NewPCG(21, 34)))
	return service.New(
		bank.NewResolver(cat, faults.Disabled(), zap.NewNop()),
		crypto.NewResolver(cat, gen, faults.Disabled(), zap.NewNop()),
		gen, nil, nil, 0, zap.NewNop(),
	)
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}

// ─── Bank lookup ──────────────────────────────────────────────────────────────

func TestLookupBank_Success(t *testing.T) {
	app := newTestApp(newRealService(t))

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bank/lookup",
		`{"accountNumber":"0123456789","bankCode":"044"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var info model.AccountInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.True(t, info.Success)
	assert.Equal(t, "Adebayo Olamide Johnson", info.AccountName)
	assert.Equal(t, "Access Bank", info.InstitutionName)
	assert.True(t, info.Balance.Equal(decimal.RequireFromString("2450000.50")))
	assert.Equal(t, model.SourceDatabase, info.Source)
}

func TestLookupBank_StatusMapping(t *testing.T) {
	app := newTestApp(newRealService(t))

	tests := []struct {
		name   string
		body   string
		status int
		key    model.ErrorKey
	}{
		{"missing fields", `{"accountNumber":"","bankCode":"044"}`, fiber.StatusBadRequest, model.ErrKeyMissingFields},
		{"bad format", `{"accountNumber":"12345","bankCode":"044"}`, fiber.StatusBadRequest, model.ErrKeyInvalidAccountFormat},
		{"unknown bank", `{"accountNumber":"0123456789","bankCode":"999"}`, fiber.StatusBadRequest, model.ErrKeyInvalidInstitution},
		{"not found", `{"accountNumber":"8080808080","bankCode":"044"}`, fiber.StatusNotFound, model.ErrKeyAccountNotFound},
		{"blocked", `{"accountNumber":"0000000385","bankCode":"044"}`, fiber.StatusForbidden, model.ErrKeyAccountBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bank/lookup", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var info model.AccountInfo
			require.NoError(t, json.Unmarshal(body, &info))
			assert.False(t, info.Success)
			assert.Equal(t, tt.key, info.ErrorKey)
			assert.Equal(t, model.Messages[tt.key], info.Error)
		})
	}
}

func TestLookupBank_InvalidJSON(t *testing.T) {
	app := newTestApp(&mockService{})
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/bank/lookup", "{invalid")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLookupBank_TransientFault(t *testing.T) {
	svc := &mockService{
		lookupBankFn: func(ctx context.Context, acct, code string) (model.AccountInfo, error) {
			return model.AccountInfo{}, faults.ErrTransientNetwork
		},
	}
	app := newTestApp(svc)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bank/lookup",
		`{"accountNumber":"0123456789","bankCode":"044"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var info model.AccountInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, model.ErrKeyNetwork, info.ErrorKey)
}

func TestLookupBank_UnexpectedError(t *testing.T) {
	svc := &mockService{
		lookupBankFn: func(ctx context.Context, acct, code string) (model.AccountInfo, error) {
			return model.AccountInfo{}, context.DeadlineExceeded
		},
	}
	app := newTestApp(svc)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/bank/lookup",
		`{"accountNumber":"0123456789","bankCode":"044"}`)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

// ─── Bank catalog and generators ──────────────────────────────────────────────

func TestListInstitutions(t *testing.T) {
	app := newTestApp(newRealService(t))

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/institutions", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out InstitutionsResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Success)
	require.Len(t, out.Institutions, 19)
	assert.Equal(t, "Access Bank", out.Institutions[0].Name)
	assert.Equal(t, "Zenith Bank", out.Institutions[18].Name)
}

func TestRandomAccount(t *testing.T) {
	app := newTestApp(newRealService(t))

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bank/accounts/random", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var info model.AccountInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.True(t, info.Success)
	assert.Equal(t, model.SourceRandom, info.Source)
	assert.Len(t, info.AccountNumber, 10)
	assert.NotEmpty(t, info.Phone)
	assert.Contains(t, info.Email, "@")
}

func TestTransactionHistory(t *testing.T) {
	app := newTestApp(newRealService(t))

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bank/accounts/0123456789/transactions", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var first TransactionsResponse
	require.NoError(t, json.Unmarshal(body, &first))
	assert.True(t, first.Success)
	assert.GreaterOrEqual(t, len(first.Transactions), 3)
	assert.LessOrEqual(t, len(first.Transactions), 10)

	_, body = doJSON(t, app, http.MethodGet, "/api/v1/bank/accounts/0123456789/transactions", "")
	var second TransactionsResponse
	require.NoError(t, json.Unmarshal(body, &second))
	require.Len(t, second.Transactions, len(first.Transactions))
	for i := range first.Transactions {
		assert.Equal(t, first.Transactions[i].Reference, second.Transactions[i].Reference)
	}
}

func TestTransactionHistory_InvalidAccount(t *testing.T) {
	app := newTestApp(newRealService(t))

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bank/accounts/12ab/transactions", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var info model.AccountInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, model.ErrKeyInvalidAccountFormat, info.ErrorKey)
}

func TestTransactionHistory_UnexpectedError(t *testing.T) {
	app := newTestApp(&mockService{transactionsErr: errors.New("boom")})
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/bank/accounts/0123456789/transactions", "")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestNearestBranches(t *testing.T) {
	app := newTestApp(newRealService(t))

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bank/branches?location=abuja", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out BranchesResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Branches)
	for i, b := range out.Branches {
		assert.Equal(t, "Abuja", b.City)
		if i > 0 {
			assert.LessOrEqual(t, out.Branches[i-1].DistanceKm, b.DistanceKm)
		}
	}
}

func TestNearestBranches_GeolocationFault(t *testing.T) {
	svc := &mockService{
		branchesFn: func(ctx context.Context, location string) ([]model.Branch, error) {
			return nil, faults.ErrGeolocationUnavailable
		},
	}
	app := newTestApp(svc)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bank/branches", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var info model.AccountInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, model.ErrKeyGeolocationUnavailable, info.ErrorKey)
}

// ─── Crypto ───────────────────────────────────────────────────────────────────

func TestLookupCrypto_StaticWallet(t *testing.T) {
	app := newTestApp(newRealService(t))

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/crypto/lookup",
		`{"address":"0xFF3F428583C15A5681584E9E5E86E270418AC4D3","chainId":56}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var w model.WalletInfo
	require.NoError(t, json.Unmarshal(body, &w))
	assert.True(t, w.Success)
	assert.Equal(t, model.SourceStatic, w.Source)
	assert.Equal(t, "BNB", w.Symbol)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("29888000.15364949")))
}

func TestLookupCrypto_EmptyBody(t *testing.T) {
	app := newTestApp(newRealService(t))

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/crypto/lookup", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var w model.WalletInfo
	require.NoError(t, json.Unmarshal(body, &w))
	assert.True(t, w.Success)
	assert.Equal(t, "1", w.ChainID)
	assert.Len(t, w.Address, 42)
	assert.Equal(t, model.SourceRandom, w.Source)
}

func TestLookupCrypto_ChainIDString(t *testing.T) {
	var gotChain string
	svc := &mockService{
		lookupCryptoFn: func(ctx context.Context, addr, chain string) (model.WalletInfo, error) {
			gotChain = chain
			return model.WalletInfo{Success: true, ChainID: chain}, nil
		},
	}
	app := newTestApp(svc)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/crypto/lookup", `{"address":"0x1","chainId":" 137 "}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "137", gotChain)
}

func TestLookupCrypto_TransientFault(t *testing.T) {
	svc := &mockService{
		lookupCryptoFn: func(ctx context.Context, addr, chain string) (model.WalletInfo, error) {
			return model.WalletInfo{}, faults.ErrTransientNetwork
		},
	}
	app := newTestApp(svc)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/crypto/lookup", `{"address":"0x1"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestLookupCrypto_InvalidJSON(t *testing.T) {
	app := newTestApp(&mockService{})
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/crypto/lookup", `{"chainId":[1]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListChainsAndRandomWallet(t *testing.T) {
	app := newTestApp(newRealService(t))

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/crypto/chains", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var chains ChainsResponse
	require.NoError(t, json.Unmarshal(body, &chains))
	assert.NotEmpty(t, chains.Chains)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/crypto/wallets/random", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var w model.WalletInfo
	require.NoError(t, json.Unmarshal(body, &w))
	assert.True(t, w.Success)
	assert.Equal(t, model.SourceRandom, w.Source)
}

// ─── Names ────────────────────────────────────────────────────────────────────

func TestRandomName_Options(t *testing.T) {
	var got synth.NameOptions
	svc := &mockService{
		randomNameFn: func(opts synth.NameOptions) model.NameInfo {
			got = opts
			return synth.FallbackName()
		},
	}
	app := newTestApp(svc)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/names/random?gender=Female&middle=true&title=0", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, model.GenderFemale, got.Gender)
	require.NotNil(t, got.MiddleName)
	assert.True(t, *got.MiddleName)
	require.NotNil(t, got.Title)
	assert.False(t, *got.Title)

	var out NameResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Success)
	assert.Equal(t, "John Doe", out.FullName)
}

func TestRandomName_InvalidQuery(t *testing.T) {
	app := newTestApp(&mockService{})

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/names/random?gender=other", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/names/random?middle=maybe", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// ─── Audit ────────────────────────────────────────────────────────────────────

func TestRecentLookups_Unavailable(t *testing.T) {
	app := newTestApp(&mockService{})
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/lookups/recent", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestRecentLookups_Success(t *testing.T) {
	var gotKind model.LookupKind
	var gotLimit int
	svc := &mockService{
		recentFn: func(ctx context.Context, kind model.LookupKind, limit int) ([]model.LookupEvent, error) {
			gotKind, gotLimit = kind, limit
			return []model.LookupEvent{{Kind: model.KindBank, Key: "******6789", Success: true}}, nil
		},
	}
	app := newTestApp(svc)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/lookups/recent?kind=bank&limit=10", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, model.KindBank, gotKind)
	assert.Equal(t, 10, gotLimit)

	var out RecentLookupsResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Lookups, 1)
	assert.Equal(t, "******6789", out.Lookups[0].Key)
}

func TestRecentLookups_BadQuery(t *testing.T) {
	app := newTestApp(&mockService{})

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/lookups/recent?kind=stocks", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/lookups/recent?limit=-1", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// ─── Health and rate limiting ─────────────────────────────────────────────────

func TestHealth_NoDependencies(t *testing.T) {
	app := newTestApp(&mockService{})

	resp, body := doJSON(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "disabled", out.Checks["nats"])
	assert.Equal(t, "disabled", out.Checks["store"])
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	limiter := rate.NewManager(rate.Config{RequestsPerSecond: 1, Burst: 2})
	RegisterRoutes(app, nil, nil, limiter, NewLookupHandler(zap.NewNop(), &mockService{}))

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/institutions", "")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/institutions", "")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// health is outside the limited group
	resp, _ = doJSON(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
