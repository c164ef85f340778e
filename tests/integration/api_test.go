package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/adapter/fx"
	httpHandler "wallet-ledger/internal/adapter/http/handler"
	redisStorage "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds a full application stack: the real HTTP layer, middleware,
// handlers, services, and Redis rate cache (miniredis), with in-memory repos
// standing in for postgres and an httptest server standing in for the
// upstream rate API.

type testApp struct {
	server   *httptest.Server
	fxServer *httptest.Server
	redis    *miniredis.Miniredis
	txRepo   *inMemoryTransactionRepo
}

// fxRates is what the stub rate API serves, keyed "FROM-TO".
var fxRates = map[string]string{
	"DKK-EUR": "0.1340",
	"EUR-DKK": "7.4612",
	"DKK-USD": "0.1575",
	"USD-DKK": "6.3492",
	"EUR-USD": "1.0834",
	"USD-EUR": "0.9230",
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	// Stub frankfurter-style rate API
	fxServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base := r.URL.Query().Get("base")
		symbol := r.URL.Query().Get("symbols")
		rate, ok := fxRates[base+"-"+symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"amount":1.0,"base":%q,"date":"2026-08-28","rates":{%q:%s}}`, base, symbol, rate)
	}))

	// Start miniredis
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	// In-memory repos
	walletRepo := newInMemoryWalletRepo()
	txRepo := newInMemoryTransactionRepo()
	transactor := newInMemoryTransactor()

	// Real rate pipeline against the stub API
	rateClient := fx.NewClient(config.FXConfig{BaseURL: fxServer.URL, Timeout: 2 * time.Second})
	rateCache := redisStorage.NewRateCache(rdb)
	log := logger.New("error", false)
	rateSvc := service.NewRateService(rateClient, rateCache, 5*time.Minute, log)

	clock := service.SystemClock{}
	walletSvc := service.NewWalletService(walletRepo, txRepo, transactor, clock, log)
	operationSvc := service.NewOperationService(walletRepo, txRepo, transactor, rateSvc, clock, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:    walletSvc,
		OperationSvc: operationSvc,
		Logger:       log,
	})

	return &testApp{
		server:   httptest.NewServer(router),
		fxServer: fxServer,
		redis:    mr,
		txRepo:   txRepo,
	}
}

func (a *testApp) close() {
	a.server.Close()
	a.fxServer.Close()
	a.redis.Close()
}

func (a *testApp) post(t *testing.T, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(a.server.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp, decodeData(t, resp)
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, decodeData(t, resp)
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if data, ok := envelope["data"].(map[string]any); ok {
		return data
	}
	return envelope
}

func (a *testApp) createWallet(t *testing.T, currency string) string {
	t.Helper()
	resp, data := a.post(t, "/api/v1/wallets", fmt.Sprintf(`{"currency":%q}`, currency))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return data["id"].(string)
}

func TestWalletLifecycleFlow(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	// Create
	id := app.createWallet(t, "DKK")

	// Fresh wallet: ACTIVE, zero balance
	resp, data := app.get(t, "/api/v1/wallets/"+id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACTIVE", data["status"])
	assert.Equal(t, "0", data["balance"])

	// Deposit 100.50
	resp, data = app.post(t, "/api/v1/wallets/"+id+"/deposit", `{"amount":"100.50","currency":"DKK"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	wallet := data["wallet"].(map[string]any)
	assert.Equal(t, "100.5", wallet["balance"])

	// Withdraw 0.50
	resp, data = app.post(t, "/api/v1/wallets/"+id+"/withdraw", `{"amount":"0.50","currency":"DKK"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	wallet = data["wallet"].(map[string]any)
	assert.Equal(t, "100", wallet["balance"])

	// Ledger: newest first, both entries COMPLETED
	resp, data = app.get(t, "/api/v1/wallets/"+id+"/transactions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := data["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "WITHDRAWAL", items[0].(map[string]any)["type"])
	assert.Equal(t, "DEPOSIT", items[1].(map[string]any)["type"])
}

func TestRejectedAttemptsAreLedgered(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	id := app.createWallet(t, "EUR")

	// Overdraw an empty wallet -> 422, FAILED entry
	resp, data := app.post(t, "/api/v1/wallets/"+id+"/withdraw", `{"amount":"5.00","currency":"EUR"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	tx := data["transaction"].(map[string]any)
	assert.Equal(t, "FAILED", tx["status"])
	assert.Equal(t, "INSUFFICIENT_FUNDS", tx["error_code"])
	wallet := data["wallet"].(map[string]any)
	assert.Equal(t, "0", wallet["balance"])

	// Currency mismatch -> UNSUPPORTED_CURRENCY
	resp, data = app.post(t, "/api/v1/wallets/"+id+"/deposit", `{"amount":"5.00","currency":"USD"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	tx = data["transaction"].(map[string]any)
	assert.Equal(t, "UNSUPPORTED_CURRENCY", tx["error_code"])

	// Negative amount -> INVALID_AMOUNT
	resp, data = app.post(t, "/api/v1/wallets/"+id+"/deposit", `{"amount":"-5.00","currency":"EUR"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	tx = data["transaction"].(map[string]any)
	assert.Equal(t, "INVALID_AMOUNT", tx["error_code"])

	// Every rejected attempt is in the ledger
	resp, data = app.get(t, "/api/v1/wallets/"+id+"/transactions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), data["total"])
}

func TestExchangeFlow(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	dkk := app.createWallet(t, "DKK")
	eur := app.createWallet(t, "EUR")

	resp, _ := app.post(t, "/api/v1/wallets/"+dkk+"/deposit", `{"amount":"100.00","currency":"DKK"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 50.00 DKK -> EUR at 0.1340: credit 6.70
	body := fmt.Sprintf(`{"source_wallet_id":%q,"target_wallet_id":%q,"amount":"50.00"}`, dkk, eur)
	resp, data := app.post(t, "/api/v1/wallets/exchange", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	source := data["source_wallet"].(map[string]any)
	target := data["target_wallet"].(map[string]any)
	tx := data["transaction"].(map[string]any)
	assert.Equal(t, "50", source["balance"])
	assert.Equal(t, "6.7", target["balance"])
	assert.Equal(t, "6.7", tx["credited_amount"])
	assert.Equal(t, "EUR", tx["credited_currency"])

	// The rate is now cached in Redis
	cached, err := app.redis.Get("fxrate:DKK:EUR")
	require.NoError(t, err)
	assert.Equal(t, "0.134", cached)

	// Exchange appears in both wallets' ledgers
	_, data = app.get(t, "/api/v1/wallets/"+eur+"/transactions")
	items := data["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "EXCHANGE", items[0].(map[string]any)["type"])
}

func TestExchangeRateUnavailable(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	dkk := app.createWallet(t, "DKK")
	eur := app.createWallet(t, "EUR")

	resp, _ := app.post(t, "/api/v1/wallets/"+dkk+"/deposit", `{"amount":"100.00","currency":"DKK"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Kill the upstream rate API
	app.fxServer.Close()

	body := fmt.Sprintf(`{"source_wallet_id":%q,"target_wallet_id":%q,"amount":"50.00"}`, dkk, eur)
	resp, data := app.post(t, "/api/v1/wallets/exchange", body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	tx := data["transaction"].(map[string]any)
	assert.Equal(t, "FAILED", tx["status"])
	assert.Equal(t, "EXCHANGE_RATE_UNAVAILABLE", tx["error_code"])
	source := data["source_wallet"].(map[string]any)
	assert.Equal(t, "100", source["balance"])
}

func TestStatusChangeFlow(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	id := app.createWallet(t, "USD")

	resp, _ := app.post(t, "/api/v1/wallets/"+id+"/deposit", `{"amount":"25.00","currency":"USD"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Freeze
	resp, data := app.post(t, "/api/v1/wallets/"+id+"/status", `{"status":"FROZEN"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	wallet := data["wallet"].(map[string]any)
	assert.Equal(t, "FROZEN", wallet["status"])
	assert.Equal(t, "25", wallet["balance"])
	tx := data["transaction"].(map[string]any)
	assert.Equal(t, "STATUS_CHANGE", tx["type"])
	assert.Equal(t, "0", tx["amount"])

	// Frozen wallet rejects deposits, and the attempt is ledgered
	resp, data = app.post(t, "/api/v1/wallets/"+id+"/deposit", `{"amount":"1.00","currency":"USD"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	tx = data["transaction"].(map[string]any)
	assert.Equal(t, "INVALID_WALLET_STATE", tx["error_code"])

	// Close
	resp, _ = app.post(t, "/api/v1/wallets/"+id+"/status", `{"status":"CLOSED"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Closed is terminal -> 409, no ledger entry
	resp, data = app.post(t, "/api/v1/wallets/"+id+"/status", `{"status":"ACTIVE"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "WAL_005", data["error_code"])

	// Ledger: deposit + freeze + failed deposit + close = 4
	_, data = app.get(t, "/api/v1/wallets/"+id+"/transactions")
	assert.Equal(t, float64(4), data["total"])
}

func TestSelfExchangeRejected(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	id := app.createWallet(t, "DKK")
	resp, _ := app.post(t, "/api/v1/wallets/"+id+"/deposit", `{"amount":"100.00","currency":"DKK"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := fmt.Sprintf(`{"source_wallet_id":%q,"target_wallet_id":%q,"amount":"10.00"}`, id, id)
	resp, data := app.post(t, "/api/v1/wallets/exchange", body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	tx := data["transaction"].(map[string]any)
	assert.Equal(t, "INVALID_WALLET_STATE", tx["error_code"])
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
