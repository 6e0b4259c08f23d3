package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daoview/internal/adapter"
	"daoview/internal/clarity"
	"daoview/internal/domain"
	"daoview/internal/repository/sqlite"
	"daoview/internal/service"
	"daoview/internal/stacks"
)

const (
	principal  = "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"
	daoAddress = principal + ".my-awesome-dao"
	// compressed secp256k1 generator point
	publicKey = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
)

// chainStub serves a contract with a balance, one proposal and nothing else
type chainStub struct {
	balanceErr error
	// treasury answers get-balance when set
	treasury clarity.Value
}

func (c *chainStub) CallReadOnly(ctx context.Context, principal, contractName, function string, args []string, sender string, network domain.Network) (clarity.Value, error) {
	switch function {
	case "get-balance":
		if c.treasury != nil {
			return c.treasury, nil
		}
	case "get-proposal-count":
		return clarity.NewUInt(1), nil
	case "get-proposal":
		v, err := clarity.DecodeHex(args[0])
		if err != nil {
			return nil, err
		}
		if clarity.Number(v) == 0 {
			return clarity.Tuple{"title": clarity.StringUTF8("Upgrade"), "status": clarity.StringASCII("executed")}, nil
		}
		return clarity.OptionalNone{}, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrFunctionNotAvailable, function)
}

func (c *chainStub) FetchAccountBalance(ctx context.Context, address string, network domain.Network) (*stacks.AccountBalance, error) {
	if c.balanceErr != nil {
		return nil, c.balanceErr
	}
	bal := &stacks.AccountBalance{}
	bal.STX.Balance = "500000000"
	return bal, nil
}

func (c *chainStub) GetLatestBlockHeight(ctx context.Context, network domain.Network) (int64, error) {
	return 150000, nil
}

func (c *chainStub) GetContractInterface(ctx context.Context, principal, contractName string, network domain.Network) (*stacks.ContractInterface, error) {
	return &stacks.ContractInterface{}, nil
}

func newTestServer(t *testing.T, chain *chainStub) http.Handler {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	registry := adapter.NewRegistry(adapter.NewGenericAdapter(chain))
	require.NoError(t, registry.Register(adapter.NewExecutorAdapter(chain)))
	svc := service.NewDaoService(registry, repo)

	mux := http.NewServeMux()
	NewDaoHandler(svc).RegisterRoutes(mux)
	return Chain(mux, Recover, CORS, Logger)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestGetConfig(t *testing.T) {
	h := newTestServer(t, &chainStub{})

	rec := do(t, h, http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := decode[ConfigResponse](t, rec)
	assert.Equal(t, domain.NetworkMainnet, cfg.DefaultNetwork)
	assert.Equal(t, []domain.Network{domain.NetworkMainnet, domain.NetworkTestnet}, cfg.Networks)
}

func TestGetTreasury(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := newTestServer(t, &chainStub{})
		rec := do(t, h, http.MethodGet, "/api/daos/"+daoAddress+"/treasury", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]any](t, rec)
		assert.Equal(t, "My Awesome Dao", body["name"])
		assert.Equal(t, 500.0, body["stx_balance"])
		assert.Equal(t, 500000000.0, body["micro_stx_balance"])
		assert.Equal(t, 150000.0, body["last_updated_block"])
		assert.NotContains(t, body, "source")
	})

	t.Run("contract balance", func(t *testing.T) {
		h := newTestServer(t, &chainStub{treasury: clarity.ResponseOk{Inner: clarity.NewUInt(2000000)}})
		rec := do(t, h, http.MethodGet, "/api/daos/"+daoAddress+"/treasury", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]any](t, rec)
		assert.Equal(t, "get-balance", body["source"])
		assert.Equal(t, 2.0, body["stx_balance"])
		assert.Equal(t, 2000000.0, body["micro_stx_balance"])
	})

	t.Run("invalid address", func(t *testing.T) {
		h := newTestServer(t, &chainStub{})
		rec := do(t, h, http.MethodGet, "/api/daos/not-a-dao/treasury", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode[ErrorResponse](t, rec)
		assert.Equal(t, "Invalid contract address", body.Error)
		assert.NotEmpty(t, body.Details)
	})

	t.Run("unreadable", func(t *testing.T) {
		h := newTestServer(t, &chainStub{balanceErr: domain.ErrContractNotFound})
		rec := do(t, h, http.MethodGet, "/api/daos/"+daoAddress+"/treasury", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid network", func(t *testing.T) {
		h := newTestServer(t, &chainStub{})
		rec := do(t, h, http.MethodGet, "/api/daos/"+daoAddress+"/treasury?network=devnet", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong network", func(t *testing.T) {
		h := newTestServer(t, &chainStub{})
		rec := do(t, h, http.MethodGet, "/api/daos/"+daoAddress+"/treasury?network=testnet", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetProposals(t *testing.T) {
	h := newTestServer(t, &chainStub{})

	rec := do(t, h, http.MethodGet, "/api/daos/"+daoAddress+"/proposals", "")
	require.Equal(t, http.StatusOK, rec.Code)

	proposals := decode[[]domain.Proposal](t, rec)
	require.Len(t, proposals, 1)
	assert.Equal(t, "Upgrade", proposals[0].Title)
	assert.Equal(t, domain.ProposalPassed, proposals[0].Status)

	rec = do(t, h, http.MethodGet, "/api/daos/"+daoAddress+"/proposals/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	details := decode[domain.ProposalDetails](t, rec)
	assert.Equal(t, "0", details.ID)

	rec = do(t, h, http.MethodGet, "/api/daos/"+daoAddress+"/proposals/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidateDao(t *testing.T) {
	h := newTestServer(t, &chainStub{})

	rec := do(t, h, http.MethodGet, "/api/daos/"+daoAddress+"/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ValidationResult{IsValid: true}, decode[domain.ValidationResult](t, rec))

	rec = do(t, h, http.MethodGet, "/api/daos/oops/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ValidationResult{Error: service.MessageInvalidAddress}, decode[domain.ValidationResult](t, rec))
}

func TestAdapters(t *testing.T) {
	h := newTestServer(t, &chainStub{})

	rec := do(t, h, http.MethodGet, "/api/adapters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	infos := decode[[]adapter.Info](t, rec)
	require.Len(t, infos, 2)
	assert.True(t, infos[1].Fallback)

	rec = do(t, h, http.MethodGet, "/api/daos/"+daoAddress+"/adapter", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, adapter.KindGeneric, decode[adapter.Info](t, rec).Kind)
}

func TestRegisterListDeleteDao(t *testing.T) {
	h := newTestServer(t, &chainStub{})

	rec := do(t, h, http.MethodPost, "/api/daos", `{"name":"x","contract_address":"`+daoAddress+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/daos", `{"name":"Broken","contract_address":"SP1.nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/daos", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/daos", `{"name":"My Awesome DAO","contract_address":"`+daoAddress+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[domain.KnownDao](t, rec)
	assert.Equal(t, domain.NetworkMainnet, created.Network)

	rec = do(t, h, http.MethodGet, "/api/daos?network=mainnet", "")
	require.Equal(t, http.StatusOK, rec.Code)
	daos := decode[[]domain.KnownDao](t, rec)
	require.Len(t, daos, 1)
	assert.Equal(t, daoAddress, daos[0].ContractAddress)

	rec = do(t, h, http.MethodGet, "/api/daos/export?format=yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), daoAddress)

	rec = do(t, h, http.MethodGet, "/api/daos/export?format=csv", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/daos/"+daoAddress, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/daos/"+daoAddress, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/daos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestWalletAddress(t *testing.T) {
	h := newTestServer(t, &chainStub{})

	want, err := stacks.AddressFromPublicKey(publicKey, domain.NetworkTestnet)
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/wallet/address", `{"public_key":"`+publicKey+`","network":"testnet"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[WalletAddressResponse](t, rec)
	assert.Equal(t, want, got.Address)
	assert.Equal(t, domain.NetworkTestnet, got.Network)

	rec = do(t, h, http.MethodPost, "/api/wallet/address", `{"public_key":"zz"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := Chain(panicky, Recover, CORS, Logger)

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, http.MethodOptions, "/api/daos", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
