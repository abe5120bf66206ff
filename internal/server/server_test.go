package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"tg_escrow/internal/domain/service/escrow"
	"tg_escrow/internal/domain/service/ledger"
	"tg_escrow/internal/domain/service/sequence"
	"tg_escrow/internal/infrastructure/persistence"
	"tg_escrow/internal/server"
	"tg_escrow/pkg/httpx"
	"tg_escrow/pkg/rest"
	"tg_escrow/pkg/tests"
)

const operatorID = "operator"

func newTestAPI(t *testing.T) tests.APIClient {
	t.Helper()
	rq := require.New(t)
	ctx := context.Background()

	store := persistence.NewStore(persistence.NewMemoryKV())

	snapshot, err := store.Load(ctx)
	rq.NoError(err)

	ids, err := sequence.NewGenerator(ctx, store)
	rq.NoError(err)

	svc := escrow.NewService(
		ledger.New(snapshot.Parties),
		escrow.NewDealStore(snapshot.Deals, snapshot.Completions),
		ids,
		store,
		operatorID,
	)

	router := chi.NewRouter()
	server.NewServer(server.NewDealServer(svc)).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	httpClient := &http.Client{
		Transport: httpx.NewLoggingRoundTripper(http.DefaultTransport),
	}

	return tests.NewAPIClient(srv.URL, httpClient)
}

func creditViaAPI(t *testing.T, api tests.APIClient, target, amount string) {
	t.Helper()

	resp, err := api.Post(context.Background(), "/v1/admin/credit", nil, rest.AdminCreditRequest{
		Operator: operatorID,
		Target:   target,
		Amount:   amount,
	}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func createDealViaAPI(t *testing.T, api tests.APIClient, seller, price string) string {
	t.Helper()

	var created rest.CreateDealResponse

	resp, err := api.Post(context.Background(), "/v1/deals", nil, rest.CreateDealRequest{
		Seller: seller,
		Type:   "gift",
		Title:  "Плюшевый мишка",
		Price:  price,
	}, &created, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return created.ID
}

func TestDealLifecycleOverHTTP(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestAPI(t)

	creditViaAPI(t, api, "buyer", "100")

	id := createDealViaAPI(t, api, "seller", "25")
	rq.Equal("#A7342", id)

	// Список открытых лотов.
	var open []rest.Deal

	resp, err := api.Get(ctx, "/v1/deals", nil, &open, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(open, 1)
	rq.Equal(id, open[0].ID)
	rq.Equal("open", open[0].Status)

	// Решётка в URL опускается.
	resp, err = api.Post(ctx, "/v1/deals/A7342/buy", nil, rest.BuyRequest{Buyer: "buyer"}, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	var deal rest.Deal

	resp, err = api.Get(ctx, "/v1/deals/A7342", nil, &deal, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("in_progress", deal.Status)
	rq.Equal("buyer", deal.Buyer)
	rq.Equal("25", deal.Locked)
	rq.NotNil(deal.LockedAt)

	resp, err = api.Post(ctx, "/v1/deals/A7342/sent", nil, rest.ActorRequest{Actor: "seller"}, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	var confirmed rest.ConfirmResponse

	resp, err = api.Post(ctx, "/v1/deals/A7342/confirm", nil, rest.ActorRequest{Actor: "buyer"}, &confirmed, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("25", confirmed.Amount)

	// Балансы после расчёта.
	var balance rest.BalanceResponse

	resp, err = api.Get(ctx, "/v1/parties/seller/balance", nil, &balance, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("25", balance.Balance)

	resp, err = api.Get(ctx, "/v1/parties/buyer/balance", nil, &balance, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("75", balance.Balance)

	// Запись о расчёте.
	var record rest.CompletionRecord

	resp, err = api.Get(ctx, "/v1/deals/A7342/completion", nil, &record, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(id, record.DealID)
	rq.Equal("25", record.Amount)
}

func TestHTTPErrorMapping(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestAPI(t)

	id := createDealViaAPI(t, api, "seller", "10")

	testCases := []struct {
		name       string
		do         func() (*http.Response, error)
		statusCode int
	}{
		{
			name: "buy without funds",
			do: func() (*http.Response, error) {
				return api.Post(ctx, "/v1/deals/A7342/buy", nil, rest.BuyRequest{Buyer: "pauper"}, nil, nil)
			},
			statusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown deal",
			do: func() (*http.Response, error) {
				return api.Get(ctx, "/v1/deals/Z9999", nil, nil, nil)
			},
			statusCode: http.StatusNotFound,
		},
		{
			name: "malformed deal id",
			do: func() (*http.Response, error) {
				return api.Get(ctx, "/v1/deals/oops", nil, nil, nil)
			},
			statusCode: http.StatusBadRequest,
		},
		{
			name: "sent before buy is a conflict",
			do: func() (*http.Response, error) {
				return api.Post(ctx, "/v1/deals/A7342/sent", nil, rest.ActorRequest{Actor: "seller"}, nil, nil)
			},
			statusCode: http.StatusConflict,
		},
		{
			name: "create deal without required fields",
			do: func() (*http.Response, error) {
				return api.Post(ctx, "/v1/deals", nil, rest.CreateDealRequest{Seller: "seller"}, nil, nil)
			},
			statusCode: http.StatusBadRequest,
		},
		{
			name: "completion of unsettled deal",
			do: func() (*http.Response, error) {
				return api.Get(ctx, "/v1/deals/"+id[1:]+"/completion", nil, nil, nil)
			},
			statusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := tc.do()
			rq.NoError(err)
			rq.Equal(tc.statusCode, resp.StatusCode)
		})
	}
}

func TestAdminCreditIsIndistinguishableForOutsiders(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestAPI(t)

	var errResp rest.Error

	// Не-оператор получает тот же 404, что и несуществующий маршрут.
	resp, err := api.Post(ctx, "/v1/admin/credit", nil, rest.AdminCreditRequest{
		Operator: "mallory",
		Target:   "mallory",
		Amount:   "1000000",
	}, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)

	// Баланс не изменился.
	var balance rest.BalanceResponse

	resp, err = api.Get(ctx, "/v1/parties/mallory/balance", nil, &balance, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("0", balance.Balance)

	// Оператор — может.
	creditViaAPI(t, api, "alice", "12.34567891")

	resp, err = api.Get(ctx, "/v1/parties/alice/balance", nil, &balance, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("12.34567891", balance.Balance)
}
