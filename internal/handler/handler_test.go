package handler

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/lotto"
	"github.com/osse101/lotto/internal/vrf"
)

var (
	alice       = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	coordinator = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	poolAddr    = common.HexToAddress("0x00000000000000000000000000000000000000f0")
)

func newRouter(svc lotto.Service, fulfiller ManualFulfiller) http.Handler {
	r := chi.NewRouter()
	ph := NewPoolHandler(svc)
	ah := NewAdminHandler(svc)
	vh := NewVRFHandler(fulfiller)
	r.Get("/pool", ph.HandleGetPool)
	r.Get("/pool/players", ph.HandleGetPlayerCount)
	r.Get("/pool/players/{index}", ph.HandleGetPlayer)
	r.Post("/pool/enter", ph.HandleEnter)
	r.Get("/upkeep", ph.HandleCheckUpkeep)
	r.Post("/upkeep", ph.HandlePerformUpkeep)
	r.Post("/vrf/callback", ph.HandleVRFCallback)
	r.Post("/vrf/fulfill/{requestID}", vh.HandleFulfill)
	r.Get("/draws", ph.HandleListDraws)
	r.Get("/draws/{requestID}", ph.HandleGetDraw)
	r.Get("/accounts/{address}", ph.HandleGetAccount)
	r.Post("/admin/draw/reset", ah.HandleResetDraw)
	r.Post("/admin/accounts/{address}/policy", ah.HandleSetPaymentPolicy)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func openPool() *domain.Pool {
	return &domain.Pool{
		ID: "main",
		Config: domain.PoolConfig{
			EntryFee:             big.NewInt(100),
			Interval:             30 * time.Second,
			Coordinator:          coordinator,
			SubscriptionID:       1,
			RequestConfirmations: 3,
			CallbackGasLimit:     500000,
			NumWords:             1,
		},
		State:      domain.PoolStateOpen,
		Balance:    big.NewInt(300),
		LastDrawAt: time.Unix(1700000000, 0),
	}
}

func TestHandleGetPool(t *testing.T) {
	svc := &lotto.MockService{}
	pool := openPool()
	pool.NumParticipants = 3
	svc.On("GetPool", mock.Anything).Return(pool, nil)
	svc.On("Address").Return(poolAddr)

	rec := do(t, newRouter(svc, nil), http.MethodGet, "/pool", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[PoolResponse](t, rec)
	assert.Equal(t, "OPEN", got.State)
	assert.Equal(t, "100", got.EntranceFee)
	assert.Equal(t, int64(30), got.IntervalSeconds)
	assert.Equal(t, 3, got.NumberOfPlayers)
	assert.Equal(t, "300", got.Balance)
	assert.Equal(t, "", got.RecentWinner)
	assert.Equal(t, int64(1700000000), got.LastTimestamp)
	assert.Nil(t, got.PendingRequestID)
	assert.Equal(t, uint32(1), got.NumWords)
	assert.Equal(t, uint16(3), got.RequestConfirmations)
	assert.Equal(t, poolAddr.Hex(), got.Address)
}

func TestHandleEnter(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		serviceErr error
		wantStatus int
		wantCall   bool
	}{
		{"accepted", EnterRequest{Address: alice.Hex(), Value: "100"}, nil, http.StatusCreated, true},
		{"below fee", EnterRequest{Address: alice.Hex(), Value: "99"}, domain.ErrNotEnoughFunds, http.StatusBadRequest, true},
		{"negative reaches pool", EnterRequest{Address: alice.Hex(), Value: "-1"}, domain.ErrNotEnoughFunds, http.StatusBadRequest, true},
		{"calculating", EnterRequest{Address: alice.Hex(), Value: "100"}, fmt.Errorf("enter: %w", domain.ErrNotOpen), http.StatusConflict, true},
		{"bad address", EnterRequest{Address: "alice", Value: "100"}, nil, http.StatusBadRequest, false},
		{"bad value", EnterRequest{Address: alice.Hex(), Value: "1.5"}, nil, http.StatusBadRequest, false},
		{"not json", "{", nil, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &lotto.MockService{}
			if tt.wantCall {
				var p *domain.Participant
				if tt.serviceErr == nil {
					p = &domain.Participant{PoolID: "main", Index: 0, Address: alice, Value: big.NewInt(100)}
				}
				svc.On("Enter", mock.Anything, alice, mock.AnythingOfType("*big.Int")).Return(p, tt.serviceErr).Once()
			}

			rec := do(t, newRouter(svc, nil), http.MethodPost, "/pool/enter", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			svc.AssertExpectations(t)
			if !tt.wantCall {
				svc.AssertNotCalled(t, "Enter", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandleCheckUpkeep(t *testing.T) {
	svc := &lotto.MockService{}
	svc.On("CheckUpkeep", mock.Anything).Return(&domain.UpkeepStatus{
		Needed: true, IsOpen: true, TimePassed: true, HasBalance: true, HasPlayers: true,
		State: domain.PoolStateOpen, Balance: big.NewInt(100), NumParticipants: 1, Elapsed: 31 * time.Second,
	}, nil)

	rec := do(t, newRouter(svc, nil), http.MethodGet, "/upkeep", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[UpkeepResponse](t, rec)
	assert.True(t, got.UpkeepNeeded)
	assert.Equal(t, "0x", got.PerformData)
	assert.Equal(t, int64(31), got.ElapsedSeconds)
}

func TestHandlePerformUpkeep(t *testing.T) {
	t.Run("started", func(t *testing.T) {
		svc := &lotto.MockService{}
		svc.On("PerformUpkeep", mock.Anything, []byte{0xab}).Return(domain.RequestID(1), nil)

		rec := do(t, newRouter(svc, nil), http.MethodPost, "/upkeep", PerformUpkeepRequest{PerformData: "0xab"})
		require.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, uint64(1), decode[RequestIDResponse](t, rec).RequestID)
	})

	t.Run("empty body", func(t *testing.T) {
		svc := &lotto.MockService{}
		svc.On("PerformUpkeep", mock.Anything, []byte(nil)).Return(domain.RequestID(2), nil)

		rec := do(t, newRouter(svc, nil), http.MethodPost, "/upkeep", nil)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("not needed carries values", func(t *testing.T) {
		svc := &lotto.MockService{}
		notNeeded := domain.NewUpkeepNotNeededError(domain.UpkeepStatus{
			State: domain.PoolStateCalculating, Balance: big.NewInt(200), NumParticipants: 2, Elapsed: 10 * time.Second,
		}, 30*time.Second)
		svc.On("PerformUpkeep", mock.Anything, mock.Anything).Return(domain.RequestID(0), notNeeded)

		rec := do(t, newRouter(svc, nil), http.MethodPost, "/upkeep", nil)
		require.Equal(t, http.StatusConflict, rec.Code)
		got := decode[UpkeepNotNeededResponse](t, rec)
		assert.Equal(t, "200", got.Balance)
		assert.Equal(t, 2, got.NumParticipants)
		assert.Equal(t, "CALCULATING", got.State)
		assert.Equal(t, int64(30), got.IntervalSeconds)
	})

	t.Run("bad perform data", func(t *testing.T) {
		svc := &lotto.MockService{}
		rec := do(t, newRouter(svc, nil), http.MethodPost, "/upkeep", PerformUpkeepRequest{PerformData: "zz"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "PerformUpkeep", mock.Anything, mock.Anything)
	})
}

func signedCallback(t *testing.T, key *ecdsa.PrivateKey, id domain.RequestID, words ...int64) VRFCallbackRequest {
	t.Helper()
	req := VRFCallbackRequest{RequestID: uint64(id), RandomWords: []string{}}
	bigWords := make([]*big.Int, 0, len(words))
	for _, w := range words {
		req.RandomWords = append(req.RandomWords, strconv.FormatInt(w, 10))
		bigWords = append(bigWords, big.NewInt(w))
	}
	sig, err := vrf.SignDelivery(key, id, bigWords)
	require.NoError(t, err)
	req.Signature = hexutil.Encode(sig)
	return req
}

func TestHandleVRFCallback(t *testing.T) {
	oracleKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	oracle := crypto.PubkeyToAddress(oracleKey.PublicKey)
	words := []*big.Int{big.NewInt(42)}

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"settled", nil, http.StatusOK},
		{"unknown request", fmt.Errorf("%w: 9", domain.ErrNonexistentRequest), http.StatusNotFound},
		{"payout refused", fmt.Errorf("%w: %w", domain.ErrPayoutTransferFailed, domain.ErrPaymentRejected), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &lotto.MockService{}
			svc.On("FulfillRandomWords", mock.Anything, oracle, domain.RequestID(1), words).Return(tt.serviceErr).Once()
			if tt.serviceErr == nil {
				svc.On("GetPool", mock.Anything).Return(openPool(), nil)
				svc.On("Address").Return(poolAddr)
			}

			rec := do(t, newRouter(svc, nil), http.MethodPost, "/vrf/callback", signedCallback(t, oracleKey, 1, 42))
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}

	t.Run("other signer is passed on as caller", func(t *testing.T) {
		otherKey, err := crypto.GenerateKey()
		require.NoError(t, err)
		other := crypto.PubkeyToAddress(otherKey.PublicKey)

		svc := &lotto.MockService{}
		svc.On("FulfillRandomWords", mock.Anything, other, domain.RequestID(1), words).Return(domain.ErrUnauthorizedCaller).Once()
		rec := do(t, newRouter(svc, nil), http.MethodPost, "/vrf/callback", signedCallback(t, otherKey, 1, 42))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("words changed after signing", func(t *testing.T) {
		req := signedCallback(t, oracleKey, 1, 42)
		req.RandomWords = []string{"3"}

		svc := &lotto.MockService{}
		svc.On("FulfillRandomWords", mock.Anything, mock.MatchedBy(func(a common.Address) bool { return a != oracle }),
			domain.RequestID(1), []*big.Int{big.NewInt(3)}).Return(domain.ErrUnauthorizedCaller).Once()
		rec := do(t, newRouter(svc, nil), http.MethodPost, "/vrf/callback", req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing signature", func(t *testing.T) {
		svc := &lotto.MockService{}
		rec := do(t, newRouter(svc, nil), http.MethodPost, "/vrf/callback", VRFCallbackRequest{RequestID: 1, RandomWords: []string{"1"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "FulfillRandomWords", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("truncated signature", func(t *testing.T) {
		req := signedCallback(t, oracleKey, 1, 42)
		req.Signature = req.Signature[:20]
		svc := &lotto.MockService{}
		rec := do(t, newRouter(svc, nil), http.MethodPost, "/vrf/callback", req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, ErrMsgUnauthorizedCallerErr, decode[ErrorResponse](t, rec).Error)
		svc.AssertNotCalled(t, "FulfillRandomWords", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty words reach the pool", func(t *testing.T) {
		svc := &lotto.MockService{}
		svc.On("FulfillRandomWords", mock.Anything, oracle, domain.RequestID(1), []*big.Int{}).Return(domain.ErrNoRandomWords)
		rec := do(t, newRouter(svc, nil), http.MethodPost, "/vrf/callback", signedCallback(t, oracleKey, 1))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrMsgNoRandomWordsError, decode[ErrorResponse](t, rec).Error)
	})
}

type mockFulfiller struct {
	mock.Mock
}

func (m *mockFulfiller) FulfillRandomWords(ctx context.Context, id domain.RequestID) (*vrf.Fulfillment, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*vrf.Fulfillment)
	return f, args.Error(1)
}

func (m *mockFulfiller) FulfillRandomWordsWithOverride(ctx context.Context, id domain.RequestID, words []*big.Int) (*vrf.Fulfillment, error) {
	args := m.Called(ctx, id, words)
	f, _ := args.Get(0).(*vrf.Fulfillment)
	return f, args.Error(1)
}

func TestHandleFulfill(t *testing.T) {
	t.Run("disabled without coordinator", func(t *testing.T) {
		rec := do(t, newRouter(&lotto.MockService{}, nil), http.MethodPost, "/vrf/fulfill/1", nil)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("proven words", func(t *testing.T) {
		f := &mockFulfiller{}
		f.On("FulfillRandomWords", mock.Anything, domain.RequestID(1)).Return(&vrf.Fulfillment{
			RequestID: 1, Words: []*big.Int{big.NewInt(7)}, Payment: big.NewInt(5),
			Proof: &vrf.Proof{Seed: []byte{1}, Signature: []byte{2}},
		}, nil)

		rec := do(t, newRouter(&lotto.MockService{}, f), http.MethodPost, "/vrf/fulfill/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[FulfillmentResponse](t, rec)
		assert.Equal(t, []string{"7"}, got.RandomWords)
		assert.Equal(t, "0x02", got.Proof.Signature)
	})

	t.Run("override words", func(t *testing.T) {
		f := &mockFulfiller{}
		f.On("FulfillRandomWordsWithOverride", mock.Anything, domain.RequestID(3), []*big.Int{big.NewInt(42)}).
			Return(&vrf.Fulfillment{RequestID: 3, Words: []*big.Int{big.NewInt(42)}, Payment: big.NewInt(5)}, nil)

		rec := do(t, newRouter(&lotto.MockService{}, f), http.MethodPost, "/vrf/fulfill/3", FulfillRequest{RandomWords: []string{"42"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, decode[FulfillmentResponse](t, rec).Proof)
	})

	t.Run("callback rejected by winner", func(t *testing.T) {
		f := &mockFulfiller{}
		f.On("FulfillRandomWords", mock.Anything, domain.RequestID(1)).
			Return(nil, fmt.Errorf("%w: %w", vrf.ErrCallbackFailed, domain.ErrPayoutTransferFailed))
		rec := do(t, newRouter(&lotto.MockService{}, f), http.MethodPost, "/vrf/fulfill/1", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := do(t, newRouter(&lotto.MockService{}, &mockFulfiller{}), http.MethodPost, "/vrf/fulfill/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleDraws(t *testing.T) {
	resolved := time.Unix(1700000100, 0)
	draw := domain.Draw{
		PoolID: "main", RequestID: 1, Status: domain.DrawStatusCompleted, NumParticipants: 2,
		Pot: big.NewInt(200), RequestedAt: time.Unix(1700000000, 0), ResolvedAt: &resolved,
		Winner: alice, WinnerIndex: 1, RandomWord: big.NewInt(43),
	}

	svc := &lotto.MockService{}
	svc.On("ListDraws", mock.Anything, lotto.DefaultListDrawsLimit).Return([]domain.Draw{draw}, nil)
	svc.On("ListDraws", mock.Anything, 5).Return([]domain.Draw{}, nil)
	svc.On("GetDraw", mock.Anything, domain.RequestID(1)).Return(&draw, nil)
	svc.On("GetDraw", mock.Anything, domain.RequestID(2)).Return(nil, domain.ErrDrawNotFound)
	r := newRouter(svc, nil)

	rec := do(t, r, http.MethodGet, "/draws", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]DrawResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "43", list[0].RandomWord)
	assert.Equal(t, alice.Hex(), list[0].Winner)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/draws?limit=5", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/draws?limit=0", nil).Code)

	rec = do(t, r, http.MethodGet, "/draws/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1700000100), *decode[DrawResponse](t, rec).ResolvedAt)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/draws/2", nil).Code)
}

func TestHandlePlayers(t *testing.T) {
	svc := &lotto.MockService{}
	svc.On("GetNumberOfPlayers", mock.Anything).Return(1, nil)
	svc.On("GetPlayer", mock.Anything, 0).Return(&domain.Participant{Index: 0, Address: alice, Value: big.NewInt(100)}, nil)
	svc.On("GetPlayer", mock.Anything, 1).Return(nil, domain.ErrParticipantIndex)
	r := newRouter(svc, nil)

	rec := do(t, r, http.MethodGet, "/pool/players", nil)
	assert.Equal(t, 1, decode[PlayerCountResponse](t, rec).NumberOfPlayers)

	rec = do(t, r, http.MethodGet, "/pool/players/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, alice.Hex(), decode[ParticipantResponse](t, rec).Address)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/pool/players/1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/pool/players/-1", nil).Code)
}

func TestHandleAdmin(t *testing.T) {
	t.Run("reset draw", func(t *testing.T) {
		svc := &lotto.MockService{}
		svc.On("ResetStuckDraw", mock.Anything).Return(&domain.Draw{RequestID: 4, Status: domain.DrawStatusAbandoned, Pot: big.NewInt(1)}, nil).Once()
		svc.On("ResetStuckDraw", mock.Anything).Return(nil, domain.ErrDrawNotStuck).Once()
		r := newRouter(svc, nil)

		rec := do(t, r, http.MethodPost, "/admin/draw/reset", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abandoned", decode[DrawResetResponse](t, rec).Draw.Status)

		assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPost, "/admin/draw/reset", nil).Code)
	})

	t.Run("payment policy", func(t *testing.T) {
		svc := &lotto.MockService{}
		svc.On("SetPaymentPolicy", mock.Anything, alice, true).Return(nil)
		svc.On("GetAccount", mock.Anything, alice).Return(&domain.Account{Address: alice, Balance: big.NewInt(0), RejectsPayments: true}, nil)
		r := newRouter(svc, nil)

		rec := do(t, r, http.MethodPost, "/admin/accounts/"+alice.Hex()+"/policy", map[string]bool{"rejects_payments": true})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decode[AccountResponse](t, rec).RejectsPayments)

		rec = do(t, r, http.MethodPost, "/admin/accounts/"+alice.Hex()+"/policy", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, r, http.MethodPost, "/admin/accounts/nope/policy", map[string]bool{"rejects_payments": true})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{domain.ErrNotEnoughFunds, http.StatusBadRequest},
		{domain.ErrNotOpen, http.StatusConflict},
		{domain.ErrUpkeepNotNeeded, http.StatusConflict},
		{domain.ErrUnauthorizedCaller, http.StatusForbidden},
		{domain.ErrNonexistentRequest, http.StatusNotFound},
		{domain.ErrPayoutTransferFailed, http.StatusConflict},
		{domain.ErrPoolNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: main", domain.ErrNoParticipants), http.StatusConflict},
		{domain.ErrShuttingDown, http.StatusServiceUnavailable},
		{vrf.ErrInsufficientBalance, http.StatusPaymentRequired},
		{vrf.ErrInvalidConsumer, http.StatusBadGateway},
		{errors.New("connection reset"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, msg := mapServiceErrorToUserMessage(tt.err)
		assert.Equal(t, tt.wantStatus, status, "%v", tt.err)
		assert.NotEmpty(t, msg)
	}

	_, msg := mapServiceErrorToUserMessage(errors.New("pq: password authentication failed"))
	assert.Equal(t, ErrMsgGenericServerError, msg)
}

func TestHealthAndVersion(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealthz()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HandleReadyz(pingFunc(func(context.Context) error { return errors.New("down") }))(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, healthStatusUnavailable, decode[HealthResponse](t, rec).Status)

	rec = httptest.NewRecorder()
	HandleReadyz(pingFunc(func(context.Context) error { return nil }))(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HandleVersion()(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.NotEmpty(t, decode[VersionInfo](t, rec).GoVersion)
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
