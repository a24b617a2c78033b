package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
	"github.com/xenking/kart-checkout/internal/domain/money"
	"github.com/xenking/kart-checkout/internal/domain/quote"
	"github.com/xenking/kart-checkout/internal/domain/tip"
)

type mockService struct {
	summary *checkout.Summary
	err     error

	savedPrefs  *checkout.Preferences
	quoteCartID string
	quote       quote.Quote
}

func (m *mockService) Summarize(_ context.Context, cartID string) (*checkout.Summary, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := *m.summary
	s.CartID = cartID
	return &s, nil
}

func (m *mockService) SavePreferences(_ context.Context, p *checkout.Preferences) error {
	if m.err != nil {
		return m.err
	}
	m.savedPrefs = p
	return nil
}

func (m *mockService) RecordQuote(_ context.Context, cartID string, q quote.Quote) error {
	if m.err != nil {
		return m.err
	}
	m.quoteCartID = cartID
	m.quote = q
	return nil
}

func serve(t *testing.T, svc CheckoutService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	NewHandler(svc, nil).Register(mux)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetSummary(t *testing.T) {
	pct := tip.Percent(decimal.NewFromInt(10))
	svc := &mockService{summary: &checkout.Summary{
		Items: []checkout.LineItem{
			{Name: checkout.NameSubtotal, Amount: money.New(2500, "USD"), State: quote.StatusResolved},
			{Name: checkout.NameDeliveryFee, State: quote.StatusErrored, Err: "no couriers"},
			{Name: checkout.NameTip, Amount: money.New(250, "USD"), Tip: &pct, State: quote.StatusResolved},
			{Name: checkout.NameTotal, Amount: money.New(2750, "USD"), State: quote.StatusResolved},
		},
		Total: money.New(2750, "USD"),
	}}

	rec := serve(t, svc, http.MethodGet, "/api/carts/c1/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		CartID   string `json:"cartId"`
		Currency string `json:"currency"`
		Locale   string `json:"locale"`
		Items    []struct {
			Name    string `json:"name"`
			State   string `json:"state"`
			Amount  *int64 `json:"amount"`
			Display string `json:"display"`
			Error   string `json:"error"`
			Tip     *struct {
				Kind  string `json:"kind"`
				Value any    `json:"value"`
			} `json:"tip"`
		} `json:"items"`
		Total struct {
			Amount  int64  `json:"amount"`
			Display string `json:"display"`
		} `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "c1", body.CartID)
	assert.Equal(t, "USD", body.Currency)
	assert.Equal(t, "en-US", body.Locale)
	require.Len(t, body.Items, 4)

	assert.Equal(t, "$25.00", body.Items[0].Display)
	assert.Equal(t, "errored", body.Items[1].State)
	assert.Equal(t, "no couriers", body.Items[1].Error)
	assert.Nil(t, body.Items[1].Amount)
	assert.Empty(t, body.Items[1].Display)
	require.NotNil(t, body.Items[2].Tip)
	assert.Equal(t, "percent", body.Items[2].Tip.Kind)
	assert.Equal(t, "10", body.Items[2].Tip.Value)

	assert.Equal(t, int64(2750), body.Total.Amount)
	assert.Equal(t, "$27.50", body.Total.Display)
}

func TestGetSummary_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "cart not found",
			err:        errors.Wrap(&checkout.CartNotFoundError{CartID: "c1"}, "get cart"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "currency mismatch",
			err:        errors.Wrap(money.ErrCurrencyMismatch, "compute summary"),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "storage failure",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &mockService{err: tt.err}, http.MethodGet, "/api/carts/c1/summary", "")
			require.Equal(t, tt.wantStatus, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, tt.wantStatus, body.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "internal error", body.Message)
			}
		})
	}
}

func TestPutPreferences(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		wantFlags       checkout.Flags
		wantTip         tip.Spec
		wantDeliveryTip tip.Spec
	}{
		{
			name:            "percent number and fixed",
			body:            `{"tipping":true,"tippingDriver":true,"tip":{"kind":"percent","value":12.5},"deliveryTip":{"value":300,"kind":"fixed"}}`,
			wantFlags:       checkout.Flags{Tipping: true, TippingDriver: true},
			wantTip:         tip.Percent(decimal.RequireFromString("12.5")),
			wantDeliveryTip: tip.Fixed(money.New(300, "")),
		},
		{
			name:            "percent user input",
			body:            `{"tipping":true,"tip":{"kind":"percent","value":"15%"}}`,
			wantFlags:       checkout.Flags{Tipping: true},
			wantTip:         tip.Percent(decimal.NewFromInt(15)),
			wantDeliveryTip: tip.Fixed(money.New(tip.DefaultFixedValue, "")),
		},
		{
			name:            "pickup only",
			body:            `{"pickupOrder":true,"extra":[1,2]}`,
			wantFlags:       checkout.Flags{PickupOrder: true},
			wantTip:         tip.Fixed(money.New(tip.DefaultFixedValue, "")),
			wantDeliveryTip: tip.Fixed(money.New(tip.DefaultFixedValue, "")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			rec := serve(t, svc, http.MethodPut, "/api/carts/c1/preferences", tt.body)
			require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

			require.NotNil(t, svc.savedPrefs)
			assert.Equal(t, "c1", svc.savedPrefs.CartID)
			assert.Equal(t, tt.wantFlags, svc.savedPrefs.Flags)
			assert.True(t, tt.wantTip.Equal(svc.savedPrefs.Tip), "tip %s", svc.savedPrefs.Tip)
			assert.True(t, tt.wantDeliveryTip.Equal(svc.savedPrefs.DeliveryTip), "delivery tip %s", svc.savedPrefs.DeliveryTip)
		})
	}
}

func TestPutPreferences_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{"tipping":`, wantStatus: http.StatusBadRequest},
		{name: "wrong type", body: `{"tipping":"yes"}`, wantStatus: http.StatusBadRequest},
		{name: "missing tip value", body: `{"tip":{"kind":"fixed"}}`, wantStatus: http.StatusBadRequest},
		{name: "unknown tip kind", body: `{"tip":{"kind":"round-up","value":1}}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "unparsable percent", body: `{"tip":{"kind":"percent","value":"lots"}}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			rec := serve(t, svc, http.MethodPut, "/api/carts/c1/preferences", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Nil(t, svc.savedPrefs)
		})
	}
}

func TestPutPreferences_ServiceRejects(t *testing.T) {
	svc := &mockService{err: errors.Wrap(tip.ErrInvalidTipSpec, "negative percentage -5")}
	rec := serve(t, svc, http.MethodPut, "/api/carts/c1/preferences", `{"tip":{"kind":"percent","value":-5}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPutQuote(t *testing.T) {
	tests := []struct {
		name string
		body string
		want quote.Quote
	}{
		{name: "resolved", body: `{"status":"resolved","fee":399,"currency":"USD"}`, want: quote.Resolved(money.New(399, "USD"))},
		{name: "pending", body: `{"status":"pending"}`, want: quote.Pending()},
		{name: "errored", body: `{"status":"errored","error":"no couriers"}`, want: quote.Errored("no couriers")},
		{name: "absent", body: `{"status":"absent"}`, want: quote.Absent()},
		{name: "pending ignores fee", body: `{"fee":100,"status":"pending"}`, want: quote.Pending()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			rec := serve(t, svc, http.MethodPut, "/api/carts/c9/quote", tt.body)
			require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
			assert.Equal(t, "c9", svc.quoteCartID)
			assert.Equal(t, tt.want, svc.quote)
		})
	}
}

func TestPutQuote_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{name: "missing status", body: `{"fee":1}`, wantStatus: http.StatusBadRequest},
		{name: "unknown status", body: `{"status":"lost"}`, wantStatus: http.StatusBadRequest},
		{name: "resolved without fee", body: `{"status":"resolved"}`, wantStatus: http.StatusBadRequest},
		{
			name:       "rejected by service",
			body:       `{"status":"resolved","fee":-1}`,
			svcErr:     errors.Wrap(checkout.ErrInvalidQuote, "negative fee -1"),
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &mockService{err: tt.svcErr}, http.MethodPut, "/api/carts/c1/quote", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	rec := serve(t, &mockService{}, http.MethodPost, "/api/carts/c1/summary", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
