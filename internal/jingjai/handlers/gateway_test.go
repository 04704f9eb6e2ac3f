package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gartstein/jingjai/internal/jingjai/auth"
	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/gartstein/jingjai/internal/jingjai/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const gatewaySecret = "gateway-secret"

func newTestGateway(t *testing.T, c Controllers, idem IdempotencyStore) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	mux, err := NewGateway(NewControlHandler(c, idem, logger), logger)
	require.NoError(t, err)
	return auth.HTTPMiddleware(mux, gatewaySecret)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, sub string) map[string]string {
	t.Helper()
	token, err := auth.GenerateToken(sub, gatewaySecret, time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGateway_Clients(t *testing.T) {
	id := uuid.New()
	var gotActor string
	var gotID *uuid.UUID
	clients := &mockClientController{
		upsertFunc: func(_ context.Context, actor string, rid *uuid.UUID, patch *models.ClientPatch) (*models.Client, error) {
			gotActor, gotID = actor, rid
			if patch == nil || patch.TaxID == nil {
				return nil, validation.Violations{"legalName": "required"}
			}
			if *patch.TaxID == "dup" {
				return nil, fmt.Errorf("%w: tax id already registered to CL-100001", e.ErrAlreadyExists)
			}
			return &models.Client{ID: id, ClientID: "CL-100002"}, nil
		},
		getFunc: func(_ context.Context, rid uuid.UUID) (*models.Client, error) {
			if rid != id {
				return nil, e.ErrNotFound
			}
			return &models.Client{ID: id, ClientID: "CL-100002", LegalName: "Acme"}, nil
		},
		listFunc: func(context.Context) ([]models.Client, error) {
			return []models.Client{{ID: id, ClientID: "CL-100002"}}, nil
		},
		deleteFunc: func(context.Context, string, uuid.UUID) error { return nil },
	}
	h := newTestGateway(t, Controllers{Clients: clients}, nil)

	t.Run("create", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v1/clients", `{"client":{"legalName":"Acme","taxId":"0105"}}`, bearer(t, "erin"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"clientId":"CL-100002"}`, id), rec.Body.String())
		assert.Equal(t, "erin", gotActor)
		assert.Nil(t, gotID)
	})

	t.Run("update takes id from path", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPut, "/v1/clients/"+id.String(), `{"id":"ignored","client":{"taxId":"0105"}}`, bearer(t, "erin"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NotNil(t, gotID)
		assert.Equal(t, id, *gotID)
	})

	t.Run("write requires token", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v1/clients", `{}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthenticated", decodeError(t, rec).Kind)
	})

	t.Run("field errors", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v1/clients", "", bearer(t, "erin"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "invalid-argument", body.Kind)
		assert.Equal(t, map[string]string{"legalName": "required"}, body.FieldErrors)
	})

	t.Run("conflict", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v1/clients", `{"client":{"taxId":"dup"}}`, bearer(t, "erin"))
		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "already-exists", body.Kind)
		assert.Contains(t, body.Message, "CL-100001")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v1/clients", `{"client":`, bearer(t, "erin"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid-argument", decodeError(t, rec).Kind)
	})

	t.Run("get and list are public", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/v1/clients/"+id.String(), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"legalName":"Acme"`)

		rec = doRequest(t, h, http.MethodGet, "/v1/clients", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"clients":[`)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/v1/clients/"+uuid.NewString(), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not-found", decodeError(t, rec).Kind)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodDelete, "/v1/clients/"+id.String(), "", bearer(t, "erin"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	})
}

func TestGateway_InventoryAdjustments(t *testing.T) {
	itemID := uuid.New()
	inventory := &mockInventoryController{
		adjustFunc: func(_ context.Context, _ string, id uuid.UUID, delta *float64, reason string) (int64, bool, error) {
			if id != itemID {
				return 0, false, e.ErrNotFound
			}
			if delta == nil {
				return 4, false, nil
			}
			return 4 + int64(*delta), true, nil
		},
		listAdjustmentsFunc: func(context.Context, uuid.UUID) ([]models.Adjustment, error) {
			return []models.Adjustment{}, nil
		},
	}
	h := newTestGateway(t, Controllers{Inventory: inventory}, nil)
	path := "/v1/inventory/" + itemID.String() + "/adjustments"

	rec := doRequest(t, h, http.MethodPost, path, `{"delta":-1,"reason":"damaged"}`, bearer(t, "frank"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"quantity":3,"applied":true}`, rec.Body.String())

	rec = doRequest(t, h, http.MethodPost, path, `{}`, bearer(t, "frank"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"quantity":4,"applied":false}`, rec.Body.String())

	rec = doRequest(t, h, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"adjustments":[]}`, rec.Body.String())
}

func TestGateway_QueryFilters(t *testing.T) {
	resourceID := uuid.New()
	var gotStage string
	var gotResource *uuid.UUID
	h := newTestGateway(t, Controllers{
		Sales: &mockSaleController{
			listFunc: func(_ context.Context, stage string) ([]models.Sale, error) {
				gotStage = stage
				return nil, nil
			},
		},
		Bookings: &mockBookingController{
			listFunc: func(_ context.Context, id *uuid.UUID) ([]models.Booking, error) {
				gotResource = id
				return nil, nil
			},
		},
	}, nil)

	rec := doRequest(t, h, http.MethodGet, "/v1/sales?stage=awarded", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "awarded", gotStage)

	rec = doRequest(t, h, http.MethodGet, "/v1/bookings?resourceId="+resourceID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotResource)
	assert.Equal(t, resourceID, *gotResource)

	rec = doRequest(t, h, http.MethodGet, "/v1/bookings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotResource)
}

func TestGateway_IdempotencyHeader(t *testing.T) {
	clients := &mockClientController{
		upsertFunc: func(context.Context, string, *uuid.UUID, *models.ClientPatch) (*models.Client, error) {
			return &models.Client{ID: uuid.New(), ClientID: "CL-100001"}, nil
		},
	}
	h := newTestGateway(t, Controllers{Clients: clients}, newMemoryIdempotency())

	header := bearer(t, "gina")
	header["Idempotency-Key"] = "order-42"

	rec := doRequest(t, h, http.MethodPost, "/v1/clients", `{}`, header)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/v1/clients", `{}`, header)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already-exists", decodeError(t, rec).Kind)
}

func TestGateway_Healthz(t *testing.T) {
	h := newTestGateway(t, Controllers{}, nil)
	rec := doRequest(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
