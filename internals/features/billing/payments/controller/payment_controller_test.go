package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	billModel "waterbilling_backend/internals/features/billing/bills/model"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	"waterbilling_backend/internals/features/billing/payments/service"
	helper "waterbilling_backend/internals/helpers"
	"waterbilling_backend/internals/testutil"
)

const serverKey = "SB-Mid-server-test"

type stubSnap struct{}

func (stubSnap) CreateTransaction(*snap.Request) (*snap.Response, *midtrans.Error) {
	return &snap.Response{Token: "tok", RedirectURL: "https://example.test/pay"}, nil
}

func newApp(t *testing.T, withGateway bool) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	calc := testutil.FixedCalculator(time.Date(2024, 6, 20, 8, 0, 0, 0, time.UTC))
	payments := service.NewPaymentService(db, calc)
	gw := service.NewGateway(payments, nil, "")
	if withGateway {
		gw = service.NewGateway(payments, stubSnap{}, serverKey)
	}
	h := NewPaymentController(db, payments, gw)

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	api := app.Group("/api")
	api.Get("/bills/:id<int>/payments", h.ListByBill)
	api.Post("/bills/:id<int>/payments", h.Record)
	api.Post("/bills/:id<int>/checkout", h.Checkout)
	api.Post("/payments/notification", h.Notification)
	return app, db
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return resp.StatusCode, env
}

func payReq(billID uint, amount string) *http.Request {
	path := "/api/bills/" + strconv.FormatUint(uint64(billID), 10) + "/payments"
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(url.Values{"amount_paid": {amount}}.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return req
}

func TestRecordPayment(t *testing.T) {
	app, db := newApp(t, false)
	c := testutil.SeedConsumer(t, db, "Rosa Reyes", consumerModel.ConsumerDisconnected)
	b := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 150, billModel.BillUnpaid)

	status, env := do(t, app, payReq(b.BillID, "150.00"))
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Payment of ₱150.00 recorded. Reconnection fee of ₱100.00 applied.", env.Message)

	var data struct {
		ReconnectionApplied bool    `json:"reconnection_applied"`
		ReconnectionFee     float64 `json:"reconnection_fee"`
		Payment             struct {
			AmountPaid float64 `json:"amount_paid"`
			Method     string  `json:"method"`
		} `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.ReconnectionApplied)
	assert.Equal(t, 100.0, data.ReconnectionFee)
	assert.Equal(t, 150.0, data.Payment.AmountPaid)
	assert.Equal(t, "cash", data.Payment.Method)

	req := httptest.NewRequest(http.MethodGet, "/api/bills/"+strconv.FormatUint(uint64(b.BillID), 10)+"/payments", nil)
	status, env = do(t, app, req)
	require.Equal(t, fiber.StatusOK, status)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 1)
}

func TestRecordPayment_Errors(t *testing.T) {
	app, db := newApp(t, false)
	c := testutil.SeedConsumer(t, db, "Ana Lopez", consumerModel.ConsumerActive)
	paid := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 4, 1), testutil.Date(2024, 5, 15), 100, billModel.BillPaid)
	open := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 100, billModel.BillUnpaid)

	cases := []struct {
		name   string
		billID uint
		amount string
		status int
	}{
		{"missing amount", open.BillID, "", fiber.StatusUnprocessableEntity},
		{"not a number", open.BillID, "abc", fiber.StatusUnprocessableEntity},
		{"zero", open.BillID, "0", fiber.StatusUnprocessableEntity},
		{"already paid", paid.BillID, "100", fiber.StatusConflict},
		{"unknown bill", 9999, "100", fiber.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := do(t, app, payReq(tc.billID, tc.amount))
			assert.Equal(t, tc.status, status)
			assert.False(t, env.Success)
		})
	}
}

func TestCheckout(t *testing.T) {
	app, db := newApp(t, true)
	c := testutil.SeedConsumer(t, db, "Ana Lopez", consumerModel.ConsumerActive)
	b := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 125, billModel.BillUnpaid)

	req := httptest.NewRequest(http.MethodPost, "/api/bills/"+strconv.FormatUint(uint64(b.BillID), 10)+"/checkout", nil)
	status, env := do(t, app, req)
	require.Equal(t, fiber.StatusCreated, status)

	var co struct {
		OrderID     string `json:"order_id"`
		Token       string `json:"token"`
		GrossAmount int64  `json:"gross_amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &co))
	assert.Equal(t, "tok", co.Token)
	assert.Equal(t, int64(125), co.GrossAmount)
	assert.True(t, strings.HasPrefix(co.OrderID, "WB-"))
}

func TestCheckout_Disabled(t *testing.T) {
	app, db := newApp(t, false)
	c := testutil.SeedConsumer(t, db, "Ana Lopez", consumerModel.ConsumerActive)
	b := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 125, billModel.BillUnpaid)

	req := httptest.NewRequest(http.MethodPost, "/api/bills/"+strconv.FormatUint(uint64(b.BillID), 10)+"/checkout", nil)
	status, _ := do(t, app, req)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func notificationReq(n service.Notification) *http.Request {
	raw, _ := json.Marshal(n)
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notification", bytes.NewReader(raw))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return req
}

func TestNotification(t *testing.T) {
	app, db := newApp(t, true)
	c := testutil.SeedConsumer(t, db, "Ana Lopez", consumerModel.ConsumerActive)
	b := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 100, billModel.BillUnpaid)

	n := service.Notification{
		OrderID:           service.NewOrderID(b.BillID),
		StatusCode:        "200",
		GrossAmount:       "100.00",
		TransactionStatus: "settlement",
	}
	n.SignatureKey = service.Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)

	status, env := do(t, app, notificationReq(n))
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"bill_id":`+strconv.FormatUint(uint64(b.BillID), 10)+`,"processed":true,"duplicate":false}`, string(env.Data))

	var got billModel.BillModel
	require.NoError(t, db.First(&got, b.BillID).Error)
	assert.Equal(t, billModel.BillPaid, got.BillStatus)

	n.SignatureKey = "forged"
	status, _ = do(t, app, notificationReq(n))
	assert.Equal(t, fiber.StatusForbidden, status)
}
