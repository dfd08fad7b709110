package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billModel "waterbilling_backend/internals/features/billing/bills/model"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	helper "waterbilling_backend/internals/helpers"
	"waterbilling_backend/internals/testutil"
)

func TestSummary(t *testing.T) {
	db := testutil.NewTestDB(t)
	now := time.Date(2024, 6, 20, 8, 0, 0, 0, time.UTC)
	h := NewDashboardController(db, testutil.FixedCalculator(now))
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Get("/api/dashboard", h.Summary)

	a := testutil.SeedConsumer(t, db, "Ana Lopez", consumerModel.ConsumerActive)
	b := testutil.SeedConsumer(t, db, "Ben Cruz", consumerModel.ConsumerActive)
	r := testutil.SeedConsumer(t, db, "Rosa Reyes", consumerModel.ConsumerDisconnected)

	testutil.SeedBill(t, db, a.ConsumerID, testutil.Date(2024, 4, 1), testutil.Date(2024, 5, 15), 100, billModel.BillPaid)
	testutil.SeedBill(t, db, a.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 1), 150, billModel.BillUnpaid) // overdue
	testutil.SeedBill(t, db, b.ConsumerID, testutil.Date(2024, 6, 1), testutil.Date(2024, 6, 30), 120, billModel.BillUnpaid)
	testutil.SeedBill(t, db, r.ConsumerID, testutil.Date(2024, 6, 1), testutil.Date(2024, 6, 20), 100, billModel.BillUnpaid) // jatuh tempo hari ini: belum overdue

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)

	var env struct {
		Data SummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env), string(body))

	assert.Equal(t, int64(2), env.Data.Consumers[consumerModel.ConsumerActive])
	assert.Equal(t, int64(0), env.Data.Consumers[consumerModel.ConsumerSuspended])
	assert.Equal(t, int64(1), env.Data.Consumers[consumerModel.ConsumerDisconnected])
	assert.Equal(t, int64(3), env.Data.TotalConsumers)
	assert.Equal(t, int64(3), env.Data.UnpaidBills)
	assert.Equal(t, int64(1), env.Data.OverdueBills)
	assert.Equal(t, 20.0, env.Data.LateFees)
	assert.Equal(t, 390.0, env.Data.TotalOutstanding)
}
