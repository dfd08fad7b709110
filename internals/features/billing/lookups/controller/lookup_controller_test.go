package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	billModel "waterbilling_backend/internals/features/billing/bills/model"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	helper "waterbilling_backend/internals/helpers"
	"waterbilling_backend/internals/testutil"
)

func newApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	h := NewLookupController(db)
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Get("/api/validate-id", h.ValidateID)
	app.Get("/api/ajax/previous-reading", h.PreviousReading)
	return app, db
}

func getJSON(t *testing.T, app *fiber.App, url string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out), string(body))
	return resp.StatusCode
}

func TestValidateID(t *testing.T) {
	app, db := newApp(t)
	c := testutil.SeedConsumer(t, db, "Ana Lopez", consumerModel.ConsumerDisconnected)
	testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 1, 1), testutil.Date(2024, 2, 10), 100, billModel.BillPaid)
	testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 2, 1), testutil.Date(2024, 3, 10), 250, billModel.BillUnpaid)

	var got struct {
		Success bool `json:"success"`
		Data    struct {
			Name    string `json:"name"`
			Address string `json:"address"`
			Status  string `json:"status"`
			Bills   []struct {
				BillingPeriod string  `json:"billing_period"`
				AmountDue     float64 `json:"amount_due"`
				DueDate       string  `json:"due_date"`
				Status        string  `json:"status"`
			} `json:"bills"`
		} `json:"data"`
	}
	status := getJSON(t, app, "/api/validate-id?id="+itoa(c.ConsumerID), &got)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, got.Success)
	assert.Equal(t, "Ana Lopez", got.Data.Name)
	assert.Equal(t, "Disconnected", got.Data.Status)
	require.Len(t, got.Data.Bills, 2)
	assert.Equal(t, "February 2024", got.Data.Bills[0].BillingPeriod)
	assert.Equal(t, 250.0, got.Data.Bills[0].AmountDue)
	assert.Equal(t, "2024-03-10", got.Data.Bills[0].DueDate)
	assert.Equal(t, "Unpaid", got.Data.Bills[0].Status)
	assert.Equal(t, "January 2024", got.Data.Bills[1].BillingPeriod)
}

func TestValidateIDNotFound(t *testing.T) {
	app, _ := newApp(t)
	for _, url := range []string{"/api/validate-id?id=999", "/api/validate-id?id=abc", "/api/validate-id"} {
		var got map[string]any
		status := getJSON(t, app, url, &got)
		assert.Equal(t, fiber.StatusOK, status, url)
		assert.Equal(t, map[string]any{"success": false, "error": "Consumer not found"}, got, url)
	}
}

func TestPreviousReading(t *testing.T) {
	app, db := newApp(t)
	c := testutil.SeedConsumer(t, db, "Ana Lopez", consumerModel.ConsumerActive)
	testutil.SeedConsumer(t, db, "Pedro Reyes", consumerModel.ConsumerActive)
	testutil.SeedReading(t, db, c.ConsumerID, 30, 0, testutil.Date(2024, 4, 1))
	testutil.SeedReading(t, db, c.ConsumerID, 55, 30, testutil.Date(2024, 5, 1))

	cases := map[string]float64{
		"/api/ajax/previous-reading?consumer_name=Ana+Lopez":   55,
		"/api/ajax/previous-reading?consumer_name=ana+lopez":   0,
		"/api/ajax/previous-reading?consumer_name=Pedro+Reyes": 0,
		"/api/ajax/previous-reading?consumer_name=":            0,
		"/api/ajax/previous-reading":                           0,
	}
	for url, want := range cases {
		var got struct {
			PreviousReading float64 `json:"previous_reading"`
		}
		status := getJSON(t, app, url, &got)
		assert.Equal(t, fiber.StatusOK, status, url)
		assert.Equal(t, want, got.PreviousReading, url)
	}
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
