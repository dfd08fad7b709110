package service

import (
	"context"
	"testing"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	billModel "waterbilling_backend/internals/features/billing/bills/model"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	paymentModel "waterbilling_backend/internals/features/billing/payments/model"
	"waterbilling_backend/internals/testutil"
)

var now = time.Date(2024, 6, 20, 8, 0, 0, 0, time.UTC)

const serverKey = "SB-Mid-server-test"

func setup(t *testing.T) (*PaymentService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewPaymentService(db, testutil.FixedCalculator(now)), db
}

func reloadBill(t *testing.T, db *gorm.DB, id uint) billModel.BillModel {
	t.Helper()
	var b billModel.BillModel
	require.NoError(t, db.First(&b, "bill_id = ?", id).Error)
	return b
}

func TestRecordCash_DisconnectedFullPaymentAppliesReconnectionFee(t *testing.T) {
	svc, db := setup(t)
	c := testutil.SeedConsumer(t, db, "Rosa Reyes", consumerModel.ConsumerDisconnected)
	b := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 150, billModel.BillUnpaid)

	res, err := svc.RecordCash(context.Background(), b.BillID, decimal.NewFromInt(150))
	require.NoError(t, err)
	assert.True(t, res.ReconnectionApplied)
	assert.Equal(t, "100", res.Bill.BillReconnectionFee.String())

	got := reloadBill(t, db, b.BillID)
	assert.Equal(t, "100", got.BillReconnectionFee.String())
	assert.Equal(t, billModel.BillUnpaid, got.BillStatus, "cash payment does not settle the bill")
	assert.Equal(t, paymentModel.PaymentCash, res.Payment.PaymentMethod)
	assert.True(t, res.Payment.PaymentDate.Equal(now))
}

func TestRecordCash_NoReconnectionFee(t *testing.T) {
	cases := []struct {
		name   string
		status consumerModel.ConsumerStatus
		amount int64
	}{
		{"active full payment", consumerModel.ConsumerActive, 150},
		{"suspended full payment", consumerModel.ConsumerSuspended, 150},
		{"disconnected partial payment", consumerModel.ConsumerDisconnected, 149},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, db := setup(t)
			c := testutil.SeedConsumer(t, db, "Ben Cruz", tc.status)
			b := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 150, billModel.BillUnpaid)

			res, err := svc.RecordCash(context.Background(), b.BillID, decimal.NewFromInt(tc.amount))
			require.NoError(t, err)
			assert.False(t, res.ReconnectionApplied)
			assert.True(t, reloadBill(t, db, b.BillID).BillReconnectionFee.IsZero())
		})
	}
}

func TestRecordCash_Rejects(t *testing.T) {
	svc, db := setup(t)
	c := testutil.SeedConsumer(t, db, "Lea Santos", consumerModel.ConsumerActive)
	paid := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 4, 1), testutil.Date(2024, 5, 15), 100, billModel.BillPaid)
	open := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 15), 100, billModel.BillUnpaid)

	_, err := svc.RecordCash(context.Background(), paid.BillID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrBillAlreadyPaid)

	_, err = svc.RecordCash(context.Background(), open.BillID, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.RecordCash(context.Background(), 9999, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrBillNotFound)

	var count int64
	require.NoError(t, db.Model(&paymentModel.PaymentModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListByBill(t *testing.T) {
	svc, db := setup(t)
	c := testutil.SeedConsumer(t, db, "Lea Santos", consumerModel.ConsumerActive)
	b := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 200, billModel.BillUnpaid)

	_, err := svc.RecordCash(context.Background(), b.BillID, decimal.NewFromInt(50))
	require.NoError(t, err)
	_, err = svc.RecordCash(context.Background(), b.BillID, decimal.NewFromInt(70))
	require.NoError(t, err)

	rows, err := svc.ListByBill(context.Background(), b.BillID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "70", rows[0].PaymentAmountPaid.String())

	_, err = svc.ListByBill(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrBillNotFound)
}

/* ========== gateway ========== */

type fakeSnap struct {
	last *snap.Request
	err  *midtrans.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &snap.Response{Token: "tok-123", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/tok-123"}, nil
}

func signed(n Notification) Notification {
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return n
}

func TestOrderID(t *testing.T) {
	id := NewOrderID(42)
	got, err := ParseOrderID(id)
	require.NoError(t, err)
	assert.Equal(t, uint(42), got)

	for _, bad := range []string{"", "WB-0-abcd", "XX-1-abcd", "WB-x-abcd", "WB-1"} {
		_, err := ParseOrderID(bad)
		assert.ErrorIs(t, err, ErrInvalidOrderID, bad)
	}
}

func TestCreateCheckout(t *testing.T) {
	svc, db := setup(t)
	c := testutil.SeedConsumer(t, db, "Ana Lopez", consumerModel.ConsumerActive)
	// jatuh tempo sudah lewat → late fee 20
	b := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 1), 125, billModel.BillUnpaid)

	fs := &fakeSnap{}
	gw := NewGateway(svc, fs, serverKey)

	co, err := gw.CreateCheckout(context.Background(), b.BillID)
	require.NoError(t, err)
	assert.Equal(t, int64(145), co.GrossAmount)
	assert.Equal(t, "tok-123", co.Token)
	require.NotNil(t, fs.last)
	assert.Equal(t, co.OrderID, fs.last.TransactionDetails.OrderID)
	assert.Equal(t, "Ana Lopez", fs.last.CustomerDetail.FName)

	billID, err := ParseOrderID(co.OrderID)
	require.NoError(t, err)
	assert.Equal(t, b.BillID, billID)
}

func TestCreateCheckout_Errors(t *testing.T) {
	svc, db := setup(t)
	c := testutil.SeedConsumer(t, db, "Ana Lopez", consumerModel.ConsumerActive)
	paid := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 125, billModel.BillPaid)
	open := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 6, 1), testutil.Date(2024, 7, 30), 125, billModel.BillUnpaid)

	_, err := NewGateway(svc, nil, "").CreateCheckout(context.Background(), open.BillID)
	assert.ErrorIs(t, err, ErrGatewayDisabled)

	gw := NewGateway(svc, &fakeSnap{}, serverKey)
	_, err = gw.CreateCheckout(context.Background(), paid.BillID)
	assert.ErrorIs(t, err, ErrBillAlreadyPaid)

	failing := NewGateway(svc, &fakeSnap{err: &midtrans.Error{Message: "unauthorized"}}, serverKey)
	_, err = failing.CreateCheckout(context.Background(), open.BillID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestHandleNotification_SettlementMarksPaidOnce(t *testing.T) {
	svc, db := setup(t)
	c := testutil.SeedConsumer(t, db, "Rosa Reyes", consumerModel.ConsumerDisconnected)
	b := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 150, billModel.BillUnpaid)
	gw := NewGateway(svc, &fakeSnap{}, serverKey)

	n := signed(Notification{
		OrderID:           NewOrderID(b.BillID),
		StatusCode:        "200",
		GrossAmount:       "150.00",
		TransactionStatus: "settlement",
	})

	res, err := gw.HandleNotification(context.Background(), n)
	require.NoError(t, err)
	assert.True(t, res.Processed)
	assert.False(t, res.Duplicate)

	got := reloadBill(t, db, b.BillID)
	assert.Equal(t, billModel.BillPaid, got.BillStatus)
	assert.NotNil(t, got.BillPaidAt)
	assert.Equal(t, "100", got.BillReconnectionFee.String())

	again, err := gw.HandleNotification(context.Background(), n)
	require.NoError(t, err)
	assert.True(t, again.Duplicate)
	assert.False(t, again.Processed)

	var count int64
	require.NoError(t, db.Model(&paymentModel.PaymentModel{}).
		Where("payment_bill_id = ? AND payment_method = ?", b.BillID, paymentModel.PaymentOnline).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHandleNotification_RejectsAndIgnores(t *testing.T) {
	svc, db := setup(t)
	c := testutil.SeedConsumer(t, db, "Ana Lopez", consumerModel.ConsumerActive)
	b := testutil.SeedBill(t, db, c.ConsumerID, testutil.Date(2024, 5, 1), testutil.Date(2024, 6, 30), 100, billModel.BillUnpaid)
	gw := NewGateway(svc, &fakeSnap{}, serverKey)

	forged := Notification{
		OrderID:           NewOrderID(b.BillID),
		StatusCode:        "200",
		GrossAmount:       "100.00",
		TransactionStatus: "settlement",
		SignatureKey:      "deadbeef",
	}
	_, err := gw.HandleNotification(context.Background(), forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	pending := signed(Notification{
		OrderID:           NewOrderID(b.BillID),
		StatusCode:        "201",
		GrossAmount:       "100.00",
		TransactionStatus: "pending",
	})
	res, err := gw.HandleNotification(context.Background(), pending)
	require.NoError(t, err)
	assert.False(t, res.Processed)

	challenged := signed(Notification{
		OrderID:           NewOrderID(b.BillID),
		StatusCode:        "200",
		GrossAmount:       "100.00",
		TransactionStatus: "capture",
		FraudStatus:       "challenge",
	})
	res, err = gw.HandleNotification(context.Background(), challenged)
	require.NoError(t, err)
	assert.False(t, res.Processed)

	assert.Equal(t, billModel.BillUnpaid, reloadBill(t, db, b.BillID).BillStatus)

	_, err = NewGateway(svc, nil, "").HandleNotification(context.Background(), pending)
	assert.ErrorIs(t, err, ErrGatewayDisabled)
}
