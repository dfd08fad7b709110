package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	billModel "waterbilling_backend/internals/features/billing/bills/model"
	billService "waterbilling_backend/internals/features/billing/bills/service"
	paymentModel "waterbilling_backend/internals/features/billing/payments/model"
	"waterbilling_backend/internals/helpers/dbtime"
)

const orderPrefix = "WB"

var (
	ErrGatewayDisabled  = errors.New("online payment is not configured")
	ErrInvalidSignature = errors.New("invalid signature key")
	ErrInvalidOrderID   = errors.New("invalid order id")
	ErrNothingToPay     = errors.New("bill total is zero")
)

// SnapCreator dipenuhi *snap.Client; di test diganti fake.
type SnapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// NewSnapClient menginisialisasi Midtrans Snap Client dengan server key.
func NewSnapClient(serverKey string, production bool) *snap.Client {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	var c snap.Client
	c.New(serverKey, env)
	return &c
}

type Gateway struct {
	Payments  *PaymentService
	Snap      SnapCreator
	ServerKey string
}

func NewGateway(payments *PaymentService, snapClient SnapCreator, serverKey string) *Gateway {
	return &Gateway{Payments: payments, Snap: snapClient, ServerKey: serverKey}
}

func (g *Gateway) Enabled() bool { return g != nil && g.Snap != nil && g.ServerKey != "" }

/* ========== CHECKOUT ========== */

type Checkout struct {
	OrderID     string          `json:"order_id"`
	Token       string          `json:"token"`
	RedirectURL string          `json:"redirect_url"`
	GrossAmount int64           `json:"gross_amount"`
	TotalDue    decimal.Decimal `json:"-"`
}

// CreateCheckout membuat transaksi Snap sebesar total due bill (dibulatkan ke atas).
func (g *Gateway) CreateCheckout(ctx context.Context, billID uint) (*Checkout, error) {
	if !g.Enabled() {
		return nil, ErrGatewayDisabled
	}
	bill, err := loadBill(g.Payments.DB.WithContext(ctx), billID)
	if err != nil {
		return nil, err
	}
	if bill.BillStatus == billModel.BillPaid {
		return nil, ErrBillAlreadyPaid
	}

	total := g.Payments.Calc.Breakdown(*bill).TotalDue
	gross := total.Ceil().IntPart()
	if gross <= 0 {
		return nil, ErrNothingToPay
	}
	orderID := NewOrderID(bill.BillID)

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    strconv.FormatUint(uint64(bill.BillID), 10),
			Name:  "Water bill " + dbtime.FormatPeriod(bill.PeriodTime()),
			Price: gross,
			Qty:   1,
		}},
	}
	if bill.Consumer != nil {
		req.CustomerDetail = &midtrans.CustomerDetails{
			FName: bill.Consumer.ConsumerName,
			Phone: bill.Consumer.ConsumerContactNumber,
		}
	}

	resp, merr := g.Snap.CreateTransaction(req)
	if merr != nil {
		return nil, fmt.Errorf("midtrans create transaction: %s", merr.Message)
	}
	configs.Logger.Info("midtrans checkout created",
		zap.String("order_id", orderID),
		zap.Uint("bill_id", bill.BillID),
		zap.Int64("gross_amount", gross),
	)
	return &Checkout{
		OrderID:     orderID,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		GrossAmount: gross,
		TotalDue:    total,
	}, nil
}

// NewOrderID: WB-<bill_id>-<8 hex>. Satu bill bisa punya beberapa percobaan checkout.
func NewOrderID(billID uint) string {
	return fmt.Sprintf("%s-%d-%s", orderPrefix, billID, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func ParseOrderID(orderID string) (uint, error) {
	parts := strings.Split(orderID, "-")
	if len(parts) != 3 || parts[0] != orderPrefix {
		return 0, ErrInvalidOrderID
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidOrderID
	}
	return uint(id), nil
}

/* ========== WEBHOOK ========== */

type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
}

// Signature = hex(sha512(order_id + status_code + gross_amount + server_key)).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func (g *Gateway) VerifySignature(n Notification) bool {
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, g.ServerKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(n.SignatureKey))) == 1
}

type NotificationResult struct {
	BillID    uint
	Processed bool // false: status diabaikan atau notifikasi ulang
	Duplicate bool
}

// HandleNotification: capture/settlement → payment online + bill Paid, idempotent per order_id.
func (g *Gateway) HandleNotification(ctx context.Context, n Notification) (*NotificationResult, error) {
	if g.ServerKey == "" {
		return nil, ErrGatewayDisabled
	}
	if !g.VerifySignature(n) {
		return nil, ErrInvalidSignature
	}
	billID, err := ParseOrderID(n.OrderID)
	if err != nil {
		return nil, err
	}
	out := &NotificationResult{BillID: billID}

	if !isPaidStatus(n) {
		configs.Logger.Info("midtrans notification ignored",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus),
		)
		return out, nil
	}

	amount, err := decimal.NewFromString(n.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("gross_amount: %w", err)
	}

	err = g.Payments.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seen int64
		if err := tx.Model(&paymentModel.PaymentModel{}).
			Where("payment_gateway_order_id = ?", n.OrderID).
			Count(&seen).Error; err != nil {
			return err
		}
		if seen > 0 {
			out.Duplicate = true
			return nil
		}

		bill, err := loadBill(tx, billID)
		if err != nil {
			return err
		}
		if bill.BillStatus == billModel.BillPaid {
			// uang sudah masuk di gateway: tetap dicatat supaya bisa direkonsiliasi
			configs.Logger.Warn("online payment for bill that is already paid",
				zap.String("order_id", n.OrderID), zap.Uint("bill_id", bill.BillID))
		}

		orderID := n.OrderID
		if _, err := g.Payments.recordTx(tx, bill, amount, paymentModel.PaymentOnline, &orderID); err != nil {
			return err
		}
		if err := markPaid(tx, bill, g.Payments.Calc.Now()); err != nil {
			return err
		}
		out.Processed = true
		return nil
	})
	if err != nil {
		if isDuplicateOrder(err) {
			// webhook paralel dengan order_id sama: yang lain sudah mencatat
			return &NotificationResult{BillID: billID, Duplicate: true}, nil
		}
		return nil, err
	}
	return out, nil
}

func isPaidStatus(n Notification) bool {
	switch n.TransactionStatus {
	case "settlement":
		return true
	case "capture":
		return n.FraudStatus == "" || n.FraudStatus == "accept"
	}
	return false
}

func isDuplicateOrder(err error) bool {
	return billService.IsUniqueViolation(err)
}
