// internals/features/billing/calculator/calculator.go
package calculator

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	billModel "waterbilling_backend/internals/features/billing/bills/model"
	consumerModel "waterbilling_backend/internals/features/billing/consumers/model"
	"waterbilling_backend/internals/helpers/dbtime"
)

// Tariff berisi semua konstanta harga air.
type Tariff struct {
	BaseFee         decimal.Decimal // biaya dasar per tagihan
	FreeAllowance   float64         // pemakaian (m3) yang sudah termasuk biaya dasar
	UnitRate        decimal.Decimal // harga per m3 di atas allowance
	LateFee         decimal.Decimal // denda flat untuk tagihan lewat jatuh tempo
	ReconnectionFee decimal.Decimal // biaya sambung ulang pelanggan Disconnected
}

func DefaultTariff() Tariff {
	return Tariff{
		BaseFee:         decimal.NewFromInt(100),
		FreeAllowance:   10,
		UnitRate:        decimal.NewFromInt(10),
		LateFee:         decimal.NewFromInt(20),
		ReconnectionFee: decimal.NewFromInt(100),
	}
}

type Calculator struct {
	Tariff   Tariff
	Location *time.Location
	Now      func() time.Time
}

func New(t Tariff, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{Tariff: t, Location: loc, Now: time.Now}
}

// Today = tanggal hari ini (UTC midnight) menurut timezone aplikasi.
func (c *Calculator) Today() time.Time {
	return dbtime.DateOf(c.Now(), c.Location)
}

// Consumption: satu-satunya sumber perhitungan pemakaian.
// previous = 0 kalau pelanggan belum punya bacaan sebelumnya.
func Consumption(current, previous float64) float64 {
	return current - previous
}

// AmountDue = base + max(consumption - allowance, 0) * rate.
// Denda & biaya sambung ulang TIDAK dihitung di sini.
func (c *Calculator) AmountDue(consumption float64) decimal.Decimal {
	excess := math.Max(consumption-c.Tariff.FreeAllowance, 0)
	return c.Tariff.BaseFee.Add(decimal.NewFromFloat(excess).Mul(c.Tariff.UnitRate)).Round(2)
}

func (c *Calculator) IsOverdue(status billModel.BillStatus, dueDate time.Time) bool {
	return status == billModel.BillUnpaid && dbtime.DateOf(dueDate, time.UTC).Before(c.Today())
}

func (c *Calculator) LateFee(status billModel.BillStatus, dueDate time.Time) decimal.Decimal {
	if c.IsOverdue(status, dueDate) {
		return c.Tariff.LateFee
	}
	return decimal.Zero
}

func TotalDue(amountDue, lateFee, reconnectionFee decimal.Decimal) decimal.Decimal {
	return amountDue.Add(lateFee).Add(reconnectionFee)
}

// ReconnectionApplies: pelanggan Disconnected yang membayar >= amount_due kena biaya sambung ulang.
func ReconnectionApplies(status consumerModel.ConsumerStatus, amountPaid, amountDue decimal.Decimal) bool {
	return status == consumerModel.ConsumerDisconnected && amountPaid.GreaterThanOrEqual(amountDue)
}

type Breakdown struct {
	AmountDue       decimal.Decimal
	LateFee         decimal.Decimal
	ReconnectionFee decimal.Decimal
	TotalDue        decimal.Decimal
	Overdue         bool
}

func (c *Calculator) Breakdown(b billModel.BillModel) Breakdown {
	due := time.Time(b.BillDueDate)
	late := c.LateFee(b.BillStatus, due)
	return Breakdown{
		AmountDue:       b.BillAmountDue,
		LateFee:         late,
		ReconnectionFee: b.BillReconnectionFee,
		TotalDue:        TotalDue(b.BillAmountDue, late, b.BillReconnectionFee),
		Overdue:         c.IsOverdue(b.BillStatus, due),
	}
}
