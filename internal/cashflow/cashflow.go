// Package cashflow reduces a set of transactions into cash-flow metrics.
package cashflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

var hundred = decimal.NewFromInt(100)

type Metrics struct {
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
	Aportes   decimal.Decimal `json:"aportes"`
	Services  decimal.Decimal `json:"services"`
	Payments  decimal.Decimal `json:"payments"`

	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`

	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`

	// OperationalResult is the balance without capital contributions.
	OperationalResult decimal.Decimal `json:"operational_result"`
	// ProfitMargin is a percentage of sales plus services, 0 when both are 0.
	ProfitMargin decimal.Decimal `json:"profit_margin"`

	TransactionCount int `json:"transaction_count"`
}

// Compute aggregates txs. The monthly figures cover the calendar month containing now,
// evaluated in now's location.
func Compute(txs []model.Transaction, now time.Time) Metrics {
	m := Metrics{
		Sales:           decimal.Zero,
		Purchases:       decimal.Zero,
		Aportes:         decimal.Zero,
		Services:        decimal.Zero,
		Payments:        decimal.Zero,
		MonthlyRevenue:  decimal.Zero,
		MonthlyExpenses: decimal.Zero,
	}

	year, month, _ := now.Date()
	loc := now.Location()

	for _, t := range txs {
		switch t.Type {
		case model.TransactionSale:
			m.Sales = m.Sales.Add(t.Value)
		case model.TransactionPurchase:
			m.Purchases = m.Purchases.Add(t.Value)
		case model.TransactionAporte:
			m.Aportes = m.Aportes.Add(t.Value)
		case model.TransactionService:
			m.Services = m.Services.Add(t.Value)
		case model.TransactionPayment:
			m.Payments = m.Payments.Add(t.Value)
		default:
			continue
		}
		m.TransactionCount++

		ty, tm, _ := t.Date.In(loc).Date()
		if ty != year || tm != month {
			continue
		}
		if t.Type.IsRevenue() {
			m.MonthlyRevenue = m.MonthlyRevenue.Add(t.Value)
		} else {
			m.MonthlyExpenses = m.MonthlyExpenses.Add(t.Value)
		}
	}

	m.TotalRevenue = m.Sales.Add(m.Aportes).Add(m.Services)
	m.TotalExpenses = m.Purchases.Add(m.Payments)
	m.Balance = m.TotalRevenue.Sub(m.TotalExpenses)
	m.OperationalResult = m.Balance.Sub(m.Aportes)

	earned := m.Sales.Add(m.Services)
	if earned.IsZero() {
		m.ProfitMargin = decimal.Zero
	} else {
		m.ProfitMargin = m.OperationalResult.Div(earned).Mul(hundred)
	}
	return m
}
