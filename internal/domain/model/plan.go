package model

import (
	"math"
	"strconv"
	"strings"

	"shake-ai-wallet/internal/domain"
)

// CoinPlan is a purchasable bundle of coins at a fixed display price.
// Plans are part of the backend catalog and immutable once fetched.
type CoinPlan struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CoinAmount   int64  `json:"coin_amount"`
	Price        string `json:"price"` // display price, e.g. "₹449" or "₹99.50"
	CurrencyCode string `json:"currency_code"`
}

func (p *CoinPlan) IsZero() bool { return p == nil || p.ID == 0 }

// NewCoinPlan validates and constructs a plan.
func NewCoinPlan(id int64, name string, coinAmount int64, price, currencyCode string) (*CoinPlan, error) {
	if id == 0 || name == "" || coinAmount < 0 || price == "" || currencyCode == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &CoinPlan{
		ID:           id,
		Name:         name,
		CoinAmount:   coinAmount,
		Price:        price,
		CurrencyCode: currencyCode,
	}, nil
}

// PriceMinorUnits converts the display price to the smallest currency unit
// (paise for INR, cents for USD). Currency markers and thousand separators
// are stripped; the remaining decimal is rounded half-up at the cents
// boundary, so "₹449" yields 44900 and "₹99.50" yields 9950.
func (p *CoinPlan) PriceMinorUnits() (int64, error) {
	var b strings.Builder
	for _, r := range p.Price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	major, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(major) || major <= 0 {
		return 0, domain.ErrInvalidPlan
	}
	return int64(math.Round(major * 100)), nil
}

// FindPlan returns the plan with the given ID from a fetched catalog,
// or nil when the plan is no longer listed.
func FindPlan(plans []*CoinPlan, id int64) *CoinPlan {
	for _, p := range plans {
		if p.ID == id {
			return p
		}
	}
	return nil
}
