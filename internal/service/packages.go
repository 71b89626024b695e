package service

import "github.com/shopspring/decimal"

// Package is a purchasable bundle of credits. Prices are nominal; no
// payment is taken.
type Package struct {
	ID      string
	Name    string
	Credits int64
	Price   decimal.Decimal
	Popular bool
}

var packages = []Package{
	{ID: "small", Name: "Starter", Credits: 5, Price: decimal.RequireFromString("2.00")},
	{ID: "medium", Name: "Professional", Credits: 15, Price: decimal.RequireFromString("5.00"), Popular: true},
	{ID: "large", Name: "Enterprise", Credits: 35, Price: decimal.RequireFromString("10.00")},
}

func findPackage(id string) (Package, bool) {
	for _, p := range packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

func (p Package) result() PackageResult {
	return PackageResult{
		ID:             p.ID,
		Name:           p.Name,
		Credits:        p.Credits,
		Price:          p.Price.StringFixed(2),
		PricePerCredit: p.Price.DivRound(decimal.NewFromInt(p.Credits), 2).StringFixed(2),
		Popular:        p.Popular,
	}
}
