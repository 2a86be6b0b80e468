package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func pdec(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func punits(n int64) *int64 {
	return &n
}

func TestComputeShare(t *testing.T) {
	tests := []struct {
		name   string
		price  string
		shares []models.ItemShare
		// want maps person ID to expected share amount
		want map[string]string
	}{
		{
			name:  "three-way equal split",
			price: "30.00",
			shares: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypeEqual},
				{PersonID: "b", SplitType: models.SplitTypeEqual},
				{PersonID: "c", SplitType: models.SplitTypeEqual},
			},
			want: map[string]string{"a": "10.00", "b": "10.00", "c": "10.00"},
		},
		{
			name:  "percentage split",
			price: "50.00",
			shares: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypePercentage, Percentage: pdec("60")},
				{PersonID: "b", SplitType: models.SplitTypePercentage, Percentage: pdec("40")},
			},
			want: map[string]string{"a": "30.00", "b": "20.00"},
		},
		{
			name:  "shares split by units",
			price: "100.00",
			shares: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypeShares, ShareUnits: punits(2)},
				{PersonID: "b", SplitType: models.SplitTypeShares, ShareUnits: punits(3)},
			},
			want: map[string]string{"a": "40.00", "b": "60.00"},
		},
		{
			name:  "exact amounts",
			price: "25.00",
			shares: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypeExact, ExactAmount: pdec("10.50")},
				{PersonID: "b", SplitType: models.SplitTypeExact, ExactAmount: pdec("14.50")},
			},
			want: map[string]string{"a": "10.50", "b": "14.50"},
		},
		{
			name:  "mixed types only count same family",
			price: "60.00",
			shares: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypeEqual},
				{PersonID: "b", SplitType: models.SplitTypeEqual},
				{PersonID: "c", SplitType: models.SplitTypeExact, ExactAmount: pdec("20.00")},
			},
			// Equal shares divide by the EQUAL count (2), not the full set.
			want: map[string]string{"a": "30.00", "b": "30.00", "c": "20.00"},
		},
		{
			name:  "adjusted uses equal formula",
			price: "30.00",
			shares: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypeEqual},
				{PersonID: "b", SplitType: models.SplitTypeEqual},
				{PersonID: "c", SplitType: models.SplitTypeAdjusted},
			},
			// ADJUSTED divides by the EQUAL count without joining it.
			want: map[string]string{"a": "15.00", "b": "15.00", "c": "15.00"},
		},
		{
			name:  "uneven equal split uses banker's rounding",
			price: "10.00",
			shares: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypeEqual},
				{PersonID: "b", SplitType: models.SplitTypeEqual},
				{PersonID: "c", SplitType: models.SplitTypeEqual},
			},
			want: map[string]string{"a": "3.33", "b": "3.33", "c": "3.33"},
		},
		{
			name:  "exact with missing amount yields zero",
			price: "10.00",
			shares: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypeExact},
			},
			want: map[string]string{"a": "0"},
		},
		{
			name:  "shares with zero total units yields zero",
			price: "10.00",
			shares: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypeShares},
			},
			want: map[string]string{"a": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := dec(tt.price)
			for _, share := range tt.shares {
				got := ComputeShare(price, share, tt.shares)
				want := dec(tt.want[share.PersonID])
				if !got.Equal(want) {
					t.Errorf("ComputeShare(%s) for %s = %s, want %s",
						tt.price, share.PersonID, got, want)
				}
			}
		})
	}
}

func TestComputeShareSumsToPrice(t *testing.T) {
	// When all shares are EQUAL and the price divides evenly, the shares
	// must sum exactly to the item price.
	price := dec("30.00")
	shares := []models.ItemShare{
		{PersonID: "a", SplitType: models.SplitTypeEqual},
		{PersonID: "b", SplitType: models.SplitTypeEqual},
		{PersonID: "c", SplitType: models.SplitTypeEqual},
	}

	sum := decimal.Zero
	for _, share := range shares {
		sum = sum.Add(ComputeShare(price, share, shares))
	}
	if !sum.Equal(price) {
		t.Errorf("sum of equal shares = %s, want %s", sum, price)
	}
}

func TestComputePersonTotals(t *testing.T) {
	items := []models.Item{
		{
			Price: dec("20.00"),
			Shares: []models.ItemShare{
				{PersonID: "alice", SplitType: models.SplitTypeEqual},
				{PersonID: "bob", SplitType: models.SplitTypeEqual},
			},
		},
		{
			Price: dec("10.00"),
			Shares: []models.ItemShare{
				{PersonID: "alice", SplitType: models.SplitTypeExact, ExactAmount: pdec("10.00")},
			},
		},
	}

	totals := ComputePersonTotals(items)

	if got, want := totals["alice"], dec("20.00"); !got.Equal(want) {
		t.Errorf("alice total = %s, want %s", got, want)
	}
	if got, want := totals["bob"], dec("10.00"); !got.Equal(want) {
		t.Errorf("bob total = %s, want %s", got, want)
	}
}
