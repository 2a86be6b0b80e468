package calculator

import (
	"errors"
	"strings"
	"testing"

	"github.com/billsplit/billsplit/internal/models"
)

func TestValidateShare(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		share     models.ItemShare
		siblings  []models.ItemShare
		wantField string
		wantMsg   string
	}{
		{
			name:  "percentage within bounds",
			price: "50.00",
			share: models.ItemShare{PersonID: "b", SplitType: models.SplitTypePercentage, Percentage: pdec("40")},
			siblings: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypePercentage, Percentage: pdec("60")},
			},
		},
		{
			name:  "percentage total exceeds 100",
			price: "50.00",
			share: models.ItemShare{PersonID: "b", SplitType: models.SplitTypePercentage, Percentage: pdec("40")},
			siblings: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypePercentage, Percentage: pdec("70")},
			},
			wantField: "percentage",
			wantMsg:   "total percentage (110%) exceeds 100%",
		},
		{
			name:      "percentage missing",
			price:     "50.00",
			share:     models.ItemShare{PersonID: "a", SplitType: models.SplitTypePercentage},
			wantField: "percentage",
			wantMsg:   "required",
		},
		{
			name:      "percentage out of range",
			price:     "50.00",
			share:     models.ItemShare{PersonID: "a", SplitType: models.SplitTypePercentage, Percentage: pdec("150")},
			wantField: "percentage",
			wantMsg:   "between 0 and 100",
		},
		{
			name:  "exact total exceeds price",
			price: "20.00",
			share: models.ItemShare{PersonID: "b", SplitType: models.SplitTypeExact, ExactAmount: pdec("15.00")},
			siblings: []models.ItemShare{
				{PersonID: "a", SplitType: models.SplitTypeExact, ExactAmount: pdec("10.00")},
			},
			wantField: "exact_amount",
			wantMsg:   "exceeds item price",
		},
		{
			name:      "exact negative",
			price:     "20.00",
			share:     models.ItemShare{PersonID: "a", SplitType: models.SplitTypeExact, ExactAmount: pdec("-1.00")},
			wantField: "exact_amount",
			wantMsg:   "negative",
		},
		{
			name:      "shares missing units",
			price:     "20.00",
			share:     models.ItemShare{PersonID: "a", SplitType: models.SplitTypeShares},
			wantField: "share_units",
			wantMsg:   "required",
		},
		{
			name:      "shares non-positive units",
			price:     "20.00",
			share:     models.ItemShare{PersonID: "a", SplitType: models.SplitTypeShares, ShareUnits: punits(0)},
			wantField: "share_units",
			wantMsg:   "positive",
		},
		{
			name:  "equal needs no numeric fields",
			price: "20.00",
			share: models.ItemShare{PersonID: "a", SplitType: models.SplitTypeEqual},
		},
		{
			name:  "adjusted needs no numeric fields",
			price: "20.00",
			share: models.ItemShare{PersonID: "a", SplitType: models.SplitTypeAdjusted},
		},
		{
			name:      "unknown split type",
			price:     "20.00",
			share:     models.ItemShare{PersonID: "a", SplitType: "HALVSIES"},
			wantField: "split_type",
			wantMsg:   "unknown split type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShare(dec(tt.price), tt.share, tt.siblings)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateShare() unexpected error: %v", err)
				}
				return
			}
			var shareErr *ShareError
			if !errors.As(err, &shareErr) {
				t.Fatalf("ValidateShare() error = %v, want *ShareError", err)
			}
			if shareErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", shareErr.Field, tt.wantField)
			}
			if !strings.Contains(shareErr.Message, tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", shareErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestValidateItemShares(t *testing.T) {
	t.Run("duplicate person rejected", func(t *testing.T) {
		shares := []models.ItemShare{
			{PersonID: "a", SplitType: models.SplitTypeEqual},
			{PersonID: "a", SplitType: models.SplitTypeEqual},
		}
		idx, err := ValidateItemShares(dec("10.00"), shares)
		if err == nil {
			t.Fatal("expected error for duplicate person")
		}
		if idx != 1 {
			t.Errorf("offending index = %d, want 1", idx)
		}
	})

	t.Run("valid batch passes", func(t *testing.T) {
		shares := []models.ItemShare{
			{PersonID: "a", SplitType: models.SplitTypePercentage, Percentage: pdec("60")},
			{PersonID: "b", SplitType: models.SplitTypePercentage, Percentage: pdec("40")},
		}
		idx, err := ValidateItemShares(dec("50.00"), shares)
		if err != nil {
			t.Fatalf("ValidateItemShares() unexpected error: %v", err)
		}
		if idx != -1 {
			t.Errorf("index = %d, want -1", idx)
		}
	})

	t.Run("batch percentage overflow names the offender", func(t *testing.T) {
		shares := []models.ItemShare{
			{PersonID: "a", SplitType: models.SplitTypePercentage, Percentage: pdec("70")},
			{PersonID: "b", SplitType: models.SplitTypePercentage, Percentage: pdec("40")},
		}
		idx, err := ValidateItemShares(dec("50.00"), shares)
		if err == nil {
			t.Fatal("expected error for 110% total")
		}
		if idx != 1 {
			t.Errorf("offending index = %d, want 1", idx)
		}
		if !strings.Contains(err.Error(), "110") {
			t.Errorf("error %q should name the offending total", err)
		}
	})
}
