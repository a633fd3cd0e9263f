package reasoning

import (
	"reflect"
	"strings"
	"testing"

	"github.com/foliolab/folio/internal/models"
)

func balancedMarket() *models.MarketSummary {
	return &models.MarketSummary{
		Sentiment:      models.SentimentNeutral,
		Risk:           models.RiskMedium,
		Recommendation: models.StanceBalanced,
		SectorAnalysis: map[string]models.SectorStats{
			"US Large Cap": {Performance: 0.5, Sentiment: models.SectorNeutral},
		},
	}
}

func TestExplain_FragmentCount(t *testing.T) {
	quote := &models.Quote{Symbol: "VTI", Price: 250, ChangePct: 1}

	// Category with sector stats: five fragments.
	reasons := Explain("VTI", models.CategoryStocksUS, balancedMarket(), quote, models.ActionBuy)
	if len(reasons) != 5 {
		t.Errorf("expected 5 fragments with sector stats, got %d: %v", len(reasons), reasons)
	}

	// Category without sector stats: four fragments.
	reasons = Explain("VNQ", models.CategoryRealEstate, balancedMarket(), quote, models.ActionBuy)
	if len(reasons) != 4 {
		t.Errorf("expected 4 fragments without sector stats, got %d: %v", len(reasons), reasons)
	}
}

func TestExplain_Deterministic(t *testing.T) {
	quote := &models.Quote{Symbol: "VTI", Price: 250, ChangePct: -2.5, DividendYieldPct: 1.4}

	first := Explain("VTI", models.CategoryStocksUS, balancedMarket(), quote, models.ActionBuy)
	second := Explain("VTI", models.CategoryStocksUS, balancedMarket(), quote, models.ActionBuy)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different reasons:\n%v\n%v", first, second)
	}
}

func TestExplain_BuyMomentumLadder(t *testing.T) {
	tests := []struct {
		change float64
		want   string
	}{
		{3, "Strong price momentum"},
		{-3, "Price weakness"},
		{1, "Stable price action"},
	}

	for _, tt := range tests {
		quote := &models.Quote{Symbol: "VNQ", Price: 90, ChangePct: tt.change}
		reasons := Explain("VNQ", models.CategoryRealEstate, balancedMarket(), quote, models.ActionBuy)
		if !strings.Contains(reasons[0], tt.want) {
			t.Errorf("change %.1f: expected momentum fragment %q, got %q", tt.change, tt.want, reasons[0])
		}
	}
}

func TestExplain_SellMomentumThresholdsAreAsymmetric(t *testing.T) {
	market := balancedMarket()

	// +4% is strong momentum on a buy but only moderate action on a sell.
	quote := &models.Quote{Symbol: "VNQ", Price: 90, ChangePct: 4}

	buy := Explain("VNQ", models.CategoryRealEstate, market, quote, models.ActionBuy)
	if !strings.Contains(buy[0], "Strong price momentum") {
		t.Errorf("buy momentum fragment = %q", buy[0])
	}

	sell := Explain("VNQ", models.CategoryRealEstate, market, quote, models.ActionSell)
	if !strings.Contains(sell[0], "Moderate price action") {
		t.Errorf("sell momentum fragment = %q", sell[0])
	}
}

func TestExplain_SellValuationLadder(t *testing.T) {
	tests := []struct {
		name  string
		quote *models.Quote
		want  string
	}{
		{
			name:  "high PE reads overvalued",
			quote: &models.Quote{Price: 90, PERatio: 35, PEKnown: true},
			want:  "Overvalued (PE 35.0) - profit taking",
		},
		{
			name:  "low PE reads strategic exit",
			quote: &models.Quote{Price: 90, PERatio: 8, PEKnown: true},
			want:  "Undervalued but poor fundamentals (PE 8.0) - strategic exit",
		},
		{
			name:  "middling PE reads fair",
			quote: &models.Quote{Price: 90, PERatio: 20, PEKnown: true},
			want:  "Fair valuation (PE 20.0) - rebalancing decision",
		},
		{
			name:  "unknown PE still emits a fragment",
			quote: &models.Quote{Price: 90},
			want:  "Valuation unavailable - rebalancing decision",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasons := Explain("VNQ", models.CategoryRealEstate, balancedMarket(), tt.quote, models.ActionSell)

			found := false
			for _, r := range reasons {
				if r == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("expected fragment %q in %v", tt.want, reasons)
			}
		})
	}
}

func TestExplain_BuyUsesDividendNotValuation(t *testing.T) {
	quote := &models.Quote{Symbol: "VTI", Price: 250, DividendYieldPct: 3.5, PERatio: 35, PEKnown: true}

	reasons := Explain("VNQ", models.CategoryRealEstate, balancedMarket(), quote, models.ActionBuy)

	joined := strings.Join(reasons, " | ")
	if !strings.Contains(joined, "Attractive dividend yield") {
		t.Errorf("expected dividend fragment, got %v", reasons)
	}
	if strings.Contains(joined, "PE") {
		t.Errorf("buy reasons should not mention valuation, got %v", reasons)
	}
}

func TestExplain_RiskFragmentPerAction(t *testing.T) {
	market := balancedMarket()
	market.Risk = models.RiskHigh
	quote := &models.Quote{Symbol: "VNQ", Price: 90}

	sell := Explain("VNQ", models.CategoryRealEstate, market, quote, models.ActionSell)
	if sell[len(sell)-1] != "High volatility environment - reducing risk exposure" {
		t.Errorf("sell risk fragment = %q", sell[len(sell)-1])
	}

	buy := Explain("VNQ", models.CategoryRealEstate, market, quote, models.ActionBuy)
	if buy[len(buy)-1] != "High volatility detected - cautious positioning" {
		t.Errorf("buy risk fragment = %q", buy[len(buy)-1])
	}
}
