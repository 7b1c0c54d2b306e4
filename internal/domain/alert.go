package domain

import "time"

// AlertType classifies a derived signal.
type AlertType string

const (
	AlertArbitrage AlertType = "arbitrage"
	AlertValueBet  AlertType = "value_bet"
)

// Alert is a derived cross-bookmaker signal for a football match. Details
// holds one of ArbitrageDetails or ValueBetDetails.
type Alert struct {
	MatchID   int64
	Type      AlertType
	Title     string
	Details   any
	CreatedAt time.Time
}

// ArbitrageLeg is the best odd picked for one outcome, with the bookmaker
// offering it.
type ArbitrageLeg struct {
	Outcome   string  `json:"outcome"`
	Odd       float64 `json:"odd"`
	Bookmaker string  `json:"bookmaker"`
}

// ArbitrageDetails carries the full arbitrage window: the legs and the
// guaranteed profit percentage (1 - sum of inverse best odds) * 100.
type ArbitrageDetails struct {
	ProfitPercentage float64        `json:"profit_percentage"`
	Legs             []ArbitrageLeg `json:"legs"`
}

// ValueBetDetails carries one outlier odd against the market average.
type ValueBetDetails struct {
	Outcome        string  `json:"outcome"`
	Odd            float64 `json:"odd"`
	AverageOdd     float64 `json:"average_odd"`
	EdgePercentage float64 `json:"edge_percentage"`
	Bookmaker      string  `json:"bookmaker"`
}
