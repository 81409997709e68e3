package model

// KPIs are aggregate figures over sale-type POS records. Fields whose source
// columns are missing from the upload stay at their zero value.
type KPIs struct {
	Transactions        int     `json:"transactions"`
	NetSales            float64 `json:"net_sales"`
	GrossSales          float64 `json:"gross_sales"`
	DiscountDiff        float64 `json:"discount_diff"`
	Tax                 float64 `json:"tax"`
	Tip                 float64 `json:"tip"`
	Fees                float64 `json:"fees"`
	NetTotal            float64 `json:"net_total"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	TipPctOfCollected   float64 `json:"tip_pct_of_collected"`
}

// TopItem is one (item, size, category) sales group.
type TopItem struct {
	Item     string  `json:"item"`
	Size     string  `json:"size"`
	Category string  `json:"category"`
	Count    int     `json:"count"`
	NetSales float64 `json:"net_sales"`
}

// GapRecord scores one menu keyword: how often competitors' reviews mention
// it relative to how often the shop itself sells it.
type GapRecord struct {
	Keyword     string  `json:"keyword"`
	YourSales   float64 `json:"your_sales"`
	PeerSignal  float64 `json:"peer_signal"`
	Opportunity float64 `json:"opportunity"`
}

// PriceBands is the suggested price range derived from competitor price tiers.
type PriceBands struct {
	Tier      int    `json:"tier"`
	Suggested string `json:"suggested"`
	Levels    []int  `json:"levels"`
}

// Report is the combined benchmark view. Computed fresh on every request.
type Report struct {
	KPIs           KPIs         `json:"kpis"`
	Competitors    []Competitor `json:"competitors"`
	TopItems       []TopItem    `json:"top_items"`
	PopularityGaps []GapRecord  `json:"popularity_gaps"`
	PriceBands     PriceBands   `json:"price_bands"`
}
