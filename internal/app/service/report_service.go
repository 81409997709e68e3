package service

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/brewbot/brewbot-backend/internal/app/model"
	"github.com/brewbot/brewbot-backend/internal/app/store"
)

var (
	ErrNoPOSData        = errors.New("no POS data loaded yet")
	ErrNoCompetitorData = errors.New("no competitor data available yet")
)

// menuKeywords is the fixed vocabulary scanned for in competitor reviews.
var menuKeywords = []string{
	"americano",
	"latte",
	"cappuccino",
	"cold brew",
	"matcha",
	"chai",
	"mocha",
	"espresso",
	"oat milk",
	"pumpkin spice",
	"refresher",
	"tea",
	"macchiato",
	"flat white",
	"drip",
}

// priceBandTable maps a rounded competitor price tier to a display range.
var priceBandTable = map[int]string{
	1: "$3.50–$4.50",
	2: "$4.50–$6.50",
	3: "$6.50–$8.50",
}

const (
	topItemLimit = 25
	gapLimit     = 20
)

// ReportService combines the POS dataset with the competitor list into a
// single benchmark report.
type ReportService struct {
	posStore        *store.POSStore
	competitorStore *store.CompetitorStore
}

func NewReportService(posStore *store.POSStore, competitorStore *store.CompetitorStore) *ReportService {
	return &ReportService{
		posStore:        posStore,
		competitorStore: competitorStore,
	}
}

// BuildReport computes the report from the current store contents. Both
// stores must be populated; a missing prerequisite is an error, not an empty
// report.
func (s *ReportService) BuildReport() (*model.Report, error) {
	dataset := s.posStore.Get()
	if dataset == nil {
		return nil, ErrNoPOSData
	}

	competitors := s.competitorStore.Get()
	if len(competitors) == 0 {
		return nil, ErrNoCompetitorData
	}

	sales := filterSales(dataset)

	return &model.Report{
		KPIs:           computeKPIs(dataset, sales),
		Competitors:    competitors,
		TopItems:       computeTopItems(dataset, sales),
		PopularityGaps: computePopularityGaps(dataset, sales, competitors),
		PriceBands:     computePriceBands(competitors),
	}, nil
}

// filterSales returns the rows whose transaction type is "sale",
// case-insensitively. Without a Type column nothing qualifies.
func filterSales(dataset *model.Dataset) []model.Row {
	typeCol := dataset.ResolveColumn("Type")
	if typeCol == "" {
		return nil
	}

	var sales []model.Row
	for _, row := range dataset.Rows {
		if strings.EqualFold(strings.TrimSpace(row.String(typeCol)), "sale") {
			sales = append(sales, row)
		}
	}
	return sales
}

// computeKPIs aggregates the sale rows. Each figure depends on its source
// column; a missing column just leaves that figure at zero.
func computeKPIs(dataset *model.Dataset, sales []model.Row) model.KPIs {
	netCol := dataset.ResolveColumn("Net Sales")
	grossCol := dataset.ResolveColumn("Gross Sales")
	taxCol := dataset.ResolveColumn("Tax")
	tipCol := dataset.ResolveColumn("Tip")
	feesCol := dataset.ResolveColumn("Fees")
	netTotalCol := dataset.ResolveColumn("Net Total")
	collectedCol := dataset.ResolveColumn("Total Collected")
	txIDCol := dataset.ResolveColumn("Transaction ID")

	kpis := model.KPIs{Transactions: len(sales)}

	var totalCollected float64
	perTransaction := make(map[string]float64)

	for _, row := range sales {
		if v, ok := row.Number(netCol); ok {
			kpis.NetSales += v
			if txIDCol != "" {
				perTransaction[row.String(txIDCol)] += v
			}
		}
		if v, ok := row.Number(grossCol); ok {
			kpis.GrossSales += v
		}
		if v, ok := row.Number(taxCol); ok {
			kpis.Tax += v
		}
		if v, ok := row.Number(tipCol); ok {
			kpis.Tip += v
		}
		if v, ok := row.Number(feesCol); ok {
			kpis.Fees += v
		}
		if v, ok := row.Number(netTotalCol); ok {
			kpis.NetTotal += v
		}
		if v, ok := row.Number(collectedCol); ok {
			totalCollected += v
		}
	}

	if grossCol != "" && netCol != "" {
		kpis.DiscountDiff = kpis.GrossSales - kpis.NetSales
	}
	if len(perTransaction) > 0 {
		var sum float64
		for _, v := range perTransaction {
			sum += v
		}
		kpis.AvgTransactionValue = sum / float64(len(perTransaction))
	}
	if totalCollected != 0 {
		kpis.TipPctOfCollected = kpis.Tip / totalCollected * 100
	}

	return kpis
}

// computeTopItems groups sale rows by (item, size, category) and returns the
// 25 busiest groups, ordered by transaction count then total net sales.
func computeTopItems(dataset *model.Dataset, sales []model.Row) []model.TopItem {
	itemCol := dataset.ResolveColumn("Item Name")
	sizeCol := dataset.ResolveColumn("Size")
	catCol := dataset.ResolveColumn("Category")
	netCol := dataset.ResolveColumn("Net Sales")

	if itemCol == "" {
		return nil
	}

	type groupKey struct {
		item, size, category string
	}
	groups := make(map[groupKey]*model.TopItem)

	for _, row := range sales {
		key := groupKey{
			item:     row.String(itemCol),
			size:     row.String(sizeCol),
			category: row.String(catCol),
		}
		g, ok := groups[key]
		if !ok {
			g = &model.TopItem{Item: key.item, Size: key.size, Category: key.category}
			groups[key] = g
		}
		g.Count++
		if v, ok := row.Number(netCol); ok {
			g.NetSales += v
		}
	}

	items := make([]model.TopItem, 0, len(groups))
	for _, g := range groups {
		items = append(items, *g)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		if items[i].NetSales != items[j].NetSales {
			return items[i].NetSales > items[j].NetSales
		}
		return items[i].Item < items[j].Item
	})

	if len(items) > topItemLimit {
		items = items[:topItemLimit]
	}
	return items
}

// normalizeItemName lowercases the name and strips every character that is
// not a lowercase letter or a space.
func normalizeItemName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// countKeyword counts non-overlapping occurrences of keyword in text.
func countKeyword(text, keyword string) int {
	return strings.Count(text, keyword)
}

// computePopularityGaps scores menu keywords by how often competitor reviews
// mention them relative to the shop's own sales volume. Both signals are
// rescaled by their own maximum so the score compares shapes, not magnitudes.
func computePopularityGaps(dataset *model.Dataset, sales []model.Row, competitors []model.Competitor) []model.GapRecord {
	itemCol := dataset.ResolveColumn("Item Name")

	yours := make(map[string]int)
	if itemCol != "" {
		for _, row := range sales {
			name := normalizeItemName(row.String(itemCol))
			if name != "" {
				yours[name]++
			}
		}
	}

	var combined strings.Builder
	for _, comp := range competitors {
		for _, review := range comp.Reviews {
			combined.WriteString(strings.ToLower(review.Text))
			combined.WriteString(" ")
		}
	}
	reviewText := combined.String()

	peers := make(map[string]int, len(menuKeywords))
	for _, keyword := range menuKeywords {
		peers[keyword] = countKeyword(reviewText, keyword)
	}

	maxYours := 1
	for _, count := range yours {
		if count > maxYours {
			maxYours = count
		}
	}
	maxPeers := 1
	for _, count := range peers {
		if count > maxPeers {
			maxPeers = count
		}
	}

	keys := make(map[string]struct{}, len(yours)+len(peers))
	for k := range yours {
		keys[k] = struct{}{}
	}
	for k := range peers {
		keys[k] = struct{}{}
	}

	gaps := make([]model.GapRecord, 0, len(keys))
	for key := range keys {
		yourScore := float64(yours[key]) / float64(maxYours)
		peerScore := float64(peers[key]) / float64(maxPeers)
		gaps = append(gaps, model.GapRecord{
			Keyword:     key,
			YourSales:   yourScore,
			PeerSignal:  peerScore,
			Opportunity: peerScore - yourScore,
		})
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Opportunity != gaps[j].Opportunity {
			return gaps[i].Opportunity > gaps[j].Opportunity
		}
		return gaps[i].Keyword < gaps[j].Keyword
	})

	if len(gaps) > gapLimit {
		gaps = gaps[:gapLimit]
	}
	return gaps
}

// computePriceBands averages the competitors' price tiers (default tier 2
// when none are reported) and maps the rounded tier to a display range.
func computePriceBands(competitors []model.Competitor) model.PriceBands {
	var levels []int
	for _, comp := range competitors {
		if comp.PriceLevel != nil {
			levels = append(levels, *comp.PriceLevel)
		}
	}

	tier := 2
	if len(levels) > 0 {
		var sum int
		for _, level := range levels {
			sum += level
		}
		tier = int(math.Round(float64(sum) / float64(len(levels))))
	}

	suggested, ok := priceBandTable[tier]
	if !ok {
		suggested = priceBandTable[2]
	}

	return model.PriceBands{
		Tier:      tier,
		Suggested: suggested,
		Levels:    levels,
	}
}
