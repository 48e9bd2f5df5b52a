// Package report renders strategy selections as CSV, Markdown and JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/meenmo/cblib/strategy"
	"github.com/meenmo/cblib/utils"
)

// Selection is one strategy's ranked output.
type Selection struct {
	Kind strategy.Kind
	Rows []strategy.Row
}

// Report is a full run: the screened market cross-section plus each
// strategy's selection.
type Report struct {
	Date       time.Time
	Market     []strategy.Row
	Selections []Selection
	Decimals   int
}

func (r Report) round(v float64) float64 {
	if r.Decimals <= 0 {
		return v
	}
	return utils.RoundTo(v, uint32(r.Decimals))
}

var csvHeader = []string{
	"strategy", "rank", "code", "name", "stock", "rating",
	"price", "conversion_value", "premium_rate", "ytm", "double_low",
	"bond_floor", "fair_value", "mispricing", "score",
}

// WriteCSV writes every selection into one flat table, strategy and rank
// leading.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, sel := range r.Selections {
		for i, row := range sel.Rows {
			rec := []string{
				sel.Kind.String(),
				strconv.Itoa(i + 1),
				row.Code,
				row.Name,
				row.StockName,
				row.Rating,
				r.fmtF(row.Price),
				r.fmtF(row.ConversionValue),
				r.fmtF(row.PremiumRate),
				r.fmtF(row.YTM),
				r.fmtF(row.DoubleLow),
				r.fmtF(row.BondFloor),
				r.fmtF(row.FairValue),
				r.fmtF(row.Mispricing),
				r.fmtF(row.Score),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r Report) fmtF(v float64) string {
	return strconv.FormatFloat(r.round(v), 'f', -1, 64)
}

// WriteMarkdown renders a market overview followed by one section per
// strategy.
func (r Report) WriteMarkdown(w io.Writer) error {
	date := r.Date
	if date.IsZero() {
		date = time.Now()
	}
	if _, err := fmt.Fprintf(w, "# Convertible Bond Selection %s\n\n", date.Format("2006-01-02")); err != nil {
		return err
	}

	if err := r.writeOverview(w); err != nil {
		return err
	}

	for _, sel := range r.Selections {
		if _, err := fmt.Fprintf(w, "## %s (%d)\n\n", sel.Kind.Title(), len(sel.Rows)); err != nil {
			return err
		}
		if len(sel.Rows) == 0 {
			if _, err := fmt.Fprint(w, "No bonds matched.\n\n"); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(w, "| # | Code | Name | Price | Premium % | YTM % | Double Low | Score |")
		fmt.Fprintln(w, "|---|------|------|-------|-----------|-------|------------|-------|")
		for i, row := range sel.Rows {
			fmt.Fprintf(w, "| %d | %s | %s | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
				i+1, row.Code, row.Name,
				r.round(row.Price), r.round(row.PremiumRate), r.round(row.YTM),
				r.round(row.DoubleLow), r.round(row.Score))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (r Report) writeOverview(w io.Writer) error {
	n := len(r.Market)
	if n == 0 {
		_, err := fmt.Fprint(w, "No market data.\n\n")
		return err
	}
	var price, premium float64
	below100, negPremium := 0, 0
	for _, row := range r.Market {
		price += row.Price
		premium += row.PremiumRate
		if row.Price < 100 {
			below100++
		}
		if row.PremiumRate < 0 {
			negPremium++
		}
	}
	median := medianPrice(r.Market)
	_, err := fmt.Fprintf(w,
		"Universe: %d bonds. Average price %.2f, median %.2f, average premium %.2f%%.\n"+
			"%d below par, %d at negative premium.\n\n",
		n, price/float64(n), median, premium/float64(n), below100, negPremium)
	return err
}

func medianPrice(rows []strategy.Row) float64 {
	xs := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.Price
	}
	sort.Float64s(xs)
	n := len(xs)
	if n%2 == 1 {
		return xs[n/2]
	}
	return (xs[n/2-1] + xs[n/2]) / 2
}

// jsonRow is the export shape; rates stay in percent as in the rows.
type jsonRow struct {
	Rank        int     `json:"rank"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PremiumRate float64 `json:"premium_rate"`
	YTM         float64 `json:"ytm"`
	DoubleLow   float64 `json:"double_low"`
	FairValue   float64 `json:"fair_value,omitempty"`
	Mispricing  float64 `json:"mispricing,omitempty"`
	Score       float64 `json:"score"`
}

// WriteJSON exports the selections keyed by strategy name.
func (r Report) WriteJSON(w io.Writer) error {
	out := make(map[string][]jsonRow, len(r.Selections))
	for _, sel := range r.Selections {
		rows := make([]jsonRow, len(sel.Rows))
		for i, row := range sel.Rows {
			rows[i] = jsonRow{
				Rank:        i + 1,
				Code:        row.Code,
				Name:        row.Name,
				Price:       r.round(row.Price),
				PremiumRate: r.round(row.PremiumRate),
				YTM:         r.round(row.YTM),
				DoubleLow:   r.round(row.DoubleLow),
				FairValue:   r.round(row.FairValue),
				Mispricing:  r.round(row.Mispricing),
				Score:       r.round(row.Score),
			}
		}
		out[sel.Kind.String()] = rows
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
