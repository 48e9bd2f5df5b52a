package eastmoney

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/cblib/marketdata"
)

// quoteFields is the push2 field list for the comparison table. The feed
// keys columns by opaque f-codes; the mapping used here:
//
//	f12 bond code      f14 bond name      f13 market flag
//	f2  bond price     f124 quote time    f243 bond YTM (unused, sort key)
//	f232 conversion price   f233 conversion value   f234 premium rate
//	f229 stock price   f223 stock code    f224 stock name
//	f236 put trigger price  f237 call trigger price f238 maturity redemption
//	f242 outstanding (1e8 CNY)            f6 traded amount (CNY)
const quoteFields = "f1,f2,f6,f12,f13,f14,f124,f223,f224,f229,f232,f233,f234,f236,f237,f238,f242,f243"

// nullDecimal decodes a decimal field that the feed reports as "-" or null
// when the column has no value for the row.
type nullDecimal struct {
	decimal.Decimal
	Valid bool
}

func (n *nullDecimal) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `"-"` || s == `""` {
		n.Valid = false
		n.Decimal = decimal.Zero
		return nil
	}
	if err := n.Decimal.UnmarshalJSON(b); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

type quoteResponse struct {
	RC   int `json:"rc"`
	Data struct {
		Total int        `json:"total"`
		Diff  []quoteRow `json:"diff"`
	} `json:"data"`
}

type quoteRow struct {
	Code            string      `json:"f12"`
	Name            string      `json:"f14"`
	Price           nullDecimal `json:"f2"`
	Amount          nullDecimal `json:"f6"`
	StockCode       string      `json:"f223"`
	StockName       string      `json:"f224"`
	StockPrice      nullDecimal `json:"f229"`
	ConversionPrice nullDecimal `json:"f232"`
	PutTriggerPx    nullDecimal `json:"f236"`
	CallTriggerPx   nullDecimal `json:"f237"`
	RedemptionPrice nullDecimal `json:"f238"`
	Outstanding     nullDecimal `json:"f242"`
}

func (q quoteRow) toRecord(obs time.Time) marketdata.BondRecord {
	rec := marketdata.BondRecord{
		Code:            q.Code,
		Name:            q.Name,
		StockCode:       q.StockCode,
		StockName:       q.StockName,
		Price:           q.Price.Decimal,
		StockPrice:      q.StockPrice.Decimal,
		ConversionPrice: q.ConversionPrice.Decimal,
		RedemptionPrice: q.RedemptionPrice.Decimal,
		Outstanding:     q.Outstanding.Decimal,
		ObservationDate: obs,
	}
	if q.Amount.Valid {
		// Traded amount arrives in CNY, records carry 1e4 CNY.
		rec.Volume = q.Amount.Div(decimal.NewFromInt(10000))
	}
	return rec
}

type redeemResponse struct {
	Rows []struct {
		ID   string    `json:"id"`
		Cell redeemRow `json:"cell"`
	} `json:"rows"`
}

type redeemRow struct {
	Code         string      `json:"bond_id"`
	MaturityDate string      `json:"maturity_dt"`
	Rating       string      `json:"rating_cd"`
	Outstanding  nullDecimal `json:"curr_iss_amt"`
	RedeemStatus string      `json:"redeem_flag"`
	RedeemPrice  nullDecimal `json:"redeem_price"`
}

// mergeRedeem fills maturity, rating, outstanding size and redemption
// status from the redemption list into the quote records, matched by code.
func mergeRedeem(records []marketdata.BondRecord, rows []redeemRow) {
	byCode := make(map[string]redeemRow, len(rows))
	for _, r := range rows {
		byCode[r.Code] = r
	}
	for i := range records {
		r, ok := byCode[records[i].Code]
		if !ok {
			continue
		}
		if d, err := time.Parse("2006-01-02", r.MaturityDate); err == nil {
			records[i].MaturityDate = d
		}
		if records[i].Rating == "" {
			records[i].Rating = r.Rating
		}
		if records[i].Outstanding.IsZero() && r.Outstanding.Valid {
			records[i].Outstanding = r.Outstanding.Decimal
		}
		if r.RedeemStatus == "X" || r.RedeemStatus == "Y" {
			records[i].RedeemStatus = r.RedeemStatus
		}
	}
}

// decodeQuoteBody is exposed for tests exercising the feed layout without
// a live endpoint.
func decodeQuoteBody(body []byte) ([]quoteRow, error) {
	var resp quoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Diff, nil
}
