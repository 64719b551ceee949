package align

// ConversionConfig fixes the precision of the report's numeric columns
type ConversionConfig struct {
	// PricePrecision applies to usd_price and eur_price
	PricePrecision int32
	// RatePrecision applies to eur_usd_rate
	RatePrecision int32
}

// Convert computes the EUR price for every row holding both inputs and
// rounds all numeric fields to the configured precision. The rate is
// EUR per 1 USD, so eur = usd * rate. Rounding is half-up (decimal's
// half-away-from-zero; prices and rates are never negative). Rows
// missing an input keep their EUR price absent and are never dropped.
func Convert(rows []Row, cfg ConversionConfig) []Row {
	converted := make([]Row, len(rows))
	for i, row := range rows {
		out := Row{Date: row.Date}

		if row.USDPrice != nil {
			usd := row.USDPrice.Round(cfg.PricePrecision)
			out.USDPrice = &usd
		}
		if row.Rate != nil {
			rate := row.Rate.Round(cfg.RatePrecision)
			out.Rate = &rate
		}
		if row.USDPrice != nil && row.Rate != nil {
			eur := row.USDPrice.Mul(*row.Rate).Round(cfg.PricePrecision)
			out.EURPrice = &eur
		}

		converted[i] = out
	}
	return converted
}
