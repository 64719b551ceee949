package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cryptotax/price-exporter/align"
)

// CSVHeader is the stable column set of the exported report
var CSVHeader = []string{"date", "usd_price", "eur_usd_rate", "eur_price"}

// CSV serializes the rows in calendar order: a header line, then one
// line per calendar date with absent values rendered as empty fields.
func CSV(rows []align.Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(CSVHeader); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.Date.String(),
			formatDecimal(row.USDPrice),
			formatDecimal(row.Rate),
			formatDecimal(row.EURPrice),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// Filename names the CSV download after the request, e.g.
// prices_0xdac1_ethereum_2023.csv
func Filename(params Params) string {
	address := params.TokenAddress
	if len(address) > 6 {
		address = address[:6]
	}
	chain := strings.ReplaceAll(strings.ToLower(params.Chain), " ", "-")
	return fmt.Sprintf("prices_%s_%s_%d.csv", address, chain, params.Year)
}
