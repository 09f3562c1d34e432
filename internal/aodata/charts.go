package aodata

import "encoding/json"

// ChartEntry is one item/quality/location time series from the Charts endpoint.
type ChartEntry struct {
	ItemID   string      `json:"item_id"`
	Quality  int         `json:"quality"`
	Location string      `json:"location"`
	Data     ChartSeries `json:"data"`
}

// ChartSeries holds the parallel price/timestamp arrays of a chart entry.
type ChartSeries struct {
	PricesAvg  []float64 `json:"prices_avg"`
	Timestamps []string  `json:"timestamps"`
}

// FetchCharts downloads chart data for the given item ids in chunks.
// Rate-limited or failed chunks are retried; progress receives
// human-readable status lines for each step.
func (c *Client) FetchCharts(itemIDs []string, p FetchParams, progress func(string)) ([]ChartEntry, error) {
	var all []ChartEntry
	err := c.fetchChunks("Charts", c.chartsURL, itemIDs, p, progress, func(body []byte) error {
		var batch []ChartEntry
		if err := json.Unmarshal(body, &batch); err != nil {
			return err
		}
		all = append(all, batch...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
