package aodata

import "encoding/json"

// HistoryEntry is one item/quality/location sell-through series from the
// History endpoint. Points are ordered chronologically.
type HistoryEntry struct {
	ItemID   string         `json:"item_id"`
	Quality  int            `json:"quality"`
	Location string         `json:"location"`
	Data     []HistoryPoint `json:"data"`
}

// HistoryPoint is a single aggregated trade window.
type HistoryPoint struct {
	ItemCount int64   `json:"item_count"`
	AvgPrice  float64 `json:"avg_price"`
	Timestamp string  `json:"timestamp"`
}

// FetchHistory downloads history data for the given item ids in chunks,
// with the same retry contract as FetchCharts.
func (c *Client) FetchHistory(itemIDs []string, p FetchParams, progress func(string)) ([]HistoryEntry, error) {
	var all []HistoryEntry
	err := c.fetchChunks("History", c.historyURL, itemIDs, p, progress, func(body []byte) error {
		var batch []HistoryEntry
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
