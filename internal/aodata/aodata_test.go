package aodata

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestChartEntryUnmarshal(t *testing.T) {
	payload := `[{
		"item_id": "T4_BAG",
		"quality": 2,
		"location": "Martlock",
		"data": {
			"prices_avg": [100.5, 110.25],
			"timestamps": ["2025-01-01T00:00:00", "2025-01-01T06:00:00"]
		}
	}]`

	var entries []ChartEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	e := entries[0]
	if e.ItemID != "T4_BAG" || e.Quality != 2 || e.Location != "Martlock" {
		t.Errorf("entry = %+v", e)
	}
	if len(e.Data.PricesAvg) != 2 || e.Data.PricesAvg[1] != 110.25 {
		t.Errorf("prices = %v", e.Data.PricesAvg)
	}
}

func TestHistoryEntryUnmarshal(t *testing.T) {
	payload := `[{
		"item_id": "T4_BAG",
		"quality": 1,
		"location": "Lymhurst",
		"data": [{"item_count": 42, "avg_price": 95.5, "timestamp": "2025-01-01T00:00:00"}]
	}]`

	var entries []HistoryEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p := entries[0].Data[0]
	if p.ItemCount != 42 || p.AvgPrice != 95.5 {
		t.Errorf("point = %+v", p)
	}
}

func TestChunkStrings(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	chunks := chunkStrings(ids, 2)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if len(chunks[2]) != 1 || chunks[2][0] != "e" {
		t.Errorf("last chunk = %v", chunks[2])
	}
	if got := chunkStrings(nil, 2); got != nil {
		t.Errorf("empty input gave %v", got)
	}
}

func TestTradeableFilter(t *testing.T) {
	keep := []string{"T4_BAG", "T5_2H_CLAYMORE", "T7_HEAD_PLATE1"}
	drop := []string{"T1_BAG", "T2_TOOL_PICK", "T8_BAG", "T4_SKIN_DIREWOLF", "QUESTITEM_TOKEN", "T3_FARM_CARROT_SEED"}

	for _, id := range keep {
		if !tradeable(id) {
			t.Errorf("%s should be tradeable", id)
		}
	}
	for _, id := range drop {
		if tradeable(id) {
			t.Errorf("%s should be excluded", id)
		}
	}
}

func TestBuildCatalog(t *testing.T) {
	items := []Item{
		{UniqueName: "T4_BAG", LocalizedNames: map[string]string{"EN-US": "Adept's Bag"}, ShopCategory: "accessories"},
		{UniqueName: "T5_MOUNT_HORSE", LocalizationNameVariable: "@MOUNT_HORSE"},
		{UniqueName: ""},
	}
	cat := BuildCatalog(items)

	if got := cat.DisplayName("T4_BAG"); got != "Adept's Bag" {
		t.Errorf("name = %q", got)
	}
	if got := cat.DisplayName("T5_MOUNT_HORSE"); got != "@MOUNT_HORSE" {
		t.Errorf("variable fallback = %q", got)
	}
	if got := cat.DisplayName("T6_NOPE"); got != "T6_NOPE" {
		t.Errorf("unknown id fallback = %q", got)
	}
	if got := cat.CategoryOf("T5_MOUNT_HORSE"); got != "Uncategorized" {
		t.Errorf("category fallback = %q", got)
	}
	if len(cat.Names) != 2 {
		t.Errorf("unnamed item not skipped: %v", cat.Names)
	}
}

func TestFilterByCategory(t *testing.T) {
	cat := BuildCatalog([]Item{
		{UniqueName: "T4_BAG", ShopCategory: "accessories"},
		{UniqueName: "T4_2H_BOW", ShopCategory: "weapons"},
	})
	ids := []string{"T4_BAG", "T4_2H_BOW"}

	if got := cat.FilterByCategory(ids, "All"); len(got) != 2 {
		t.Errorf("All filter dropped ids: %v", got)
	}
	got := cat.FilterByCategory(ids, "weapons")
	if len(got) != 1 || got[0] != "T4_2H_BOW" {
		t.Errorf("weapons filter = %v", got)
	}
}

func TestFetchChartsRetriesRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if got := r.URL.Query().Get("locations"); got != "Martlock,Lymhurst" {
			t.Errorf("locations = %q", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/T4_BAG.json") {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[{"item_id":"T4_BAG","quality":1,"location":"Martlock","data":{"prices_avg":[100],"timestamps":["2025-01-01T00:00:00"]}}]`))
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURLs(srv.URL+"/items", srv.URL, srv.URL),
		WithRetryDelay(0),
		WithMaxRetries(3),
	)
	params := FetchParams{
		Locations: []string{"Martlock", "Lymhurst"},
		DateFrom:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:    time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		TimeScale: 6,
	}

	entries, err := c.FetchCharts([]string{"T4_BAG"}, params, nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want retry after 429", calls)
	}
	if len(entries) != 1 || entries[0].ItemID != "T4_BAG" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestFetchChartsGivesUpAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs(srv.URL, srv.URL, srv.URL), WithRetryDelay(0), WithMaxRetries(2))
	_, err := c.FetchCharts([]string{"T4_BAG"}, FetchParams{TimeScale: 6}, nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestFetchChartsChunksRequests(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs(srv.URL, srv.URL, srv.URL), WithChunkSize(2), WithRetryDelay(0), WithMaxRetries(1))
	_, err := c.FetchCharts([]string{"a", "b", "c"}, FetchParams{TimeScale: 6}, nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d requests, want 2", len(paths))
	}
	if paths[0] != "/a,b.json" || paths[1] != "/c.json" {
		t.Errorf("paths = %v", paths)
	}
}

func TestFetchItemsCached(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"UniqueName":"T4_BAG","LocalizedNames":{"EN-US":"Adept's Bag"}}]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURLs(srv.URL, srv.URL, srv.URL))
	for i := 0; i < 3; i++ {
		cat, err := c.FetchItems()
		if err != nil {
			t.Fatalf("fetch items: %v", err)
		}
		if cat.DisplayName("T4_BAG") != "Adept's Bag" {
			t.Errorf("catalog = %v", cat.Names)
		}
	}
	if calls != 1 {
		t.Errorf("calls = %d, want catalog served from cache", calls)
	}
}

func TestAPIDateFormat(t *testing.T) {
	ts := time.Date(2025, 1, 15, 9, 30, 45, 0, time.UTC)
	if got := apiDate(ts); got != "2025-01-15T09:30" {
		t.Errorf("apiDate = %q", got)
	}
}
