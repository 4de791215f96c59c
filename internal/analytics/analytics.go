// Package analytics summarises the recommendation event log.
package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"whattoeat/internal/storage"
)

// DailyStats holds one UTC day of recommendation activity.
type DailyStats struct {
	Date                     string         `json:"date"`
	TotalRecommendations     int            `json:"total_recommendations"`
	AnonymousRecommendations int            `json:"anonymous_recommendations"`
	UniqueSessions           int            `json:"unique_sessions"`
	FoodCounts               map[string]int `json:"food_counts"`
	LocationCounts           map[string]int `json:"location_counts"`
}

type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnalyzeDailyEvents counts the events that fall on targetDate's day.
// Foods are grouped case-insensitively.
func AnalyzeDailyEvents(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:           startOfDay.Format("2006-01-02"),
		FoodCounts:     make(map[string]int),
		LocationCounts: make(map[string]int),
	}
	sessions := make(map[string]struct{})

	for _, ev := range events {
		if ev.Timestamp.Before(startOfDay) || !ev.Timestamp.Before(endOfDay) {
			continue
		}
		if ev.Food == "" {
			continue
		}
		stats.TotalRecommendations++
		if ev.Anonymous {
			stats.AnonymousRecommendations++
		}
		sessions[ev.Session] = struct{}{}
		stats.FoodCounts[strings.ToLower(ev.Food)]++
		if ev.Location != "" {
			stats.LocationCounts[ev.Location]++
		}
	}

	stats.UniqueSessions = len(sessions)
	return stats
}

// TopFoods returns the n most recommended foods, ties broken by name.
func (ds *DailyStats) TopFoods(n int) []Count {
	return top(ds.FoodCounts, n)
}

func (ds *DailyStats) TopLocations(n int) []Count {
	return top(ds.LocationCounts, n)
}

func top(m map[string]int, n int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Name: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// GenerateReportSummary renders a short plain-text report.
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommendations for %s:\n", ds.Date)
	fmt.Fprintf(&b, "- total: %d (anonymous: %d)\n", ds.TotalRecommendations, ds.AnonymousRecommendations)
	fmt.Fprintf(&b, "- unique sessions: %d\n", ds.UniqueSessions)

	if foods := ds.TopFoods(5); len(foods) > 0 {
		b.WriteString("Top foods:\n")
		for _, f := range foods {
			fmt.Fprintf(&b, "- %s: %d\n", f.Name, f.Count)
		}
	}
	if locs := ds.TopLocations(5); len(locs) > 0 {
		b.WriteString("Top locations:\n")
		for _, l := range locs {
			fmt.Fprintf(&b, "- %s: %d\n", l.Name, l.Count)
		}
	}
	return b.String()
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
