// Command coverage sweeps every day of a span of Gregorian years through a
// running API and checks that the Hebrew dates it returns are continuous and
// convert back to the same Gregorian day.
//
// Usage:
//
//	go run ./cmd/coverage -url http://localhost:8080 -start 2024 -years 4
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// APIResponse matches the API response structure
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type HebrewDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type DayView struct {
	Gregorian string     `json:"gregorian"`
	Hebrew    HebrewDate `json:"hebrew"`
	MonthName string     `json:"month_name"`
	LeapYear  bool       `json:"leap_year"`
}

type RangeResponse struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Days  []DayView `json:"days"`
}

// DayResult holds the result for a single date
type DayResult struct {
	Date      string     `json:"date"`
	Hebrew    HebrewDate `json:"hebrew"`
	MonthName string     `json:"month_name"`
	Success   bool       `json:"success"`
	Error     string     `json:"error,omitempty"`
}

// MonthStats tracks statistics for each Hebrew month name
type MonthStats struct {
	Month       string   `json:"month"`
	TotalDays   int      `json:"total_days"`
	SuccessDays int      `json:"success_days"`
	FailedDays  int      `json:"failed_days"`
	FailedDates []string `json:"failed_dates,omitempty"`
}

// rangeChunk is the number of days fetched per /range request.
const rangeChunk = 90

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	startYear := flag.Int("start", 2024, "Start year (Gregorian)")
	years := flag.Int("years", 4, "Number of years to test")
	workers := flag.Int("workers", 8, "Concurrent round-trip requests")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Hebrew Calendar API - Full Coverage Test")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	// Check if server is reachable
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	sw := &sweeper{client: client, baseURL: *baseURL}

	start := time.Date(*startYear, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear, 12, 31, 0, 0, 0, 0, time.UTC)

	results, err := sw.fetchDays(start, end)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	checkContinuity(results)
	if err := sw.checkRoundTrips(context.Background(), results, *workers); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		for _, r := range results {
			status := "✓"
			if !r.Success {
				status = "✗"
			}
			fmt.Printf("  %s %s: %d-%02d-%02d %s\n", status, r.Date,
				r.Hebrew.Year, r.Hebrew.Month, r.Hebrew.Day, r.MonthName)
			if !r.Success {
				fmt.Printf("      Error: %s\n", r.Error)
			}
		}
		fmt.Println()
	}

	// Analyze results
	analysis := analyzeResults(results)

	printSummary(analysis, *startYear, endYear)
	printFailuresByMonth(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	// Exit with error code if there were failures
	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

// =============================================================================
// Fetching
// =============================================================================

type sweeper struct {
	client  *http.Client
	baseURL string
}

// fetchDays walks [start, end] through /api/v1/range in chunks.
func (sw *sweeper) fetchDays(start, end time.Time) ([]DayResult, error) {
	totalDays := int(end.Sub(start).Hours()/24) + 1
	fmt.Printf("Fetching %d days...\n\n", totalDays)

	results := make([]DayResult, 0, totalDays)
	lastProgress := -1

	for chunkStart := start; !chunkStart.After(end); chunkStart = chunkStart.AddDate(0, 0, rangeChunk) {
		chunkEnd := chunkStart.AddDate(0, 0, rangeChunk-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}

		var data RangeResponse
		path := fmt.Sprintf("/api/v1/range?start=%s&end=%s&locale=en",
			chunkStart.Format("2006-01-02"), chunkEnd.Format("2006-01-02"))
		if err := sw.get(path, &data); err != nil {
			return nil, fmt.Errorf("range %s..%s: %w", chunkStart.Format("2006-01-02"), chunkEnd.Format("2006-01-02"), err)
		}

		for _, d := range data.Days {
			results = append(results, DayResult{
				Date:      d.Gregorian,
				Hebrew:    d.Hebrew,
				MonthName: d.MonthName,
				Success:   true,
			})
		}

		// Show progress
		progress := (len(results) * 100) / totalDays
		if progress != lastProgress && progress%10 == 0 {
			fmt.Printf("  Progress: %d%% (%d/%d)\n", progress, len(results), totalDays)
			lastProgress = progress
		}
	}

	if len(results) != totalDays {
		return nil, fmt.Errorf("got %d days, want %d", len(results), totalDays)
	}
	fmt.Println()
	return results, nil
}

func (sw *sweeper) get(path string, target any) error {
	resp, err := sw.client.Get(sw.baseURL + path)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}
	return json.Unmarshal(apiResp.Data, target)
}

// =============================================================================
// Checks
// =============================================================================

// nextMonth returns the month that follows month in chronological order.
func nextMonth(month int, leap bool) int {
	switch month {
	case 12: // Elul
		return 1
	case 6: // Adar, or Adar I in a leap year
		if leap {
			return 13
		}
		return 7
	case 13: // Adar II
		return 7
	}
	return month + 1
}

func isLeap(year int) bool {
	return (7*year+1)%19 < 7
}

// checkContinuity marks days whose Hebrew date does not follow the
// previous day's.
func checkContinuity(results []DayResult) {
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1].Hebrew, results[i].Hebrew

		var problem string
		switch {
		case cur.Year == prev.Year && cur.Month == prev.Month:
			if cur.Day != prev.Day+1 {
				problem = fmt.Sprintf("day %d follows day %d", cur.Day, prev.Day)
			}
		case cur.Day != 1:
			problem = fmt.Sprintf("month starts on day %d", cur.Day)
		case prev.Day < 29:
			problem = fmt.Sprintf("previous month ended on day %d", prev.Day)
		case cur.Month != nextMonth(prev.Month, isLeap(prev.Year)):
			problem = fmt.Sprintf("month %d follows month %d", cur.Month, prev.Month)
		case prev.Month == 12 && cur.Year != prev.Year+1:
			problem = fmt.Sprintf("year %d follows year %d", cur.Year, prev.Year)
		case prev.Month != 12 && cur.Year != prev.Year:
			problem = fmt.Sprintf("year changed in month %d", prev.Month)
		}

		if problem != "" {
			results[i].Success = false
			results[i].Error = problem
		}
	}
}

// checkRoundTrips converts the first day of every Hebrew month back to
// Gregorian and compares it with the sweep.
func (sw *sweeper) checkRoundTrips(ctx context.Context, results []DayResult, workers int) error {
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	checked := 0
	for i := range results {
		if results[i].Hebrew.Day != 1 {
			continue
		}
		checked++

		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			h := results[i].Hebrew

			var data DayView
			path := fmt.Sprintf("/api/v1/convert/hebrew/%d/%d/%d", h.Year, h.Month, h.Day)
			err := sw.get(path, &data)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				results[i].Success = false
				results[i].Error = fmt.Sprintf("round trip: %v", err)
			case data.Gregorian != results[i].Date:
				results[i].Success = false
				results[i].Error = fmt.Sprintf("round trip gave %s", data.Gregorian)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Printf("Round-tripped %d month starts\n\n", checked)
	return nil
}

// =============================================================================
// Analysis
// =============================================================================

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays    int                    `json:"total_days"`
	TotalSuccess int                    `json:"total_success"`
	TotalFailed  int                    `json:"total_failed"`
	ByMonth      map[string]*MonthStats `json:"by_month"`
	ByYear       map[int]*YearStats     `json:"by_year"`
	AllFailures  []DayResult            `json:"failures"`
}

type YearStats struct {
	Year        int   `json:"year"`
	TotalDays   int   `json:"total_days"`
	SuccessDays int   `json:"success_days"`
	FailedDays  int   `json:"failed_days"`
	HebrewYears []int `json:"hebrew_years"`
}

func analyzeResults(results []DayResult) *Analysis {
	analysis := &Analysis{
		ByMonth: make(map[string]*MonthStats),
		ByYear:  make(map[int]*YearStats),
	}

	for _, r := range results {
		analysis.TotalDays++

		date, _ := time.Parse("2006-01-02", r.Date)
		year := date.Year()

		// Year stats
		ys, ok := analysis.ByYear[year]
		if !ok {
			ys = &YearStats{Year: year}
			analysis.ByYear[year] = ys
		}
		ys.TotalDays++
		if n := len(ys.HebrewYears); n == 0 || ys.HebrewYears[n-1] != r.Hebrew.Year {
			ys.HebrewYears = append(ys.HebrewYears, r.Hebrew.Year)
		}

		// Month stats
		month := r.MonthName
		if month == "" {
			month = "(unnamed)"
		}
		ms, ok := analysis.ByMonth[month]
		if !ok {
			ms = &MonthStats{Month: month}
			analysis.ByMonth[month] = ms
		}
		ms.TotalDays++

		if r.Success {
			analysis.TotalSuccess++
			ys.SuccessDays++
			ms.SuccessDays++
		} else {
			analysis.TotalFailed++
			ys.FailedDays++
			ms.FailedDays++
			ms.FailedDates = append(ms.FailedDates, r.Date)
			analysis.AllFailures = append(analysis.AllFailures, r)
		}
	}

	return analysis
}

func printSummary(analysis *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Total Days Tested: %d\n", analysis.TotalDays)
	fmt.Printf("Successful:        %d (%.1f%%)\n", analysis.TotalSuccess,
		float64(analysis.TotalSuccess)/float64(analysis.TotalDays)*100)
	fmt.Printf("Failed:            %d (%.1f%%)\n", analysis.TotalFailed,
		float64(analysis.TotalFailed)/float64(analysis.TotalDays)*100)
	fmt.Println()

	// By year
	fmt.Println("By Year:")
	for year := startYear; year <= endYear; year++ {
		if stats, ok := analysis.ByYear[year]; ok {
			status := "✓"
			if stats.FailedDays > 0 {
				status = "✗"
			}
			fmt.Printf("  %s %d (AM %v): %d/%d days (%.1f%% success)\n",
				status, year, stats.HebrewYears, stats.SuccessDays, stats.TotalDays,
				float64(stats.SuccessDays)/float64(stats.TotalDays)*100)
		}
	}
	fmt.Println()
}

func printFailuresByMonth(analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Println("No failures! 🎉")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("FAILURES BY HEBREW MONTH")
	fmt.Println("================================================================")

	// Sort months by failure count
	var months []*MonthStats
	for _, stats := range analysis.ByMonth {
		if stats.FailedDays > 0 {
			months = append(months, stats)
		}
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].FailedDays > months[j].FailedDays
	})

	for _, stats := range months {
		fmt.Printf("\n%s: %d failures\n", stats.Month, stats.FailedDays)
		for i, date := range stats.FailedDates {
			if i >= 5 {
				fmt.Printf("  ... and %d more\n", len(stats.FailedDates)-5)
				break
			}
			fmt.Printf("  - %s\n", date)
		}
	}
	fmt.Println()

	fmt.Println("First failures:")
	for i, f := range analysis.AllFailures {
		if i >= 20 {
			break
		}
		fmt.Printf("  %s | %d-%02d-%02d | %s\n", f.Date, f.Hebrew.Year, f.Hebrew.Month, f.Hebrew.Day, f.Error)
	}
	fmt.Println()
}

func saveResults(filename string, analysis *Analysis) {
	output := struct {
		GeneratedAt string    `json:"generated_at"`
		SuccessRate string    `json:"success_rate"`
		Analysis    *Analysis `json:"analysis"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		SuccessRate: fmt.Sprintf("%.2f%%", float64(analysis.TotalSuccess)/float64(analysis.TotalDays)*100),
		Analysis:    analysis,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
