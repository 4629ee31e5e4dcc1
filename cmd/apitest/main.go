package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
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

// DateView is the response for the conversion endpoints
type DateView struct {
	Gregorian string     `json:"gregorian"`
	Hebrew    HebrewDate `json:"hebrew"`
	MonthName string     `json:"month_name"`
	Weekday   string     `json:"weekday"`
	LeapYear  bool       `json:"leap_year"`
	Display   string     `json:"display"`
}

// YearView is the response for /years/{year}
type YearView struct {
	Year         int    `json:"year"`
	Numeral      string `json:"numeral"`
	Leap         bool   `json:"leap"`
	Length       int    `json:"length"`
	Kind         string `json:"kind"`
	RoshHashanah string `json:"rosh_hashanah"`
	Months       []struct {
		Month  int    `json:"month"`
		Name   string `json:"name"`
		Length int    `json:"length"`
	} `json:"months"`
}

// GematriaView is the response for /gematria/{number}
type GematriaView struct {
	Numeral     string `json:"numeral"`
	Traditional string `json:"traditional"`
}

// EventView is the response for the saved-date endpoints
type EventView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	GregorianDate   string `json:"gregorian_date"`
	Display         string `json:"display"`
	NextAnniversary *struct {
		Gregorian string `json:"gregorian"`
		Relative  string `json:"relative"`
	} `json:"next_anniversary"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Hebrew Calendar API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testToday()
	tr.testKnownDates()
	tr.testHebrewToGregorian()
	tr.testYears()
	tr.testGematria()
	tr.testEdgeCases()
	tr.testEvents()
	tr.testFullMonth()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := tr.parseDataAs(resp, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	resp, err := tr.get("/api/v1/today")
	if err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	var data DateView
	if err := tr.parseDataAs(resp, &data); err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	tr.recordSuccess(fmt.Sprintf("Today (%s): %s", data.Gregorian, data.Display))
}

func (tr *TestRunner) testKnownDates() {
	tr.printSection("Gregorian to Hebrew")

	testCases := []struct {
		date        string
		expected    HebrewDate
		description string
	}{
		{"2022-09-26", HebrewDate{5783, 1, 1}, "Rosh Hashanah 5783"},
		{"2023-09-16", HebrewDate{5784, 1, 1}, "Rosh Hashanah 5784"},
		{"2024-10-03", HebrewDate{5785, 1, 1}, "Rosh Hashanah 5785"},
		{"2025-09-23", HebrewDate{5786, 1, 1}, "Rosh Hashanah 5786"},
		{"2022-11-24", HebrewDate{5783, 2, 30}, "30 Cheshvan in a complete year"},
		{"2024-02-23", HebrewDate{5784, 6, 14}, "Purim Katan (14 Adar I)"},
		{"2024-03-24", HebrewDate{5784, 13, 14}, "Purim in a leap year"},
		{"2024-04-23", HebrewDate{5784, 7, 15}, "Pesach 5784"},
		{"2024-12-26", HebrewDate{5785, 3, 25}, "Chanukah 5785"},
		{"2025-03-14", HebrewDate{5785, 6, 14}, "Purim in a common year"},
	}

	for _, tc := range testCases {
		resp, err := tr.get("/api/v1/convert/gregorian/" + tc.date + "?locale=en")
		if err != nil {
			tr.recordError(tc.description, err.Error())
			continue
		}

		var data DateView
		if err := tr.parseDataAs(resp, &data); err != nil {
			tr.recordError(tc.description, err.Error())
			continue
		}

		if data.Hebrew == tc.expected {
			tr.recordSuccess(fmt.Sprintf("%s: %s → %s", tc.description, tc.date, data.Display))
		} else {
			tr.recordError(tc.description, fmt.Sprintf("%s gave %+v, want %+v", tc.date, data.Hebrew, tc.expected))
		}
	}
}

func (tr *TestRunner) testHebrewToGregorian() {
	tr.printSection("Hebrew to Gregorian")

	testCases := []struct {
		path     string
		expected string
	}{
		{"/api/v1/convert/hebrew/5784/13/1", "2024-03-11"},
		{"/api/v1/convert/hebrew/5784/13/14", "2024-03-24"},
		{"/api/v1/convert/hebrew/5783/2/30", "2022-11-24"},
		{"/api/v1/convert/hebrew/5785/1/1", "2024-10-03"},
		{"/api/v1/convert/hebrew/5785/3/25", "2024-12-26"},
	}

	for _, tc := range testCases {
		resp, err := tr.get(tc.path)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}

		var data DateView
		if err := tr.parseDataAs(resp, &data); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}

		if data.Gregorian == tc.expected {
			tr.recordSuccess(fmt.Sprintf("%s → %s", tc.path, data.Gregorian))
		} else {
			tr.recordError(tc.path, fmt.Sprintf("got %s, want %s", data.Gregorian, tc.expected))
		}
	}
}

func (tr *TestRunner) testYears() {
	tr.printSection("Year Structure")

	testCases := []struct {
		year   int
		length int
		kind   string
	}{
		{5782, 384, "regular"},
		{5783, 355, "complete"},
		{5784, 383, "deficient"},
		{5785, 355, "complete"},
		{5786, 354, "regular"},
		{5787, 385, "complete"},
	}

	for _, tc := range testCases {
		resp, err := tr.get(fmt.Sprintf("/api/v1/years/%d?locale=en", tc.year))
		if err != nil {
			tr.recordError(fmt.Sprintf("Year %d", tc.year), err.Error())
			continue
		}

		var data YearView
		if err := tr.parseDataAs(resp, &data); err != nil {
			tr.recordError(fmt.Sprintf("Year %d", tc.year), err.Error())
			continue
		}

		if data.Length != tc.length || data.Kind != tc.kind {
			tr.recordError(fmt.Sprintf("Year %d", tc.year),
				fmt.Sprintf("got %d days (%s), want %d (%s)", data.Length, data.Kind, tc.length, tc.kind))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%d (%s): %d days, %s, starts %s",
			tc.year, data.Numeral, data.Length, data.Kind, data.RoshHashanah))

		if tr.verbose {
			for _, m := range data.Months {
				fmt.Printf("    %2d %-10s %d\n", m.Month, m.Name, m.Length)
			}
		}
	}
}

func (tr *TestRunner) testGematria() {
	tr.printSection("Gematria")

	testCases := []struct {
		number      int
		traditional string
	}{
		{15, "ט״ו"},
		{16, "ט״ז"},
		{5784, "תשפ״ד"},
	}

	for _, tc := range testCases {
		resp, err := tr.get(fmt.Sprintf("/api/v1/gematria/%d", tc.number))
		if err != nil {
			tr.recordError(fmt.Sprintf("Gematria %d", tc.number), err.Error())
			continue
		}

		var data GematriaView
		if err := tr.parseDataAs(resp, &data); err != nil {
			tr.recordError(fmt.Sprintf("Gematria %d", tc.number), err.Error())
			continue
		}

		if data.Traditional == tc.traditional {
			tr.recordSuccess(fmt.Sprintf("%d → %s (%s)", tc.number, data.Traditional, data.Numeral))
		} else {
			tr.recordError(fmt.Sprintf("Gematria %d", tc.number),
				fmt.Sprintf("got %s, want %s", data.Traditional, tc.traditional))
		}
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	testCases := []struct {
		path        string
		status      int
		code        string
		description string
	}{
		{"/api/v1/convert/gregorian/2025-02-30", 400, "INVALID_DATE", "Invalid Gregorian day"},
		{"/api/v1/convert/gregorian/2025/12/25", 404, "NOT_FOUND", "Wrong date format"},
		{"/api/v1/convert/hebrew/5785/13/1", 400, "INVALID_MONTH", "Adar II in a common year"},
		{"/api/v1/convert/hebrew/5784/2/30", 400, "INVALID_DATE", "30 Cheshvan in a deficient year"},
		{"/api/v1/convert/hebrew/7000/1/1", 400, "YEAR_OUT_OF_RANGE", "Year above window"},
		{"/api/v1/range?start=2025-01-01", 400, "BAD_REQUEST", "Missing end parameter"},
		{"/api/v1/gematria/0", 400, "INVALID_NUMERAL", "Zero has no numeral"},
		{"/api/v1/today?locale=fr", 400, "UNSUPPORTED_LOCALE", "Unknown locale"},
	}

	for _, tc := range testCases {
		status, info, err := tr.getError(tc.path)
		if err != nil {
			tr.recordError(tc.description, err.Error())
			continue
		}
		if status == tc.status && info != nil && info.Code == tc.code {
			tr.recordSuccess(fmt.Sprintf("%s rejected (%d %s)", tc.description, status, tc.code))
		} else {
			tr.recordError(tc.description, fmt.Sprintf("got HTTP %d %+v, want %d %s", status, info, tc.status, tc.code))
		}
	}
}

func (tr *TestRunner) testEvents() {
	tr.printSection("Saved Dates")

	body := map[string]interface{}{
		"title":  fmt.Sprintf("apitest %d", time.Now().UnixNano()),
		"hebrew": map[string]int{"year": 5784, "month": 13, "day": 14},
	}
	resp, err := tr.send("POST", "/api/v1/events?locale=en", body)
	if err != nil {
		tr.recordError("Create event", err.Error())
		return
	}

	var event EventView
	if err := tr.parseDataAs(resp, &event); err != nil {
		tr.recordError("Create event", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Created %s: %s (%s)", event.ID, event.Display, event.GregorianDate))
	if event.NextAnniversary != nil {
		tr.recordSuccess(fmt.Sprintf("Next anniversary %s, %s", event.NextAnniversary.Gregorian, event.NextAnniversary.Relative))
	}

	if _, err := tr.send("GET", "/api/v1/events/"+event.ID, nil); err != nil {
		tr.recordError("Get event", err.Error())
	} else {
		tr.recordSuccess("Fetched saved date")
	}

	if _, err := tr.send("DELETE", "/api/v1/events/"+event.ID, nil); err != nil {
		tr.recordError("Delete event", err.Error())
	} else {
		tr.recordSuccess("Deleted saved date")
	}
}

func (tr *TestRunner) testFullMonth() {
	tr.printSection("Full Tishri 5786")

	resp, err := tr.get("/api/v1/range?start=2025-09-23&end=2025-10-22&locale=en")
	if err != nil {
		tr.recordError("Tishri 5786", err.Error())
		return
	}

	var data struct {
		Days []DateView `json:"days"`
	}
	if err := tr.parseDataAs(resp, &data); err != nil {
		tr.recordError("Tishri 5786", err.Error())
		return
	}

	for i, day := range data.Days {
		if day.Hebrew.Month != 1 || day.Hebrew.Day != i+1 {
			tr.recordError(day.Gregorian, fmt.Sprintf("got %+v, want Tishri %d", day.Hebrew, i+1))
			continue
		}
		if tr.verbose {
			tr.recordSuccess(fmt.Sprintf("%s %-9s %s", day.Gregorian, day.Weekday, day.Display))
		}
	}
	if len(data.Days) == 30 {
		tr.recordSuccess("Tishri 5786 has 30 consecutive days")
	} else {
		tr.recordError("Tishri 5786", fmt.Sprintf("got %d days, want 30", len(data.Days)))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	return tr.send("GET", path, nil)
}

// send performs a request and returns the envelope of a successful response.
func (tr *TestRunner) send(method, path string, body interface{}) (*APIResponse, error) {
	resp, err := tr.do(method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	apiResp, err := decodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return apiResp, nil
}

// getError performs a request expected to fail and returns its status and
// error details.
func (tr *TestRunner) getError(path string) (int, *ErrorInfo, error) {
	resp, err := tr.do("GET", path, nil)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	apiResp, err := decodeEnvelope(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, apiResp.Error, nil
}

func (tr *TestRunner) do(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal error: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tr.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tr.apiKey != "" {
		req.Header.Set("X-API-Key", tr.apiKey)
	}
	return tr.client.Do(req)
}

func decodeEnvelope(r io.Reader) (*APIResponse, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &apiResp, nil
}

func (tr *TestRunner) parseDataAs(resp *APIResponse, target interface{}) error {
	// Re-marshal and unmarshal to convert map to struct
	dataBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return json.Unmarshal(dataBytes, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key for the saved-date endpoints")
	verbose := flag.Bool("v", false, "Verbose output (show month tables and every day)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
