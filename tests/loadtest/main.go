package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var (
	categories = []string{"video", "music", "cloud", "dev", "vpn"}
	currencies = []string{"CNY", "USD", "EUR", "JPY"}
	cycles     = []string{"month", "quarter", "halfyear", "year"}
	sorts      = []string{"", "due", "remaining", "amount", "monthly", "name"}
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

// createdIDs collects record IDs from the seeding phase so later phases can
// hit the per-record endpoints.
var createdIDs struct {
	mu  sync.Mutex
	ids []string
}

func rememberID(id string) {
	createdIDs.mu.Lock()
	defer createdIDs.mu.Unlock()
	if len(createdIDs.ids) < 10000 {
		createdIDs.ids = append(createdIDs.ids, id)
	}
}

func randomID(rng *rand.Rand) string {
	createdIDs.mu.Lock()
	defer createdIDs.mu.Unlock()
	if len(createdIDs.ids) == 0 {
		return ""
	}
	return createdIDs.ids[rng.Intn(len(createdIDs.ids))]
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== RenewalPulse Load Test ===")
	fmt.Printf("Workers: %d | Duration per phase: %s\n\n", numWorkers, testDuration)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed records with POST requests
	fmt.Println("\n--- Phase 1: Seeding records (POST /) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doCreate(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (30% writes, 70% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.20:
			return doCreate(rng)
		case r < 0.30:
			return doRenew(rng)
		case r < 0.65:
			return doGetList(rng)
		case r < 0.85:
			return doGetSummary()
		case r < 0.95:
			return doGetRates()
		default:
			return doGetHealth()
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (5% writes, 95% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doCreate(rng)
		case r < 0.55:
			return doGetList(rng)
		case r < 0.80:
			return doGetSummary()
		case r < 0.95:
			return doGetRates()
		default:
			return doGetHealth()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doCreate(rng *rand.Rand) result {
	expiry := time.Now().AddDate(0, 0, rng.Intn(400)-30).Format("2006-01-02")
	body := map[string]interface{}{
		"name":       fmt.Sprintf("svc-%d", rng.Intn(100000)),
		"category":   categories[rng.Intn(len(categories))],
		"amount":     fmt.Sprintf("%d.%02d", rng.Intn(200)+1, rng.Intn(100)),
		"currency":   currencies[rng.Intn(len(currencies))],
		"cycle":      cycles[rng.Intn(len(cycles))],
		"expires_at": expiry,
	}
	if rng.Float64() < 0.3 {
		body["lead_days"] = rng.Intn(14)
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /", 0, lat, true}
	}
	defer resp.Body.Close()
	if resp.StatusCode == 201 {
		var created struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&created); err == nil && created.ID != "" {
			rememberID(created.ID)
		}
	}
	io.Copy(io.Discard, resp.Body)
	return result{"POST /", resp.StatusCode, lat, resp.StatusCode != 201}
}

func doRenew(rng *rand.Rand) result {
	id := randomID(rng)
	if id == "" {
		return doCreate(rng)
	}
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/renew?id="+id, "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /renew", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// a racing delete is fine, only 5xx counts as failure
	return result{"POST /renew", resp.StatusCode, lat, resp.StatusCode >= 500}
}

func doGetList(rng *rand.Rand) result {
	url := baseURL + "/list"
	if s := sorts[rng.Intn(len(sorts))]; s != "" {
		url += "?sort=" + s
	}
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /list", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /list", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetSummary() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/summary")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /summary", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /summary", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetRates() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/rates")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /rates", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /rates", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetHealth() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/health")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /health", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /health", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
