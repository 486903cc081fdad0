// Package main provides a performance benchmarking tool for the gitstreak CLI.
// It measures how long the refresh commands take for a set of GitHub accounts,
// running each command several times without a stored log and several times
// with one, treating the first stored run as cold and averaging the rest as warm.
//
// Prerequisites:
// - gitstreak binary installed and available in PATH
// - GITSTREAK_TOKEN exported with a token that has the read:user scope
//
// Usage: go run benchmark/main.go login [login...]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Login       string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Logins      []string
	Commands    []string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s login [login...]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Logins:      os.Args[1:],
		Commands:    []string{"stats", "log"},
		Timeout:     2 * time.Minute,
		Workers:     8,
		NoCacheRuns: 3,
		CacheRuns:   4,
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the gitstreak binary and a token are available
func checkPrerequisites() error {
	if _, err := exec.LookPath("gitstreak"); err != nil {
		return errors.New("gitstreak binary not found in PATH")
	}
	if os.Getenv("GITSTREAK_TOKEN") == "" {
		return errors.New("GITSTREAK_TOKEN is not set")
	}
	return nil
}

// runBenchmarks executes every command against every configured login
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d logins, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Logins), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, login := range config.Logins {
		fmt.Printf("Benchmarking %s\n", login)
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, login, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, login, command string) BenchmarkResult {
	fmt.Printf("Running %s for %s\n", command, login)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, login, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: every run fetches the whole history
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: the first run stores the log, later runs are served from it
	clearCache()
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Login:       login,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// clearCache removes the stored activity logs using gitstreak cache clear
func clearCache() {
	if output, err := exec.Command("gitstreak", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}
}

// runBenchmark executes a gitstreak command multiple times with the specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, login, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, login,
		"--cache-backend", cacheBackend,
		"--workers", fmt.Sprint(config.Workers),
		"--output", "json",
		"--refresh-interval", "1h",
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "gitstreak", args...).Run()
		elapsed := time.Since(start)
		cancel()
		if err == nil {
			times = append(times, elapsed.Seconds())
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/gitstreak_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"login", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Login, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-16s: No-cache: %s, Cold: %s, Warm: %s\n", result.Login, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
