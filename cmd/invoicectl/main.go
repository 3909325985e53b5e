package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"invoiceocr/internal/client"
	"invoiceocr/internal/domain"
	"invoiceocr/internal/export"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func usage() {
	printError(`Usage: invoicectl [flags] <file|directory> [more files...]

One file is processed on its own. Several files are sent together and merged
into one invoice (images only). A directory is processed file by file unless
-together is set.

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	var (
		baseURL  = flag.String("url", envOr("INVOICEOCR_URL", "http://localhost:8000"), "service base URL")
		together = flag.Bool("together", false, "send all files of a directory in one request")
		format   = flag.String("format", "json", "output format: json, csv or xlsx")
		out      = flag.String("out", "", "output file (default: stdout for json, invoices_<date>.<ext> otherwise)")
		timeout  = flag.Duration("timeout", 5*time.Minute, "per-request timeout")
		quiet    = flag.Bool("quiet", false, "do not print extracted records")
	)
	flag.Usage = usage
	flag.Parse()

	*format = strings.ToLower(*format)
	if *format != "json" && *format != "csv" && *format != "xlsx" {
		printError("Error: --format must be json, csv or xlsx\n")
		os.Exit(2)
	}
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	c := client.New(*baseURL, *timeout)

	if !checkHealth(ctx, c) {
		os.Exit(1)
	}

	batches, err := plan(flag.Args(), *together)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	results := make([]export.Result, 0, len(batches))
	failed := 0
	for _, batch := range batches {
		res := processBatch(ctx, c, batch, *quiet)
		if res.Err != "" {
			failed++
		}
		results = append(results, res)
	}

	if err := writeOutput(results, *format, *out); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nProcessed %d request(s): %d succeeded, %d failed\n", len(results), len(results)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func checkHealth(ctx context.Context, c *client.Client) bool {
	status, err := c.Health(ctx)
	if err != nil {
		printError("Service health check failed: %v\n", err)
		printError("Is the server running? Start it with: go run ./cmd/server\n")
		return false
	}
	fmt.Printf("Service is %s: mode=%s provider=%s connected=%t pdf=%t formats=%s\n",
		status.Status, status.OCRMode, status.Provider, status.APIConnected, status.PDFEnabled,
		strings.Join(status.SupportedFormats, ","))
	if !status.APIConnected {
		printError("Warning: provider is not connected; requests will fail with 503\n")
	}
	return true
}

// plan groups the command line paths into requests.
func plan(args []string, together bool) ([][]string, error) {
	if len(args) > 1 {
		for _, p := range args {
			if _, err := os.Stat(p); err != nil {
				return nil, fmt.Errorf("file not found: %s", p)
			}
		}
		return [][]string{args}, nil
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %s", path)
	}
	if !info.IsDir() {
		return [][]string{{path}}, nil
	}

	files, err := client.ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported files found in %s", path)
	}
	fmt.Printf("Found %d file(s) in %s\n", len(files), path)

	if together {
		return [][]string{files}, nil
	}
	batches := make([][]string, len(files))
	for i, f := range files {
		batches[i] = []string{f}
	}
	return batches, nil
}

func processBatch(ctx context.Context, c *client.Client, paths []string, quiet bool) export.Result {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	source := strings.Join(names, " + ")

	fmt.Printf("\n%s\nProcessing: %s\n%s\n", strings.Repeat("=", 70), source, strings.Repeat("=", 70))

	record, err := c.Process(ctx, paths...)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			printError("Error: %v\n", apiErr)
		} else {
			printError("Exception: %v\n", err)
		}
		return export.Result{Source: source, Err: err.Error()}
	}

	if !quiet {
		data, _ := json.MarshalIndent(record, "", "  ")
		fmt.Println(string(data))
	}
	printSummary(record)
	return export.Result{Source: source, Record: record}
}

func printSummary(r *domain.InvoiceRecord) {
	orNA := func(s *string) string {
		if s == nil || *s == "" {
			return "N/A"
		}
		return *s
	}
	total := "N/A"
	if r.TotalAmount != nil {
		total = fmt.Sprintf("%.2f", *r.TotalAmount)
	}

	fmt.Println("Summary:")
	fmt.Printf("   Customer:   %s\n", orNA(r.CustomerName))
	fmt.Printf("   Invoice:    %s\n", orNA(r.InvoiceNumber))
	fmt.Printf("   Date:       %s\n", orNA(r.InvoiceDate))
	fmt.Printf("   Total:      %s %s\n", r.Currency, total)
	fmt.Printf("   Line Items: %d\n", len(r.LineItems))
	if r.ProcessingTimeSeconds != nil {
		fmt.Printf("   Time:       %.2fs\n", *r.ProcessingTimeSeconds)
	}
}

func writeOutput(results []export.Result, format, out string) error {
	if format == "json" && out == "" {
		return nil
	}
	if out == "" {
		out = export.BuildFilename("invoices", format, time.Now())
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	switch format {
	case "csv":
		err = export.WriteCSV(f, results)
	case "xlsx":
		err = export.WriteXLSX(f, results)
	default:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(jsonResults(results))
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

type jsonResult struct {
	Source string                `json:"source"`
	Record *domain.InvoiceRecord `json:"record,omitempty"`
	Error  string                `json:"error,omitempty"`
}

func jsonResults(results []export.Result) []jsonResult {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{Source: r.Source, Record: r.Record, Error: r.Err}
	}
	return out
}
