package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Checker periodically sends a HEAD request to every import source and
// records whether it is still reachable.
type Checker struct {
	sources  *SourceDB
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client
}

// NewChecker creates a Checker that will verify source URLs every interval.
func NewChecker(sources *SourceDB, logger *slog.Logger, interval time.Duration) *Checker {
	return &Checker{
		sources:  sources,
		logger:   logger.With("component", "source_checker"),
		interval: interval,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Start runs an immediate check then repeats every interval until ctx is cancelled.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckReport summarises one pass over the import sources.
type CheckReport struct {
	Total  int
	OK     int
	Failed int
	// Stale lists lexicons whose source is down but which still hold
	// entries from an earlier import.
	Stale []string
	// Missing lists lexicons whose source is down and was never imported.
	Missing []string
	// Recovered lists adapters that failed on the previous pass and are
	// reachable again.
	Recovered []string
}

// CheckAll checks every source URL, persists the result and reports which
// lexicons are now serving stale or no data.
func (c *Checker) CheckAll(ctx context.Context) CheckReport {
	var report CheckReport
	sources, err := c.sources.ListSources()
	if err != nil {
		c.logger.Error("list sources failed", "error", err)
		return report
	}
	if len(sources) == 0 {
		return report
	}

	for _, src := range sources {
		if ctx.Err() != nil {
			return report
		}

		status, checkErr := c.checkOne(ctx, src.SourceURL)
		errMsg := ""
		if checkErr != nil {
			errMsg = checkErr.Error()
		}

		if err := c.sources.UpdateCheck(src.AdapterID, status, errMsg); err != nil {
			c.logger.Error("persist check failed", "adapter", src.AdapterID, "error", err)
		}

		report.Total++
		if reachable(status) {
			report.OK++
			if src.LastStatus != nil && !reachable(*src.LastStatus) {
				report.Recovered = append(report.Recovered, src.AdapterID)
				c.logger.Info("source recovered", "adapter", src.AdapterID, "status", status)
			}
			continue
		}
		report.Failed++

		attrs := []any{
			"adapter", src.AdapterID,
			"lexicon", src.LexiconID,
			"url", src.SourceURL,
			"status", status,
			"error", errMsg,
		}
		if src.LastImport == nil {
			report.Missing = append(report.Missing, src.LexiconID)
			c.logger.Error("source unreachable and never imported", attrs...)
			continue
		}
		report.Stale = append(report.Stale, src.LexiconID)
		entries := 0
		if src.Entries != nil {
			entries = *src.Entries
		}
		last := time.Unix(*src.LastImport, 0).UTC()
		attrs = append(attrs,
			"last_import", last.Format(time.RFC3339),
			"import_age", time.Since(last).Round(time.Minute).String(),
			"entries", entries,
		)
		c.logger.Warn("source unreachable", attrs...)
	}

	c.logger.Info("source check complete",
		"total", report.Total,
		"ok", report.OK,
		"failed", report.Failed,
		"stale", len(report.Stale),
		"recovered", len(report.Recovered),
	)
	return report
}

func reachable(status int) bool { return status >= 200 && status < 400 }

// checkOne performs a single HEAD request and returns the HTTP status code.
// On network error, status is 0.
func (c *Checker) checkOne(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HEAD %s: %w", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
