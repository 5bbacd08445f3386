/*
scheduler.go - Year-end rollover and its automated scheduler

PURPOSE:
  Closes vacation years. For every employee of an organization the
  remaining balance on December 31st is split by vacation.Rollover into
  days carried into next year's override and days forfeited. The
  scheduler does this automatically once a year has ended.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Closes the previous year of every organization that has a policy
  - Skips organizations whose year is already recorded in rollover_runs
  - Manual runs (POST /api/admin/rollover) use the same code path

IDEMPOTENCY:
  Rollover reads the closing year and writes only the next year's
  carryover field, so running it twice stores the same values.

USAGE:
  scheduler := NewRolloverScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TriggerRollover endpoint (manual rollover)
  - vacation/carryover.go: Rollover
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/store/sqlite"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// ROLLOVER
// =============================================================================

// runRollover closes year for every employee of orgID and records the run.
func (h *Handler) runRollover(ctx context.Context, orgID generic.OrganizationID, year int) (RolloverResponse, error) {
	resp := RolloverResponse{OrganizationID: string(orgID), FromYear: year, ToYear: year + 1, Results: []RolloverResultDTO{}}

	if _, err := h.Store.GetPolicy(ctx, orgID); err != nil {
		return resp, err
	}
	employees, err := h.Store.ListEmployees(ctx, orgID)
	if err != nil {
		return resp, err
	}

	yearEnd := generic.EndOfYear(year)
	carried, forfeited := decimal.Zero, decimal.Zero

	for _, emp := range employees {
		report, err := h.loadBalance(ctx, emp, year, yearEnd, balanceOptions{})
		if err != nil {
			return resp, err
		}
		result := vacation.Rollover(report.Effective, report.Balance)

		next, err := h.Store.GetOverride(ctx, emp.ID, year+1)
		if err != nil {
			return resp, err
		}
		if next != nil || result.CarriedOver.IsPositive() {
			if next == nil {
				next = &vacation.AllowanceOverride{EmployeeID: emp.ID, Year: year + 1}
			}
			next.CustomCarryoverDays = generic.DaysPtr(result.CarriedOver)
			if err := h.Store.SaveOverride(ctx, *next); err != nil {
				return resp, err
			}
		}

		carried = carried.Add(result.CarriedOver)
		forfeited = forfeited.Add(result.Forfeited)
		resp.Results = append(resp.Results, RolloverResultDTO{
			EmployeeID:    string(emp.ID),
			RemainingDays: report.Balance.RemainingDays,
			CarriedOver:   result.CarriedOver,
			Forfeited:     result.Forfeited,
		})
	}

	err = h.Store.RecordRolloverRun(ctx, sqlite.RolloverRun{
		OrganizationID: orgID,
		Year:           year,
		Employees:      len(employees),
		CarriedOver:    carried,
		Forfeited:      forfeited,
		RanAt:          h.Now().UTC(),
	})
	if err != nil {
		return resp, err
	}

	h.Logger.InfoContext(ctx, "rollover completed",
		"organization_id", orgID, "from_year", year, "employees", len(employees),
		"carried_over", carried.String(), "forfeited", forfeited.String())
	return resp, nil
}

// =============================================================================
// SCHEDULER
// =============================================================================

// RolloverScheduler closes ended years in the background.
type RolloverScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRolloverScheduler creates a new scheduler.
func NewRolloverScheduler(handler *Handler) *RolloverScheduler {
	return &RolloverScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
	}
}

// Start begins the scheduler.
func (rs *RolloverScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	logger := rs.Handler.Logger
	if !rs.Enabled {
		logger.Info("rollover scheduler disabled")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)
	go rs.run()

	logger.Info("rollover scheduler started", "interval", rs.CheckInterval.String())
}

// Stop stops the scheduler and waits for a running check to finish.
func (rs *RolloverScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker == nil {
		return
	}
	rs.ticker.Stop()
	close(rs.stop)
	rs.wg.Wait()
	rs.ticker = nil
	rs.Handler.Logger.Info("rollover scheduler stopped")
}

func (rs *RolloverScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.RunNow(context.Background())

	for {
		select {
		case <-rs.ticker.C:
			rs.RunNow(context.Background())
		case <-rs.stop:
			return
		}
	}
}

// RunNow closes the previous year of every organization that has not been
// closed yet. It returns the number of organizations processed.
func (rs *RolloverScheduler) RunNow(ctx context.Context) int {
	h := rs.Handler
	year := h.today().Year() - 1

	orgs, err := h.Store.ListOrganizations(ctx)
	if err != nil {
		h.Logger.ErrorContext(ctx, "rollover scheduler: listing organizations", "error", err)
		return 0
	}

	processed, skipped := 0, 0
	for _, orgID := range orgs {
		done, err := h.Store.HasRolloverRun(ctx, orgID, year)
		if err != nil {
			h.Logger.ErrorContext(ctx, "rollover scheduler: checking run", "organization_id", orgID, "error", err)
			continue
		}
		if done {
			skipped++
			continue
		}
		if _, err := h.runRollover(ctx, orgID, year); err != nil {
			h.Logger.ErrorContext(ctx, "rollover scheduler: rollover failed", "organization_id", orgID, "year", year, "error", err)
			continue
		}
		processed++
	}

	if processed > 0 || skipped > 0 {
		h.Logger.InfoContext(ctx, "rollover scheduler pass", "year", year, "processed", processed, "skipped", skipped)
	}
	return processed
}
