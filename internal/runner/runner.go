// Package runner wires one result check: fetch the week's draws, reconcile each
// against the ledger, compose the message, and deliver it.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rewired-gh/jackpotoracle/internal/logger"
	"github.com/rewired-gh/jackpotoracle/internal/models"
	"github.com/rewired-gh/jackpotoracle/internal/notify"
)

// ResultsSource fetches published draws and the advertised next jackpot.
type ResultsSource interface {
	FetchDraws(ctx context.Context, year, week int) ([]models.DrawRecord, error)
	FetchNextJackpot(ctx context.Context) (int64, error)
}

// Reconciler books one draw on the ledger.
type Reconciler interface {
	Reconcile(ctx context.Context, draw models.DrawRecord, guesses models.GuessSet) (models.Reconciliation, error)
}

// Period is an ISO year and week.
type Period struct {
	Year int
	Week int
}

// PeriodAt returns the ISO week containing t in loc.
func PeriodAt(t time.Time, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	year, week := t.In(loc).ISOWeek()
	return Period{Year: year, Week: week}
}

func (p Period) String() string {
	return fmt.Sprintf("%d-W%02d", p.Year, p.Week)
}

// Report describes a completed run.
type Report struct {
	Period  Period
	Draws   []notify.DrawReport
	Message string
}

// Runner executes one run. Collaborators are injected; none are global.
type Runner struct {
	source   ResultsSource
	engine   Reconciler
	composer *notify.Composer
	sender   notify.Sender
	guesses  models.GuessSet
}

// New creates a Runner for one guess set.
func New(source ResultsSource, engine Reconciler, composer *notify.Composer, sender notify.Sender, guesses models.GuessSet) *Runner {
	return &Runner{
		source:   source,
		engine:   engine,
		composer: composer,
		sender:   sender,
		guesses:  guesses,
	}
}

// Run checks every draw of period. Draws are reconciled in order and the first
// error aborts the run; draws already booked stay booked. An empty period is
// not an error: the no-results message is sent and the ledger is not touched.
func (r *Runner) Run(ctx context.Context, period Period) (*Report, error) {
	startTime := time.Now()
	logger.Info("Checking draws for %s", period)

	draws, err := r.source.FetchDraws(ctx, period.Year, period.Week)
	if err != nil {
		return nil, err
	}
	logger.Info("Fetched %d draws for %s", len(draws), period)

	report := &Report{Period: period}

	if len(draws) == 0 {
		report.Message = r.composer.NoResults()
		logger.Info("No results published for %s", period)
		if err := r.sender.Send(ctx, report.Message); err != nil {
			return report, err
		}
		return report, nil
	}

	for _, draw := range draws {
		rec, err := r.engine.Reconcile(ctx, draw, r.guesses)
		if err != nil {
			return report, fmt.Errorf("failed to reconcile draw %s: %w", draw.ID, err)
		}
		report.Draws = append(report.Draws, notify.DrawReport{Draw: draw, Result: rec})
	}

	var nextJackpot *int64
	if amount, err := r.source.FetchNextJackpot(ctx); err != nil {
		logger.Warn("Next jackpot unavailable: %v", err)
	} else {
		nextJackpot = &amount
	}

	report.Message = r.composer.Compose(report.Draws, nextJackpot)

	logger.Debug("Sending result message via %s", r.sender.Name())
	if err := r.sender.Send(ctx, report.Message); err != nil {
		return report, err
	}
	logger.Info("Sent results for %d draws via %s in %v", len(report.Draws), r.sender.Name(), time.Since(startTime))

	return report, nil
}

// AlertFailure posts a short notice about a failed run.
func (r *Runner) AlertFailure(ctx context.Context, runErr error) error {
	return r.sender.Send(ctx, r.composer.Failure(runErr))
}
