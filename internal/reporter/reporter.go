// Package reporter pushes periodic performance summaries on a cron schedule.
package reporter

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/freydema/spacetrader-agent/internal/agent"
	"github.com/freydema/spacetrader-agent/internal/model"
	"github.com/freydema/spacetrader-agent/internal/notifier"
	"github.com/freydema/spacetrader-agent/internal/recorder"
)

// StatusSource yields the latest controller snapshot.
type StatusSource interface {
	Status() agent.Status
}

// Reporter runs a cron job that snapshots the agent and sends a formatted
// summary through the notifier, persisting the same numbers to the recorder.
type Reporter struct {
	source StatusSource
	notif  notifier.Notifier
	rec    recorder.Recorder
	cron   *cron.Cron
	spec   string
}

// New builds a reporter; spec uses the 6-field cron format with seconds.
func New(source StatusSource, notif notifier.Notifier, rec recorder.Recorder, spec string) *Reporter {
	return &Reporter{
		source: source,
		notif:  notif,
		rec:    rec,
		cron:   cron.New(cron.WithSeconds()),
		spec:   spec,
	}
}

// Start registers the report job and starts the scheduler.
func (r *Reporter) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() { r.report(ctx) })
	if err != nil {
		return err
	}
	r.cron.Start()
	log.Printf("[INFO] report scheduler started with spec %q", r.spec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (r *Reporter) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	log.Println("[INFO] report scheduler stopped")
}

func (r *Reporter) report(ctx context.Context) {
	s := r.source.Status()

	// Rebuild the metrics view the formatter expects from the snapshot.
	m := model.PerformanceMetrics{
		ContractsCompleted:    s.ContractsCompleted,
		ContractsFailed:       s.ContractsFailed,
		CreditsEarned:         s.CreditsEarned,
		Errors:                s.Errors,
		AverageCompletionTime: time.Duration(s.AvgCompletionSecs * float64(time.Second)),
	}
	elapsed := time.Duration(s.UptimeSeconds * float64(time.Second))

	text := notifier.FormatPerformanceReport(&m, s.Credits, s.FleetSize, s.CargoCapacity, elapsed)
	if err := r.notif.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send performance report: %v", err)
	}

	if err := r.rec.RecordPerformance(&recorder.PerformanceSnapshot{
		ContractsCompleted: s.ContractsCompleted,
		ContractsFailed:    s.ContractsFailed,
		CreditsEarned:      s.CreditsEarned,
		Errors:             s.Errors,
		Credits:            s.Credits,
		FleetSize:          s.FleetSize,
		CargoCapacity:      s.CargoCapacity,
		AvgCompletionSecs:  s.AvgCompletionSecs,
	}); err != nil {
		log.Printf("[ERROR] record performance snapshot: %v", err)
	}
}
