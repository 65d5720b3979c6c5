package worker

import (
	"context"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// Roller rebuilds the daily stock pool when the calendar day changes
type Roller interface {
	Rollover(ctx context.Context) (bool, error)
}

// RolloverWorker rebuilds the daily pool at local midnight in a configured zone
type RolloverWorker struct {
	BaseWorker
	roller Roller
	loc    *time.Location
	now    func() time.Time
}

// NewRolloverWorker creates a worker that calls roller.Rollover at midnight in loc.
// A nil loc means time.Local.
func NewRolloverWorker(roller Roller, loc *time.Location) *RolloverWorker {
	if loc == nil {
		loc = time.Local
	}
	w := &RolloverWorker{roller: roller, loc: loc, now: time.Now}
	w.init()
	return w
}

// Start catches up on a day change missed while the process was down, then
// schedules the next midnight
func (w *RolloverWorker) Start() {
	w.track(func() { w.execute() })
	w.scheduleNext()
}

// RunNow triggers a rollover check immediately. It reports whether the day
// rolled over and any error persisting the result.
func (w *RolloverWorker) RunNow(ctx context.Context) (bool, error) {
	return w.roller.Rollover(ctx)
}

// scheduleNext arms a standby timer while midnight is far away and the
// real timer once it is close, so early wake-ups never cause a tight loop
func (w *RolloverWorker) scheduleNext() {
	duration := timeUntilMidnight(w.now(), w.loc)
	log := logger.FromContext(context.Background())

	if duration > RolloverStandbyThreshold {
		wait := duration - RolloverStandbyLead
		if w.arm(wait, w.scheduleNext) {
			log.Info(LogMsgRolloverStandby, "next_check_at", w.now().Add(wait).In(w.loc))
		}
		return
	}

	armed := w.arm(duration, func() {
		if w.stopping() {
			return
		}
		// Fired early: rearm for the remainder
		rem := timeUntilMidnight(w.now(), w.loc)
		if rem > RolloverEarlyTolerance && rem < RolloverLateWindow {
			w.scheduleNext()
			return
		}
		w.track(func() { w.execute() })
		w.scheduleNext()
	})
	if armed {
		log.Info(LogMsgRolloverApproach, "rollover_at", w.now().Add(duration).In(w.loc))
	}
}

func (w *RolloverWorker) execute() {
	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Debug(LogMsgRolloverStarting)

	rolled, err := w.roller.Rollover(ctx)
	if err != nil {
		log.Error(LogMsgRolloverPersistFailed, "rolled", rolled, "error", err)
	}
	if rolled {
		log.Info(LogMsgRolloverCompleted)
		return
	}
	log.Debug(LogMsgRolloverNoChange)
}

// Shutdown cancels the pending timer and waits for an in-flight rollover
func (w *RolloverWorker) Shutdown(ctx context.Context) error {
	return w.shutdownInternal(ctx, "daily rollover worker")
}

// timeUntilMidnight returns the duration from now until the next 00:00 in loc
func timeUntilMidnight(now time.Time, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}
