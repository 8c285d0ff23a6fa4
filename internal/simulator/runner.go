package simulator

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/draft-sim/internal/draft"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

// TrialRunner plays one complete draft against a shared read-only pool
type TrialRunner interface {
	RunTrial(pool *draft.PlayerPool) (*draft.TrialResult, error)
}

// picksPerTrial is implemented by runners that know how many players a draft consumes
type picksPerTrial interface {
	PicksPerTrial() int
}

// Progress reports how far a batch has come
type Progress struct {
	SimulationID           string        `json:"simulation_id"`
	TotalTrials            int           `json:"total_trials"`
	Completed              int           `json:"completed"`
	Dropped                int           `json:"dropped"`
	StartTime              time.Time     `json:"start_time"`
	EstimatedTimeRemaining time.Duration `json:"estimated_time_remaining"`
}

// Runner fans trials out over a bounded worker pool and folds the results
type Runner struct {
	engine  TrialRunner
	pool    *draft.PlayerPool
	workers int
	logger  *logrus.Logger
}

// NewRunner creates a runner. workers <= 0 uses one worker per CPU.
func NewRunner(engine TrialRunner, pool *draft.PlayerPool, workers int, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Runner{
		engine:  engine,
		pool:    pool,
		workers: workers,
		logger:  logger,
	}
}

type trialOutcome struct {
	trial int
	err   error
}

// workerTally is one worker's private share of the batch, merged at the join
type workerTally struct {
	agg        *Aggregator
	heroValues []float64
	heroPoints []float64
}

func (w *workerTally) record(result *draft.TrialResult, err error) {
	if err != nil {
		w.agg.AddDropped()
		return
	}
	w.agg.Add(result)
	w.heroValues = append(w.heroValues, result.Hero.TotalValue)
	w.heroPoints = append(w.heroPoints, result.Hero.TotalPoints)
}

// Run executes trials independent drafts. A trial that errors or panics is
// counted as dropped and never stops its siblings. Cancelling ctx stops
// queueing new trials and returns ctx.Err().
func (r *Runner) Run(ctx context.Context, trials int, progressChan chan<- Progress) (*Summary, error) {
	if err := r.validate(trials); err != nil {
		return nil, err
	}

	simulationID := uuid.NewString()
	log := r.logger.WithField("simulation_id", simulationID)
	startTime := time.Now()

	numWorkers := runtime.NumCPU()
	if r.workers > 0 {
		numWorkers = r.workers
	}
	if numWorkers > trials {
		numWorkers = trials
	}

	log.WithFields(logrus.Fields{
		"trials":  trials,
		"workers": numWorkers,
		"players": r.pool.Len(),
	}).Info("Starting draft simulation")

	trialsChan := make(chan int, numWorkers)
	outcomes := make(chan trialOutcome, numWorkers)

	go func() {
		defer close(trialsChan)
		for i := 0; i < trials; i++ {
			select {
			case <-ctx.Done():
				return
			case trialsChan <- i:
			}
		}
	}()

	tallies := make([]*workerTally, numWorkers)
	var wg sync.WaitGroup
	for w := range tallies {
		tallies[w] = &workerTally{agg: NewAggregator()}
		wg.Add(1)
		go r.trialWorker(trialsChan, outcomes, tallies[w], &wg)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	reportEvery := trials / 100
	if reportEvery < 1 {
		reportEvery = 1
	}

	completed, dropped := 0, 0
	for outcome := range outcomes {
		if outcome.err != nil {
			dropped++
			log.WithError(outcome.err).WithField("trial", outcome.trial).Debug("Trial dropped")
		} else {
			completed++
		}

		done := completed + dropped
		if progressChan != nil && (done%reportEvery == 0 || done == trials) {
			sendProgress(progressChan, Progress{
				SimulationID:           simulationID,
				TotalTrials:            trials,
				Completed:              completed,
				Dropped:                dropped,
				StartTime:              startTime,
				EstimatedTimeRemaining: estimateRemaining(startTime, done, trials),
			})
		}
	}

	// every worker has exited once outcomes is closed
	agg := NewAggregator()
	heroValues := make([]float64, 0, completed)
	heroPoints := make([]float64, 0, completed)
	for _, tally := range tallies {
		agg.Merge(tally.agg)
		heroValues = append(heroValues, tally.heroValues...)
		heroPoints = append(heroPoints, tally.heroPoints...)
	}

	if agg.Completed()+agg.Dropped() < trials {
		err := ctx.Err()
		if err == nil {
			err = fmt.Errorf("%w: batch stopped early", utils.ErrSimulationFailed)
		}
		log.WithError(err).Warn("Draft simulation cancelled")
		return nil, err
	}

	summary := newSummary(simulationID, trials, agg, heroValues, heroPoints, r.pool)
	summary.ExecutionTime = time.Since(startTime)

	entry := log.WithFields(logrus.Fields{
		"completed":      summary.Completed,
		"qualifying":     summary.Qualifying,
		"dropped":        summary.Dropped,
		"execution_time": summary.ExecutionTime,
	})
	if summary.Dropped > 0 {
		entry.Warn("Draft simulation completed with dropped trials")
	} else {
		entry.Info("Draft simulation completed")
	}

	return summary, nil
}

func (r *Runner) validate(trials int) error {
	if trials <= 0 {
		return fmt.Errorf("%w: trial count must be positive, got %d", utils.ErrInvalidConfig, trials)
	}
	if r.pool == nil {
		return utils.ErrPoolUnavailable
	}
	if sized, ok := r.engine.(picksPerTrial); ok && r.pool.Len() < sized.PicksPerTrial() {
		return fmt.Errorf("%w: pool has %d players but a draft takes %d",
			utils.ErrInvalidConfig, r.pool.Len(), sized.PicksPerTrial())
	}
	return nil
}

func (r *Runner) trialWorker(trialsChan <-chan int, outcomes chan<- trialOutcome, tally *workerTally, wg *sync.WaitGroup) {
	defer wg.Done()

	for trial := range trialsChan {
		result, err := r.runTrial(trial)
		tally.record(result, err)
		outcomes <- trialOutcome{trial: trial, err: err}
	}
}

// runTrial isolates one trial so a panic only drops that trial
func (r *Runner) runTrial(trial int) (result *draft.TrialResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("%w: trial %d panicked: %v", utils.ErrSimulationFailed, trial, rec)
		}
	}()

	result, err = r.engine.RunTrial(r.pool)
	if err != nil {
		return nil, fmt.Errorf("%w: trial %d: %v", utils.ErrSimulationFailed, trial, err)
	}
	return result, nil
}

func sendProgress(progressChan chan<- Progress, progress Progress) {
	select {
	case progressChan <- progress:
	default:
		// Don't block if channel is full
	}
}

func estimateRemaining(startTime time.Time, done, total int) time.Duration {
	if done == 0 {
		return 0
	}
	elapsed := time.Since(startTime)
	perTrial := elapsed / time.Duration(done)
	return perTrial * time.Duration(total-done)
}
