package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"decklens/internal/carddex"
	"decklens/internal/completion"
	"decklens/internal/logging"
	"decklens/internal/recognize"
	"decklens/internal/reconcile"
	"decklens/internal/services"
)

// ZoneInput is the image captured for one deck zone. A missing sideboard
// image is normal; a missing mainboard image is catastrophic.
type ZoneInput struct {
	Image []byte
	MIME  string
}

// Request is one full deck-list read.
type Request struct {
	ID         string
	Main       ZoneInput
	Side       ZoneInput
	FormatHint string // "mtgo", "arena", "paper", or empty
	// ExpectedTokens gates zone parallelism: at or above the configured
	// threshold the zones are recognized concurrently.
	ExpectedTokens int
}

// Result is the public outcome. Success is always true: a request that
// cannot be read still yields the fallback deck, with the failures in
// Errors and Forced set.
type Result struct {
	RequestID  string         `json:"request_id"`
	Success    bool           `json:"success"`
	Deck       reconcile.Deck `json:"deck"`
	Confidence float64        `json:"confidence"`
	Warnings   []string       `json:"warnings,omitempty"`
	Errors     []string       `json:"errors,omitempty"`
	Forced     bool           `json:"forced"`
}

// Settings tunes orchestration without reaching into the pipeline.
type Settings struct {
	Retry                 RetryPolicy
	ZoneParallelMinTokens int
	RequestTimeout        time.Duration
}

// Pipeline runs recognition, reconciliation, and completion for a request.
type Pipeline struct {
	recognizer recognize.Recognizer
	reconciler *reconcile.Reconciler
	engine     *completion.Engine
	settings   Settings
	logger     *slog.Logger
}

// New creates a Pipeline.
func New(recognizer recognize.Recognizer, reconciler *reconcile.Reconciler, engine *completion.Engine, settings Settings, logger *slog.Logger) *Pipeline {
	settings.Retry = settings.Retry.normalized()
	return &Pipeline{
		recognizer: recognizer,
		reconciler: reconciler,
		engine:     engine,
		settings:   settings,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Process runs the request to a finished deck. It never returns an error:
// every failure mode ends in a legal 60+15 deck, at worst the fixed
// fallback list.
func (p *Pipeline) Process(ctx context.Context, req Request) Result {
	start := time.Now()
	ctx = services.WithRequestID(ctx, req.ID)
	requestID, _ := services.RequestIDFromContext(ctx)
	logger := p.logger.With(logging.String(logging.FieldCorrelationID, requestID))

	if p.settings.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.settings.RequestTimeout)
		defer cancel()
	}

	results, errs := p.recognizeZones(ctx, req)

	main := results[carddex.ZoneMain]
	if ctx.Err() != nil || main == nil || len(main.Tokens) == 0 {
		logger.Warn("recognition yielded nothing usable",
			logging.Int("errors", len(errs)),
			logging.Duration("elapsed", time.Since(start)))
		if len(errs) == 0 {
			errs = append(errs, services.Wrap(services.ErrCatastrophic, "pipeline", "recognize", "no readable mainboard", ctx.Err()).Error())
		}
		return p.fallbackResult(requestID, errs)
	}

	var warnings []string
	if results[carddex.ZoneSide] == nil {
		results[carddex.ZoneSide] = &recognize.Result{}
		warnings = append(warnings, "sideboard could not be read; it will be filled")
	}

	// The land-counter correction trusts a running total only MTGO prints.
	if req.FormatHint != "mtgo" {
		main.HasLandTotal = false
	}

	deck, reconcileWarnings, err := p.reconciler.Reconcile(ctx, results)
	if err != nil {
		logger.Warn("reconciliation failed", logging.Error(err))
		errs = append(errs, err.Error())
		return p.fallbackResult(requestID, errs)
	}
	warnings = append(warnings, reconcileWarnings...)

	confidence := scoreConfidence(&deck)
	completed := p.engine.Complete(deck)
	warnings = append(warnings, completed.Warnings...)

	logger.Info("request complete",
		logging.Duration("elapsed", time.Since(start)),
		logging.Float64("confidence", confidence),
		logging.Bool("forced", completed.Forced),
		logging.Int("warnings", len(warnings)))
	return Result{
		RequestID:  requestID,
		Success:    true,
		Deck:       completed.Deck,
		Confidence: confidence,
		Warnings:   warnings,
		Errors:     errs,
		Forced:     completed.Forced,
	}
}

func (p *Pipeline) fallbackResult(requestID string, errs []string) Result {
	return FallbackResult(requestID, errs)
}

// FallbackResult builds the guaranteed outcome for a request that never
// reached recognition, such as an unreadable input image. An empty
// requestID gets a fresh one, as in Process.
func FallbackResult(requestID string, errs []string) Result {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	fallback := completion.Fallback()
	return Result{
		RequestID: requestID,
		Success:   true,
		Deck:      fallback.Deck,
		Warnings:  fallback.Warnings,
		Errors:    errs,
		Forced:    true,
	}
}

type zoneJob struct {
	zone  carddex.Zone
	input ZoneInput
}

func (p *Pipeline) recognizeZones(ctx context.Context, req Request) (map[carddex.Zone]*recognize.Result, []string) {
	jobs := []zoneJob{
		{zone: carddex.ZoneMain, input: req.Main},
		{zone: carddex.ZoneSide, input: req.Side},
	}
	results := make(map[carddex.Zone]*recognize.Result, len(jobs))
	var errs []string

	if req.ExpectedTokens >= p.settings.ZoneParallelMinTokens && p.settings.ZoneParallelMinTokens > 0 {
		var wg sync.WaitGroup
		var mu sync.Mutex
		for _, job := range jobs {
			wg.Add(1)
			go func(job zoneJob) {
				defer wg.Done()
				result, err := p.recognizeZone(ctx, job, req.FormatHint)
				mu.Lock()
				defer mu.Unlock()
				results[job.zone] = result
				if err != nil {
					errs = append(errs, err.Error())
				}
			}(job)
		}
		wg.Wait()
		return results, errs
	}

	for _, job := range jobs {
		result, err := p.recognizeZone(ctx, job, req.FormatHint)
		results[job.zone] = result
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return results, errs
}

// recognizeZone walks the retry ladder and keeps the attempt whose count
// lands closest to the zone target, stopping early on an exact hit.
func (p *Pipeline) recognizeZone(ctx context.Context, job zoneJob, hint string) (*recognize.Result, error) {
	if len(job.input.Image) == 0 {
		if job.zone == carddex.ZoneSide {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrCatastrophic, "pipeline", "recognize", "no mainboard image supplied", nil)
	}

	ctx = services.WithZone(ctx, string(job.zone))
	target := job.zone.Target()

	var best *recognize.Result
	var lastErr error
	for attempt := 1; attempt <= p.settings.Retry.MaxAttempts; attempt++ {
		if err := sleepBackoff(ctx, p.settings.Retry.Delay(attempt)); err != nil {
			break
		}

		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if p.settings.Retry.PerAttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.settings.Retry.PerAttemptTimeout)
		}
		result, err := p.recognizer.Recognize(attemptCtx, recognize.Request{
			Image:      job.input.Image,
			MIME:       job.input.MIME,
			Zone:       job.zone,
			Attempt:    attempt,
			FormatHint: hint,
		})
		cancel()

		if err != nil {
			lastErr = err
			p.logger.Debug("recognition attempt failed",
				logging.String(logging.FieldZone, string(job.zone)),
				logging.Int("attempt", attempt),
				logging.Error(err))
			if services.Catastrophic(err) || !services.Retryable(err) || ctx.Err() != nil {
				break
			}
			continue
		}

		if best == nil || distance(result.CardCount(), target) < distance(best.CardCount(), target) {
			best = result
		}
		if result.CardCount() == target {
			p.logger.Debug("exact count, stopping retries",
				logging.String(logging.FieldZone, string(job.zone)),
				logging.Int("attempt", attempt))
			break
		}
	}

	if best != nil {
		return best, nil
	}
	return nil, lastErr
}

func distance(count, target int) int {
	if count > target {
		return count - target
	}
	return target - count
}

// scoreConfidence rates the reconciled deck before completion touches it:
// exact totals score 1.0, anything else decays with distance from the
// targets, mainboard weighted heavier.
func scoreConfidence(deck *reconcile.Deck) float64 {
	main := deck.ZoneCount(carddex.ZoneMain)
	side := deck.ZoneCount(carddex.ZoneSide)
	if main == carddex.ZoneMain.Target() && side == carddex.ZoneSide.Target() {
		return 1.0
	}
	return 0.9 * (0.7*proximity(main, carddex.ZoneMain.Target()) + 0.3*proximity(side, carddex.ZoneSide.Target()))
}

func proximity(count, target int) float64 {
	score := 1.0 - float64(distance(count, target))/float64(target)
	if score < 0 {
		return 0
	}
	return score
}
