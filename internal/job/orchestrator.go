package job

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/wikiquiz/internal/content"
	"github.com/abhisek/wikiquiz/internal/events"
	"github.com/abhisek/wikiquiz/internal/llm"
	"github.com/abhisek/wikiquiz/internal/quizgen"
	"github.com/abhisek/wikiquiz/internal/store"
)

// Generator produces normalized questions for a prompt. Satisfied by
// quizgen.Gateway.
type Generator interface {
	Generate(ctx context.Context, prompt, modelID string, opts quizgen.Options) ([]quizgen.Question, error)
}

// Ledger is the durable processed-unit set the orchestrator consults.
// Satisfied by store.Ledger.
type Ledger interface {
	Contains(ctx context.Context, key string) (bool, error)
}

// Recorder persists a finished unit: the ledger mark and the question
// archive, written atomically with the mark deciding a single winner
// per key. Satisfied by store.Store.
type Recorder interface {
	RecordUnit(ctx context.Context, rec store.ProcessedRecord, prov store.Provenance, qs []quizgen.Question) (bool, error)
}

// Orchestrator drives one job at a time through enumeration,
// generation, and persistence. Stateless between runs; multiple
// orchestrator runs may proceed concurrently on different jobs.
type Orchestrator struct {
	fetcher  content.Fetcher
	resolver content.Resolver // optional
	gen      Generator
	ledger   Ledger
	recorder Recorder
	sink     events.Sink
	log      *zap.Logger
}

// NewOrchestrator wires an orchestrator. resolver may be nil, in which
// case source ids are used as-is.
func NewOrchestrator(fetcher content.Fetcher, resolver content.Resolver, gen Generator, ledger Ledger, recorder Recorder, sink events.Sink, log *zap.Logger) *Orchestrator {
	if sink == nil {
		sink = events.NopSink{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		fetcher:  fetcher,
		resolver: resolver,
		gen:      gen,
		ledger:   ledger,
		recorder: recorder,
		sink:     sink,
		log:      log,
	}
}

// Run processes the job to a terminal state. Blocking; callers that
// want asynchronous submission run it on its own goroutine.
func (o *Orchestrator) Run(ctx context.Context, j *Job) {
	spec := j.Spec()
	log := o.log.With(zap.String("job_id", j.ID()), zap.String("source", spec.SourceID))

	o.say(j, SeverityInfo, fmt.Sprintf("job started for source %q with model %s", spec.SourceID, spec.ModelID))

	topic := spec.SourceID
	if o.resolver != nil {
		title, err := o.resolver.Resolve(ctx, spec.SourceID)
		if err != nil {
			o.fail(j, log, fmt.Errorf("resolving source %q: %w", spec.SourceID, err))
			return
		}
		topic = title.CanonicalTitle
	}

	units, err := o.enumerate(ctx, spec)
	if err != nil {
		o.fail(j, log, err)
		return
	}
	if len(units) == 0 {
		o.fail(j, log, errors.New("no content to process"))
		return
	}

	total := len(units)
	done := 0
	o.say(j, SeverityInfo, fmt.Sprintf("enumerated %d work units", total))

	for _, unit := range units {
		if j.StopRequested() {
			o.say(j, SeverityWarning, "stop requested, finishing with partial results")
			break
		}

		label := unitLabel(unit)

		// Empty sections are skipped without spending budget.
		if unit.TargetQuestionCount == 0 || strings.TrimSpace(unit.Text) == "" {
			o.say(j, SeverityInfo, fmt.Sprintf("skipped %s: no text", label))
			done++
			o.publishProgress(j, done, total)
			continue
		}

		if j.callsMade() >= spec.CallBudget {
			o.say(j, SeverityWarning, fmt.Sprintf("call budget of %d exhausted, stopping", spec.CallBudget))
			break
		}

		key := unit.Key()
		seen, err := o.ledger.Contains(ctx, key)
		if err != nil {
			o.fail(j, log, err)
			return
		}
		if seen {
			o.say(j, SeverityInfo, fmt.Sprintf("skipped %s: already processed", label))
			done++
			o.publishProgress(j, done, total)
			continue
		}

		qs, err := o.generateUnit(ctx, j, spec, topic, unit)
		if err != nil {
			// A single unit's failure never fails the job.
			o.say(j, SeverityError, fmt.Sprintf("unit %s failed: %v", label, err))
			log.Warn("unit failed", zap.String("unit", label), zap.Error(err))
			continue
		}

		won, err := o.persistUnit(ctx, spec, unit, qs)
		if err != nil {
			o.fail(j, log, err)
			return
		}
		if !won {
			// A concurrent run finished this key between our ledger
			// read and the write; its results stand, ours are dropped.
			o.say(j, SeverityInfo, fmt.Sprintf("skipped %s: completed by a concurrent run", label))
			done++
			o.publishProgress(j, done, total)
			continue
		}

		j.addQuestions(len(qs))
		done++
		o.say(j, SeveritySuccess, fmt.Sprintf("generated %d questions for %s", len(qs), label))
		o.sink.Publish(events.Event{
			Channel: events.JobChannel(j.ID(), events.TypeQuestionsGenerated),
			Type:    events.TypeQuestionsGenerated,
			Payload: map[string]any{
				"locator":  unit.Locator,
				"subUnit":  unit.SubUnitLabel,
				"count":    len(qs),
				"total":    j.Snapshot().QuestionsGenerated,
				"repaired": countRepaired(qs),
			},
		})
		o.publishProgress(j, done, total)
	}

	j.finish(StatusCompleted)
	snap := j.Snapshot()
	o.say(j, SeveritySuccess, fmt.Sprintf("job completed: %d questions from %d calls", snap.QuestionsGenerated, snap.CallsMade))
	o.sink.Publish(events.Event{
		Channel: events.JobChannel(j.ID(), events.TypeCompleted),
		Type:    events.TypeCompleted,
		Payload: map[string]any{
			"questionsGenerated": snap.QuestionsGenerated,
			"callsMade":          snap.CallsMade,
			"progressPercent":    snap.ProgressPercent,
		},
	})
	log.Info("job completed",
		zap.Int("questions", snap.QuestionsGenerated),
		zap.Int("calls", snap.CallsMade),
		zap.Int("progress", snap.ProgressPercent))
}

// enumerate walks group selectors and individual locators into the
// ordered unit list. Acquisition failures happen before any unit runs
// and are fatal to the job.
func (o *Orchestrator) enumerate(ctx context.Context, spec Spec) ([]content.WorkUnit, error) {
	type page struct {
		group   string
		locator string
	}
	var pages []page

	for _, selector := range spec.GroupSelectors {
		locators, err := o.fetcher.PagesInGroup(ctx, spec.SourceID, selector)
		if err != nil {
			return nil, &content.AcquisitionError{SourceID: spec.SourceID, Ref: selector, Err: err}
		}
		for _, loc := range locators {
			pages = append(pages, page{group: selector, locator: loc})
		}
	}
	for _, loc := range spec.IndividualLocators {
		pages = append(pages, page{group: content.GroupIndividual, locator: loc})
	}

	var units []content.WorkUnit
	for _, p := range pages {
		sections, err := o.fetcher.FetchContent(ctx, spec.SourceID, p.locator)
		if err != nil {
			return nil, &content.AcquisitionError{SourceID: spec.SourceID, Ref: p.locator, Err: err}
		}
		units = append(units, content.BuildUnits(spec.SourceID, p.group, p.locator, sections, spec.QuestionDensity)...)
	}
	return units, nil
}

// generateUnit runs the provider call for one unit, spending budget per
// attempt. A timed-out call is retried once when budget remains.
func (o *Orchestrator) generateUnit(ctx context.Context, j *Job, spec Spec, topic string, unit content.WorkUnit) ([]quizgen.Question, error) {
	prompt := quizgen.BuildPrompt(spec.PromptTemplate, topic, unitLabel(unit), unit.Text, unit.TargetQuestionCount)

	j.addCall()
	qs, err := o.gen.Generate(ctx, prompt, spec.ModelID, quizgen.Options{})
	if err == nil {
		return qs, nil
	}

	var timeout *llm.ErrTimeout
	if errors.As(err, &timeout) && j.callsMade() < spec.CallBudget {
		o.say(j, SeverityWarning, fmt.Sprintf("unit %s timed out, retrying once", unitLabel(unit)))
		j.addCall()
		return o.gen.Generate(ctx, prompt, spec.ModelID, quizgen.Options{})
	}
	return nil, err
}

// persistUnit hands the unit's results to the recorder. The mark and
// the archive write are one atomic operation there, so losing the key
// race drops our questions instead of duplicating the winner's.
func (o *Orchestrator) persistUnit(ctx context.Context, spec Spec, unit content.WorkUnit, qs []quizgen.Question) (bool, error) {
	rec := store.ProcessedRecord{
		Key:                unit.Key(),
		SourceID:           unit.SourceID,
		GroupLabel:         unit.GroupLabel,
		Locator:            unit.Locator,
		SubUnitLabel:       unit.SubUnitLabel,
		WordCount:          unit.WordCount,
		QuestionsGenerated: len(qs),
	}
	prov := store.Provenance{
		UnitKey:      unit.Key(),
		SourceID:     unit.SourceID,
		GroupLabel:   unit.GroupLabel,
		Locator:      unit.Locator,
		SubUnitLabel: unit.SubUnitLabel,
		ModelID:      spec.ModelID,
		Prompt:       spec.PromptTemplate,
	}
	won, err := o.recorder.RecordUnit(ctx, rec, prov, qs)
	if err != nil {
		return false, fmt.Errorf("persisting unit results: %w", err)
	}
	return won, nil
}

// say appends a job log entry and broadcasts it.
func (o *Orchestrator) say(j *Job, sev Severity, msg string) {
	entry := j.appendLog(sev, msg)
	o.sink.Publish(events.Event{
		Channel: events.JobChannel(j.ID(), events.TypeLog),
		Type:    events.TypeLog,
		Payload: entry,
	})
}

func (o *Orchestrator) publishProgress(j *Job, done, total int) {
	pct := j.setProgress(done * 100 / total)
	o.sink.Publish(events.Event{
		Channel: events.JobChannel(j.ID(), events.TypeProgress),
		Type:    events.TypeProgress,
		Payload: pct,
	})
}

// fail moves the job to the error state and emits the terminal event.
func (o *Orchestrator) fail(j *Job, log *zap.Logger, err error) {
	o.say(j, SeverityError, err.Error())
	j.finish(StatusError)
	o.sink.Publish(events.Event{
		Channel: events.JobChannel(j.ID(), events.TypeError),
		Type:    events.TypeError,
		Payload: err.Error(),
	})
	log.Error("job failed", zap.Error(err))
}

func unitLabel(unit content.WorkUnit) string {
	if unit.SubUnitLabel == "" {
		return unit.Locator
	}
	return fmt.Sprintf("%s / %s", unit.Locator, unit.SubUnitLabel)
}

func countRepaired(qs []quizgen.Question) int {
	n := 0
	for _, q := range qs {
		if q.Repaired {
			n++
		}
	}
	return n
}
