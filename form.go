package formrig

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultSeparator sits between a field label and its error in Form.Errors.
const DefaultSeparator = ": "

// Option configures a Form.
type Option func(*formConfig)

type formConfig struct {
	scheduler Scheduler
	separator string
	logger    zerolog.Logger
}

// WithScheduler runs the form on sched instead of a private Loop. The
// caller keeps ownership of sched.
func WithScheduler(sched Scheduler) Option {
	return func(cfg *formConfig) {
		cfg.scheduler = sched
	}
}

// WithSeparator sets the text placed between a label and its error.
func WithSeparator(separator string) Option {
	return func(cfg *formConfig) {
		cfg.separator = separator
	}
}

// WithLogger sets the logger for the form, its fields and validators.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *formConfig) {
		cfg.logger = logger
	}
}

// Form aggregates the validity and errors of the fields it owns.
type Form struct {
	id        uuid.UUID
	fields    []*Field
	byLabel   map[string]*Field
	separator string
	sched     Scheduler
	loop      *Loop // Set when the form owns its scheduler
	logger    zerolog.Logger

	mu           sync.RWMutex
	valid        bool
	errors       string
	version      uint64
	snapshots    []FieldSnapshot // Field states seen by the last aggregation
	aggregatedAt time.Time
	observers    map[uint64]func(FormSnapshot)
	nextObserver uint64
	closed       bool

	aggregating atomic.Bool  // An aggregation is queued and has not started
	inflight    atomic.Int32 // Aggregations queued or running
}

// NewForm builds a form from specs, activates it and validates the
// pre-populated fields. Invalid specs are reported together as a
// *ValidationError.
func NewForm(specs []FieldSpec, opts ...Option) (*Form, error) {
	cfg := formConfig{
		separator: DefaultSeparator,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := checkSpecs(specs); err != nil {
		return nil, err
	}

	form := &Form{
		id:        uuid.New(),
		byLabel:   make(map[string]*Field, len(specs)),
		separator: cfg.separator,
		sched:     cfg.scheduler,
	}
	form.logger = cfg.logger.With().Str("form", form.id.String()).Logger()

	if form.sched == nil {
		form.loop = NewLoop(WithLoopLogger(form.logger))
		form.sched = form.loop
	}

	form.fields = make([]*Field, 0, len(specs))
	for _, spec := range specs {
		field := newField(spec, form.sched, form.logger)
		form.fields = append(form.fields, field)
		form.byLabel[spec.Label] = field
	}

	form.snapshots = make([]FieldSnapshot, len(form.fields))
	for i, field := range form.fields {
		form.snapshots[i] = field.Snapshot()
	}

	form.logger.Debug().Int("fields", len(form.fields)).Msg("form created")

	form.Activate()
	form.ValidatePrePopulatedFields()
	return form, nil
}

// ID returns the form's instance identifier.
func (f *Form) ID() uuid.UUID { return f.id }

// Separator returns the label/error separator.
func (f *Form) Separator() string { return f.separator }

// Activate attaches every field to the form and runs its initial pass.
// Calling it again has no effect on fields already attached.
func (f *Form) Activate() {
	f.sched.Dispatch(func() {
		if f.isClosed() {
			return
		}
		attached := 0
		for i, field := range f.fields {
			if field.attach(f, i) {
				attached++
			}
			field.initialize()
		}
		if attached > 0 {
			f.logger.Debug().Int("attached", attached).Msg("fields activated")
		}
		f.Validate()
	})
}

// Validate requests an aggregation pass. Requests made before the pending
// pass runs are served by it.
func (f *Form) Validate() {
	if !f.aggregating.CompareAndSwap(false, true) {
		return
	}
	f.inflight.Add(1)
	f.sched.Dispatch(f.aggregate)
}

// ValidatePrePopulatedFields leaves the pristine state for every field
// holding a non-empty invalid value, so its errors show without an edit.
func (f *Form) ValidatePrePopulatedFields() {
	f.sched.Dispatch(func() {
		if f.isClosed() {
			return
		}
		for _, field := range f.fields {
			if !field.initialized {
				continue
			}
			snap := field.Snapshot()
			if snap.Value == "" || snap.Valid {
				continue
			}
			field.touch()
			field.pass()
		}
		f.Validate()
	})
}

func (f *Form) fieldChanged(*Field) {
	f.Validate()
}

func (f *Form) aggregate() {
	defer f.inflight.Add(-1)
	f.aggregating.Store(false)
	if f.isClosed() {
		return
	}

	snapshots := make([]FieldSnapshot, len(f.fields))
	valid := true
	var errors strings.Builder
	for i, field := range f.fields {
		snap := field.Snapshot()
		snapshots[i] = snap
		if !snap.Valid {
			valid = false
		}
		if snap.Error != "" {
			errors.WriteString(snap.Label)
			errors.WriteString(f.separator)
			errors.WriteString(snap.Error)
			errors.WriteByte('\n')
		}
	}

	f.mu.Lock()
	f.valid = valid
	f.errors = errors.String()
	f.snapshots = snapshots
	f.aggregatedAt = f.sched.Now().UTC()
	f.version++
	snapshot := f.snapshotLocked()
	observers := make([]func(FormSnapshot), 0, len(f.observers))
	for _, fn := range f.observers {
		observers = append(observers, fn)
	}
	f.mu.Unlock()

	f.logger.Debug().
		Uint64("version", snapshot.Aggregate).
		Bool("valid", snapshot.Valid).
		Int("errors", strings.Count(snapshot.Errors, "\n")).
		Msg("form aggregated")

	for _, fn := range observers {
		fn(snapshot)
	}
}

// Valid reports whether every field was valid at the last aggregation.
func (f *Form) Valid() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.valid
}

// Errors returns one "<label><separator><error>\n" line per field with a
// displayed error, in declaration order.
func (f *Form) Errors() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errors
}

// Version counts completed aggregation passes.
func (f *Form) Version() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.version
}

// Snapshot returns the state of the last aggregation, including the field
// states it was computed from.
func (f *Form) Snapshot() FormSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotLocked()
}

func (f *Form) snapshotLocked() FormSnapshot {
	return FormSnapshot{
		Version:   SnapshotVersion,
		ID:        f.id.String(),
		Timestamp: f.aggregatedAt,
		Aggregate: f.version,
		Valid:     f.valid,
		Errors:    f.errors,
		Separator: f.separator,
		Fields:    append([]FieldSnapshot(nil), f.snapshots...),
	}
}

// Field returns the field with the given label.
func (f *Form) Field(label string) (*Field, bool) {
	field, ok := f.byLabel[label]
	return field, ok
}

// Fields returns the fields in declaration order.
func (f *Form) Fields() []*Field {
	return append([]*Field(nil), f.fields...)
}

// Subscribe registers fn to receive the form snapshot after every
// aggregation pass. fn runs on the form's scheduler.
func (f *Form) Subscribe(fn func(FormSnapshot)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || fn == nil {
		return func() {}
	}
	if f.observers == nil {
		f.observers = make(map[uint64]func(FormSnapshot))
	}
	id := f.nextObserver
	f.nextObserver++
	f.observers[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.observers, id)
	}
}

// flusher is implemented by schedulers that can wait for their queue to
// drain.
type flusher interface {
	Flush(ctx context.Context) error
}

// Sync waits until every task queued on the form's scheduler before the
// call has run, along with the aggregation passes they requested. Pending
// debounce timers are not waited for.
func (f *Form) Sync(ctx context.Context) error {
	if f.isClosed() {
		return ErrClosed
	}
	fl, ok := f.sched.(flusher)
	if !ok {
		return fmt.Errorf("formrig: scheduler %T cannot be flushed", f.sched)
	}
	for {
		if err := fl.Flush(ctx); err != nil {
			return err
		}
		if f.inflight.Load() == 0 {
			return nil
		}
	}
}

// Close releases every field subscription and back-reference, cancels
// pending debounce timers and stops the form's own scheduler. Fields of a
// closed form ignore writes.
func (f *Form) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.observers = nil
	f.mu.Unlock()

	for _, field := range f.fields {
		field.detach()
	}
	f.sched.Dispatch(func() {
		for _, field := range f.fields {
			field.cancelPending()
		}
	})

	if f.loop != nil {
		f.loop.Close()
	}
	f.logger.Debug().Msg("form closed")
	return nil
}

func (f *Form) isClosed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}
