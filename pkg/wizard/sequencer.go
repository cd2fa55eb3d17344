package wizard

// CorrectionFunc receives the clamped index when an evaluation pulls an
// out-of-range index back into bounds. Hosts use it to sync their own state
// holder (a hidden form input, a session value, a query parameter).
type CorrectionFunc func(index int)

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithCorrection registers the callback invoked once per out-of-range
// evaluation.
func WithCorrection(fn CorrectionFunc) Option {
	return func(s *Sequencer) {
		s.onCorrect = fn
	}
}

// WithoutAutoCorrect keeps the stored index untouched during evaluation. The
// reported index is still clamped, but no correction is written back.
func WithoutAutoCorrect() Option {
	return func(s *Sequencer) {
		s.manual = true
	}
}

// WithInitialStep seeds the stored index. The value is clamped lazily like any
// other SetStep call.
func WithInitialStep(index int) Option {
	return func(s *Sequencer) {
		s.current = index
	}
}

// Sequencer tracks the active position within an externally supplied, ordered
// list of steps. The zero value is ready to use and starts at step 0.
//
// A Sequencer is not safe for concurrent use; hosts own one per flow instance.
type Sequencer struct {
	current   int
	count     int
	onCorrect CorrectionFunc
	manual    bool
}

// NewSequencer constructs a sequencer positioned at step 0.
func NewSequencer(options ...Option) *Sequencer {
	s := &Sequencer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Clamp constrains index to [0, max(1, stepCount)).
func Clamp(index, stepCount int) int {
	if index < 0 || stepCount <= 0 {
		return 0
	}
	if index >= stepCount {
		return stepCount - 1
	}
	return index
}

// Evaluate reconciles the stored index with the latest step count and returns
// the index the host should display. When the stored index is out of range it
// is corrected exactly once; evaluating an in-range index is a no-op.
func (s *Sequencer) Evaluate(stepCount int) int {
	if stepCount < 0 {
		stepCount = 0
	}
	s.count = stepCount

	clamped := Clamp(s.current, stepCount)
	if clamped == s.current || s.manual {
		return clamped
	}

	s.current = clamped
	if s.onCorrect != nil {
		s.onCorrect(clamped)
	}
	return clamped
}

// Index reports the active index against the step count seen on the latest
// evaluation.
func (s *Sequencer) Index() int {
	return Clamp(s.current, s.count)
}

// Stored exposes the raw value held by the sequencer, before clamping. It
// differs from Index only between a SetStep call and the next evaluation, or
// permanently when auto correction is disabled.
func (s *Sequencer) Stored() int {
	return s.current
}

// StepCount reports the step count recorded by the latest evaluation.
func (s *Sequencer) StepCount() int {
	return s.count
}

// Advance moves to the next step unless the active step is already the last.
func (s *Sequencer) Advance() {
	idx := s.Index()
	if idx < s.count-1 {
		s.current = idx + 1
	}
}

// AdvanceIf advances only when valid is true. The flag is owned by the host's
// form logic; the sequencer only obeys it.
func (s *Sequencer) AdvanceIf(valid bool) {
	if !valid {
		return
	}
	s.Advance()
}

// Retreat moves to the previous step unless the active step is the first.
func (s *Sequencer) Retreat() {
	idx := s.Index()
	if idx > 0 {
		s.current = idx - 1
	}
}

// SetStep stores index as-is. Out-of-range values are reconciled on the next
// evaluation rather than rejected here.
func (s *Sequencer) SetStep(index int) {
	s.current = index
}

// CanAdvance reports whether a step follows the active one in a list of
// stepCount steps.
func (s *Sequencer) CanAdvance(stepCount int) bool {
	return Clamp(s.current, stepCount) < stepCount-1
}

// CanRetreat reports whether a step precedes the active one.
func (s *Sequencer) CanRetreat() bool {
	return s.Index() > 0
}
