package service

type Outcome string

const (
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomePersistFailed    Outcome = "persist_failed"
	OutcomePersisted        Outcome = "persisted"
)

// FieldErrors maps a form field name to its validation messages.
type FieldErrors map[string][]string

// State is what the form renderer shows back to the user.
type State struct {
	Errors  FieldErrors `json:"errors,omitempty"`
	Message string      `json:"message,omitempty"`
}

type SignalKind string

const (
	SignalRevalidate SignalKind = "revalidate"
	SignalRedirect   SignalKind = "redirect"
)

// Signal is an effect the caller must apply after a successful mutation.
type Signal struct {
	Kind SignalKind
	Path string
}

type Result struct {
	Outcome Outcome
	State   State
	Signals []Signal
}

func (r Result) OK() bool {
	return r.Outcome == OutcomePersisted
}

// RedirectTo returns the path of the redirect signal, if any.
func (r Result) RedirectTo() (string, bool) {
	for _, s := range r.Signals {
		if s.Kind == SignalRedirect {
			return s.Path, true
		}
	}
	return "", false
}

// RevalidatePaths lists every path whose cached views are stale.
func (r Result) RevalidatePaths() []string {
	var paths []string
	for _, s := range r.Signals {
		if s.Kind == SignalRevalidate {
			paths = append(paths, s.Path)
		}
	}
	return paths
}

func validationFailed(errs FieldErrors, message string) Result {
	return Result{
		Outcome: OutcomeValidationFailed,
		State:   State{Errors: errs, Message: message},
	}
}

func persistFailed(message string) Result {
	return Result{
		Outcome: OutcomePersistFailed,
		State:   State{Message: message},
	}
}

func persisted(signals ...Signal) Result {
	return Result{
		Outcome: OutcomePersisted,
		Signals: signals,
	}
}
