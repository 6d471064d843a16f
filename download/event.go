package download

// Phase identifies a step of a download in progress.
type Phase int

const (
	PhaseValidating Phase = iota + 1
	PhaseDownloading
	PhaseSaving
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseDownloading:
		return "downloading"
	case PhaseSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// Message returns a status line narrating the phase.
func (p Phase) Message() string {
	switch p {
	case PhaseValidating:
		return "Validating image URL..."
	case PhaseDownloading:
		return "Downloading image..."
	case PhaseSaving:
		return "Saving image..."
	default:
		return "Working..."
	}
}

// Result is the terminal outcome of a download. Exactly one of Err or
// SavedPath is set.
type Result struct {
	SavedPath string // Full path of the written file.
	Filename  string // Final filename, after collision avoidance.
	Err       error  // Reason for failure.
}

// Success returns a successful result.
func Success(savedPath string, filename string) Result {
	return Result{SavedPath: savedPath, Filename: filename}
}

// Failure returns a failed result.
func Failure(err error) Result {
	return Result{Err: err}
}

// OK returns true if the download succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Reason returns the failure reason, or the empty string on success.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Reporter receives notifications about a single download. Progress may be
// called any number of times; Finished is called exactly once, last.
type Reporter interface {
	Progress(p Phase)
	Finished(r Result)
}

// ReporterFuncs adapts a pair of functions to the Reporter interface. Nil
// functions are skipped.
type ReporterFuncs struct {
	OnProgress func(p Phase)
	OnFinished func(r Result)
}

func (rf ReporterFuncs) Progress(p Phase) {
	if rf.OnProgress != nil {
		rf.OnProgress(p)
	}
}

func (rf ReporterFuncs) Finished(r Result) {
	if rf.OnFinished != nil {
		rf.OnFinished(r)
	}
}

// Event is a notification delivered by ChanReporter. Result is non-nil only
// for the terminal event.
type Event struct {
	Phase  Phase
	Result *Result
}

// Terminal returns true if this is the final event of a download.
func (e Event) Terminal() bool {
	return e.Result != nil
}

// ChanReporter delivers notifications as events on a channel. It blocks
// until each event is received. It never closes the channel.
type ChanReporter chan<- Event

func (c ChanReporter) Progress(p Phase) {
	c <- Event{Phase: p}
}

func (c ChanReporter) Finished(r Result) {
	c <- Event{Result: &r}
}
