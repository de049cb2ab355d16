package action

// Action is an immutable event describing something that happened to a build step.
// The set of variants is sealed to this package.
type Action interface {
	action()
}

// Start signals that a step began.
type Start struct {
	ID     ID
	Kind   StepKind
	Text   string
	Parent ID
	Level  Verbosity
}

// Stop signals that the step identified by ID has concluded.
type Stop struct {
	ID ID
}

// Message is a free-standing diagnostic not tied to any step.
type Message struct {
	Level Verbosity
	Text  string
}

// Progress holds the counters carried by progress results.
type Progress struct {
	Done     int64
	Expected int64
	Running  int64
	Failed   int64
}

// Result carries per-step output: a log line, a phase change or progress counters.
type Result struct {
	ID       ID
	Kind     ResultKind
	Text     string
	Progress Progress
}

func (Start) action()   {}
func (Stop) action()    {}
func (Message) action() {}
func (Result) action()  {}

// StepID returns the step an action refers to.
// Message actions are not tied to a step and report false.
func StepID(a Action) (ID, bool) {
	switch a := a.(type) {
	case Start:
		return a.ID, true
	case Stop:
		return a.ID, true
	case Result:
		return a.ID, true
	default:
		return 0, false
	}
}

// Name returns a short name for the action variant, used in logs and errors.
func Name(a Action) string {
	switch a.(type) {
	case Start:
		return "start"
	case Stop:
		return "stop"
	case Message:
		return "msg"
	case Result:
		return "result"
	default:
		return "unknown"
	}
}

// IsStopFor reports whether a is a Stop for id.
func IsStopFor(a Action, id ID) bool {
	stop, ok := a.(Stop)
	return ok && stop.ID == id
}
