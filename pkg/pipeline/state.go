package pipeline

// State is the processing stage a document has reached.
type State string

const (
	StatePending          State = "pending"
	StateRasterized       State = "rasterized"
	StateScored           State = "scored"
	StateSelected         State = "selected"
	StateNoPageFound      State = "no_page_found"
	StateCorrected        State = "corrected"
	StateExtracted        State = "extracted"
	StateExtractionFailed State = "extraction_failed"
	StateFinalized        State = "finalized"
)

// Trace records how a single document went through the pipeline.
type Trace struct {
	Name string

	States []State

	Pages  int
	Scores []int

	// Page is the selected page index, -1 when none was chosen.
	Page int

	Rotated bool

	Err error
}

func newTrace(name string) *Trace {
	return &Trace{
		Name: name,
		Page: -1,

		States: []State{StatePending},
	}
}

func (t *Trace) enter(s State) {
	t.States = append(t.States, s)
}

// State returns the last state reached.
func (t *Trace) State() State {
	return t.States[len(t.States)-1]
}

// Reached reports whether the document passed through s.
func (t *Trace) Reached(s State) bool {
	for _, state := range t.States {
		if state == s {
			return true
		}
	}

	return false
}
