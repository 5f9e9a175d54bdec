package pipeline

// State is the single live status of a pipeline run.
type State int

const (
	StateWaiting State = iota
	StateConverting
	StateUploading
	StateGenerating
	StateSuccess
	StateError
)

var stateNames = map[State]string{
	StateWaiting:    "waiting",
	StateConverting: "converting",
	StateUploading:  "uploading",
	StateGenerating: "generating",
	StateSuccess:    "success",
	StateError:      "error",
}

var stateMessages = map[State]string{
	StateWaiting:    "Waiting...",
	StateConverting: "Converting...",
	StateUploading:  "Uploading...",
	StateGenerating: "Generating...",
	StateSuccess:    "Success!",
	StateError:      "Error!",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Message is the user-facing status text.
func (s State) Message() string {
	return stateMessages[s]
}

// Editable reports whether file selection and prompt input are allowed.
func (s State) Editable() bool {
	return s == StateWaiting
}

// Terminal reports whether a run has ended in s.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateError
}

// transitions lists the legal edges of the state machine.
var transitions = map[State][]State{
	StateWaiting:    {StateConverting},
	StateConverting: {StateUploading, StateError},
	StateUploading:  {StateGenerating, StateError},
	StateGenerating: {StateSuccess, StateError},
	StateSuccess:    {StateWaiting},
	StateError:      {StateWaiting},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
