package resolver

import "github.com/harunnryd/callpanel/pkg/catalog"

// Selection is the user-facing choice for one component. Language is empty
// for components without a language axis.
type Selection struct {
	Provider string `json:"provider"`
	Language string `json:"language,omitempty"`
	Model    string `json:"model"`
}

// Axis names the field of a Selection an edit touched.
type Axis string

const (
	AxisProvider Axis = "provider"
	AxisLanguage Axis = "language"
	AxisModel    Axis = "model"
)

// Touch marks the last user-edited axis.
type Touch struct {
	Component catalog.Component `json:"component,omitempty"`
	Axis      Axis              `json:"axis,omitempty"`
}

// State holds one Selection per component. It is a value type: transitions
// return a new State and never mutate the one they were given.
type State struct {
	STT         Selection `json:"stt"`
	LLM         Selection `json:"llm"`
	TTS         Selection `json:"tts"`
	LastTouched Touch     `json:"last_touched"`
}

// Get returns the selection for comp.
func (s State) Get(comp catalog.Component) Selection {
	switch comp {
	case catalog.STT:
		return s.STT
	case catalog.LLM:
		return s.LLM
	case catalog.TTS:
		return s.TTS
	default:
		panic("resolver: unknown component " + string(comp))
	}
}

func (s *State) set(comp catalog.Component, sel Selection) {
	switch comp {
	case catalog.STT:
		s.STT = sel
	case catalog.LLM:
		s.LLM = sel
	case catalog.TTS:
		s.TTS = sel
	default:
		panic("resolver: unknown component " + string(comp))
	}
}

// EventKind is the kind of single-axis edit.
type EventKind string

const (
	ProviderChanged EventKind = "provider"
	LanguageChanged EventKind = "language"
	ModelChanged    EventKind = "model"
)

// Event is one user-initiated edit.
type Event struct {
	Kind      EventKind         `json:"kind"`
	Component catalog.Component `json:"component"`
	Value     string            `json:"value"`
}
