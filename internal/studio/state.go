package studio

import "github.com/tessro/chorus/internal/core"

// Phase is the controller's lifecycle position.
type Phase int

const (
	// PhaseIdle is a constructed controller that has not been initialized.
	PhaseIdle Phase = iota
	// PhaseReady means media is bound and an autoplay attempt is in flight.
	PhaseReady
	PhasePlaying
	// PhasePaused covers a manual pause, end of media and a rejected play.
	PhasePaused
	// PhaseDisposed is terminal.
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// State is a snapshot of everything the rendering layer observes.
type State struct {
	Phase     Phase
	IsPlaying bool

	// Progress is the playback position in percent of duration.
	Progress    float64
	CurrentTime string
	Duration    string

	DominantColor core.RGB

	// BassPower is the latest normalized low-frequency energy in [0,1].
	BassPower      float64
	RotationTarget float64
	ScaleTarget    float64

	IsSaving      bool
	CustomMessage string

	// HasAudio is false when the track has no preview; playback is disabled.
	HasAudio bool
	// Visualizer is false once analysis failed to start.
	Visualizer bool
}

func initialState(track *core.Track) State {
	return State{
		Phase:          PhaseIdle,
		CurrentTime:    core.FormatTime(0),
		Duration:       core.FormatTime(placeholderDuration),
		DominantColor:  core.NeutralGray,
		RotationTarget: restRotation,
		ScaleTarget:    restScale,
		HasAudio:       track.HasAudio(),
		Visualizer:     true,
	}
}
