package pipeline

// State is a pipeline lifecycle stage
type State int32

const (
	StateIdle State = iota
	StateLoadingSchedule
	StateExtractingPlays
	StateAccumulating
	StateExporting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingSchedule:
		return "loading_schedule"
	case StateExtractingPlays:
		return "extracting_plays"
	case StateAccumulating:
		return "accumulating"
	case StateExporting:
		return "exporting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
