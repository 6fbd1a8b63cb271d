package workflow

// Stage is the workflow state of a maintenance request.
//
//	New -> InProgress -> Repaired
//	 \         |           |
//	  +--------+-----------+--> Scrap (terminal)
//
// Scrap is terminal and reachable from every non-terminal stage. Reaching it
// cascades into equipment deactivation, which is why callers must ask for
// explicit confirmation before requesting it.
type Stage string

const (
	StageNew        Stage = "new"
	StageInProgress Stage = "in_progress"
	StageRepaired   Stage = "repaired"
	StageScrap      Stage = "scrap"
)

func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageInProgress, StageRepaired, StageScrap:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves the stage.
func (s Stage) Terminal() bool {
	return s == StageScrap
}

// forward is the standard repair path.
var forward = map[Stage]Stage{
	StageNew:        StageInProgress,
	StageInProgress: StageRepaired,
}

// IsValidTransition reports whether a request may move from one stage to
// another. Repeating the current stage is not a transition; callers detect
// from == to first and treat it as a no-op instead of consulting the graph.
func IsValidTransition(from, to Stage) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from.Terminal() {
		return false
	}
	if to == StageScrap {
		return true
	}
	return forward[from] == to
}

// Stages lists every stage in workflow order, for dashboards and seeding.
func Stages() []Stage {
	return []Stage{StageNew, StageInProgress, StageRepaired, StageScrap}
}
