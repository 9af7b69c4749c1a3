package workflow

// Phase is where a session sits in the outreach funnel. Normal flow moves
// strictly forward; backward jumps happen only through explicit actions.
type Phase string

const (
	PhaseTargeting  Phase = "targeting"
	PhaseProcessing Phase = "processing"
	PhaseDiscovery  Phase = "discovery"
	PhaseSelection  Phase = "selection"
	PhaseExtraction Phase = "extraction"
	PhaseOutreach   Phase = "outreach"
)

func (p Phase) Valid() bool {
	switch p {
	case PhaseTargeting, PhaseProcessing, PhaseDiscovery, PhaseSelection, PhaseExtraction, PhaseOutreach:
		return true
	}
	return false
}

// backJumps lists the explicit backward navigations a user may take.
// Everything else moves through the guarded forward transitions or Reset.
var backJumps = map[Phase][]Phase{
	PhaseDiscovery: {PhaseTargeting},
	PhaseSelection: {PhaseTargeting},
	PhaseOutreach:  {PhaseSelection},
}

func backAllowed(from, to Phase) bool {
	for _, t := range backJumps[from] {
		if t == to {
			return true
		}
	}
	return false
}
