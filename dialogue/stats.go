package dialogue

import "fmt"

// Stats keeps two end_state -> count histograms, one for self-initiated
// dialogues and one for opponent-initiated ones. It is the core's only
// retained information about dialogues once an end state has been recorded
// for them; the core does not otherwise track "the conversation ended."
type Stats struct {
	endStates      map[EndState]struct{}
	selfInitiated  map[EndState]int
	opponentInited map[EndState]int
}

// newStats initializes a Stats for the given set of declared end states.
func newStats(endStates map[EndState]struct{}) *Stats {
	self := make(map[EndState]int, len(endStates))
	opp := make(map[EndState]int, len(endStates))
	for e := range endStates {
		self[e] = 0
		opp[e] = 0
	}
	return &Stats{endStates: endStates, selfInitiated: self, opponentInited: opp}
}

// SelfInitiated returns the self-initiated end-state histogram.
func (s *Stats) SelfInitiated() map[EndState]int { return s.selfInitiated }

// OpponentInitiated returns the opponent-initiated end-state histogram.
func (s *Stats) OpponentInitiated() map[EndState]int { return s.opponentInited }

// AddEndState increments the counter for endState in the appropriate
// histogram.
//
// Panics (ProgrammerError class per spec §7) if endState was not declared
// by the protocol descriptor's EndStates set.
func (s *Stats) AddEndState(endState EndState, isSelfInitiated bool) {
	if _, ok := s.endStates[endState]; !ok {
		panic(fmt.Sprintf("dialogue: end state %v not present", endState))
	}
	if isSelfInitiated {
		s.selfInitiated[endState]++
	} else {
		s.opponentInited[endState]++
	}
}
