package defaultproto

import "github.com/edgarnunogubinvest/agents-aea/dialogue"

// NewDialogues constructs a dialogue.Dialogues registry preloaded with this
// protocol's descriptor.
func NewDialogues(agentAddress dialogue.Address) *dialogue.Dialogues {
	return dialogue.New(agentAddress, Descriptor())
}
