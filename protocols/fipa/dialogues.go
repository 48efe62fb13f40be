package fipa

import "github.com/edgarnunogubinvest/agents-aea/dialogue"

// NewDialogues constructs a dialogue.Dialogues registry preloaded with this
// protocol's descriptor, mirroring the generated per-protocol Dialogues
// subclass of the source framework (e.g. t_protocol_no_ct's Dialogues,
// which does nothing but pin message_class/dialogue_class/end_states for
// its protocol).
func NewDialogues(agentAddress dialogue.Address) *dialogue.Dialogues {
	return dialogue.New(agentAddress, Descriptor())
}
