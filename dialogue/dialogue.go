package dialogue

import "fmt"

// StartingMessageID is the message_id of the first message in any
// dialogue.
const StartingMessageID = 1

// StartingTarget is the target of the first message in any dialogue.
const StartingTarget = 0

// Dialogue is the per-conversation state machine. It records message
// history and enforces the structural validity rules of spec §4.2. A
// Dialogue is created only by a Dialogues registry and is mutated only
// through Update and Reply.
type Dialogue struct {
	agentAddress Address
	protocol     *ProtocolDescriptor
	role         Role

	label           Label
	incompleteLabel Label
	isSelfInitiated bool

	outgoing []Message
	incoming []Message
}

// newDialogue constructs a Dialogue for the given label and role. Only
// called by a Dialogues registry.
func newDialogue(label Label, protocol *ProtocolDescriptor, agentAddress Address, role Role) *Dialogue {
	return &Dialogue{
		agentAddress:    agentAddress,
		protocol:        protocol,
		role:            role,
		label:           label,
		incompleteLabel: label.Incomplete(),
		isSelfInitiated: label.OpponentAddr != label.StarterAddr,
		outgoing:        nil,
		incoming:        nil,
	}
}

// Label returns the dialogue's current label.
func (d *Dialogue) Label() Label { return d.label }

// IncompleteLabel returns the cached incomplete form of the dialogue's
// original label.
func (d *Dialogue) IncompleteLabel() Label { return d.incompleteLabel }

// Labels returns the set of labels (current and incomplete) under which
// this dialogue may be addressed.
func (d *Dialogue) Labels() [2]Label {
	return [2]Label{d.label, d.incompleteLabel}
}

// AgentAddress returns the address of the agent for whom this dialogue is
// maintained.
func (d *Dialogue) AgentAddress() Address { return d.agentAddress }

// Role returns the agent's role in this dialogue.
func (d *Dialogue) Role() Role { return d.role }

// IsSelfInitiated reports whether the owning agent started this
// conversation (address equality, not identity — spec §9 open question).
func (d *Dialogue) IsSelfInitiated() bool { return d.isSelfInitiated }

// IsEmpty reports whether no message has yet been recorded.
func (d *Dialogue) IsEmpty() bool {
	return len(d.outgoing) == 0 && len(d.incoming) == 0
}

// LastIncomingMessage returns the most recently appended incoming message,
// or nil if there is none.
func (d *Dialogue) LastIncomingMessage() Message {
	if len(d.incoming) == 0 {
		return nil
	}
	return d.incoming[len(d.incoming)-1]
}

// LastOutgoingMessage returns the most recently appended outgoing message,
// or nil if there is none.
func (d *Dialogue) LastOutgoingMessage() Message {
	if len(d.outgoing) == 0 {
		return nil
	}
	return d.outgoing[len(d.outgoing)-1]
}

// LastMessage returns the message with the greatest message_id across both
// logs, or nil if the dialogue is empty.
func (d *Dialogue) LastMessage() Message {
	in, out := d.LastIncomingMessage(), d.LastOutgoingMessage()
	switch {
	case in != nil && out != nil:
		if out.MessageID() > in.MessageID() {
			return out
		}
		return in
	case in != nil:
		return in
	case out != nil:
		return out
	default:
		return nil
	}
}

// GetMessage returns the message with the given message_id, if present.
func (d *Dialogue) GetMessage(messageID int) (Message, bool) {
	for _, m := range d.outgoing {
		if m.MessageID() == messageID {
			return m, true
		}
	}
	for _, m := range d.incoming {
		if m.MessageID() == messageID {
			return m, true
		}
	}
	return nil, false
}

func (d *Dialogue) isMessageBySelf(message Message) bool {
	return message.Sender() == d.agentAddress
}

// Update validates message and appends it to the appropriate log. On
// egress, if the message's sender is unset it is assigned the owning
// agent's address before validation.
//
// Returns an *InvalidMessageError (wrapping ErrInvalidDialogueMessage) if
// message neither belongs to this dialogue nor is a valid next message.
func (d *Dialogue) Update(message Message) error {
	if !message.HasSender() {
		message.SetSender(d.agentAddress)
	}

	if !d.isBelongingToDialogue(message) {
		return &InvalidMessageError{Reason: "message does not belong to this dialogue"}
	}

	if ok, reason := d.isValidNextMessage(message); !ok {
		return &InvalidMessageError{Reason: reason}
	}

	if d.isMessageBySelf(message) {
		d.outgoing = append(d.outgoing, message)
	} else {
		d.incoming = append(d.incoming, message)
	}

	pkgLogger.Debug().
		Str("protocol", d.protocol.Name).
		Str("dialogue_label", d.label.String()).
		Interface("performative", message.Performative()).
		Int("message_id", message.MessageID()).
		Msg("dialogue: message accepted")

	return nil
}

// isBelongingToDialogue reconstructs message's label and checks it against
// this dialogue's {current, incomplete} label set.
func (d *Dialogue) isBelongingToDialogue(message Message) bool {
	var opponent Address
	if d.isMessageBySelf(message) {
		opponent = message.To()
	} else {
		opponent = message.Sender()
	}

	var candidate Label
	if d.isSelfInitiated {
		candidate = Label{
			Reference:    Reference{Starter: message.DialogueReference().Starter, Responder: UnassignedReference},
			OpponentAddr: opponent,
			StarterAddr:  d.agentAddress,
		}
	} else {
		candidate = Label{
			Reference:    message.DialogueReference(),
			OpponentAddr: opponent,
			StarterAddr:  opponent,
		}
	}

	labels := d.Labels()
	return candidate == labels[0] || candidate == labels[1]
}

// Reply constructs a new message replying to targetMessage with the given
// performative and protocol-specific content, validates it via Update, and
// returns it.
//
// Panics if the dialogue is empty (ProgrammerError class per spec §7).
func (d *Dialogue) Reply(targetMessage Message, performative Performative, contentFields any) (Message, error) {
	last := d.LastMessage()
	if last == nil {
		panic("dialogue: cannot reply in an empty dialogue")
	}

	reply, err := d.protocol.NewMessage(
		d.label.Reference,
		last.MessageID()+1,
		targetMessage.MessageID(),
		performative,
		contentFields,
	)
	if err != nil {
		return nil, fmt.Errorf("dialogue: constructing reply: %w", err)
	}
	reply.SetSender(d.agentAddress)
	reply.SetTo(d.label.OpponentAddr)

	if err := d.Update(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// UpdateDialogueLabel replaces the dialogue's current (incomplete) label
// with final, provided the current label's responder reference is still
// unassigned and final's is set.
//
// Panics (ProgrammerError class) if that precondition does not hold.
func (d *Dialogue) UpdateDialogueLabel(final Label) {
	if d.label.Reference.Responder != UnassignedReference || final.Reference.Responder == UnassignedReference {
		panic("dialogue: label cannot be updated")
	}
	d.label = final
}

// isValidNextMessage runs the three-stage validity pipeline, short-
// circuiting on the first failure.
func (d *Dialogue) isValidNextMessage(message Message) (bool, string) {
	if ok, reason := d.basicValidation(message); !ok {
		return false, reason
	}
	if d.protocol.StrictTargetPredecessor {
		if ok, reason := d.additionalValidation(message); !ok {
			return false, reason
		}
	}
	if d.protocol.IsValid != nil {
		if ok, reason := d.protocol.IsValid(d, message); !ok {
			return false, reason
		}
	}
	return true, "message is valid with respect to this dialogue"
}

// basicValidation enforces the structural constraints in force for every
// protocol (spec §4.2, stage 1).
func (d *Dialogue) basicValidation(message Message) (bool, string) {
	ref := message.DialogueReference()
	messageID := message.MessageID()
	target := message.Target()
	performative := message.Performative()

	last := d.LastMessage()
	if last == nil {
		if ref.Starter != d.label.Reference.Starter {
			return false, fmt.Sprintf("invalid dialogue_reference[0]: expected %q, found %q", d.label.Reference.Starter, ref.Starter)
		}
		if messageID != StartingMessageID {
			return false, fmt.Sprintf("invalid message_id: expected %d, found %d", StartingMessageID, messageID)
		}
		if target != StartingTarget {
			return false, fmt.Sprintf("invalid target: expected %d, found %d", StartingTarget, target)
		}
		if !d.protocol.isInitialPerformative(performative) {
			return false, fmt.Sprintf("invalid initial performative %v", performative)
		}
		return true, ""
	}

	if ref.Starter != d.label.Reference.Starter {
		return false, fmt.Sprintf("invalid dialogue_reference[0]: expected %q, found %q", d.label.Reference.Starter, ref.Starter)
	}

	lastID := last.MessageID()
	if messageID != lastID+1 {
		return false, fmt.Sprintf("invalid message_id: expected %d, found %d", lastID+1, messageID)
	}
	if target < 1 {
		return false, fmt.Sprintf("invalid target: expected a value >= 1, found %d", target)
	}
	if target > lastID {
		return false, fmt.Sprintf("invalid target: expected a value <= %d, found %d", lastID, target)
	}

	targetMessage, ok := d.GetMessage(target)
	if !ok {
		return false, fmt.Sprintf("no message with id %d in this dialogue", target)
	}
	validReplies, _ := d.protocol.validRepliesTo(targetMessage.Performative())
	if _, ok := validReplies[performative]; !ok {
		return false, fmt.Sprintf("invalid performative %v: not a valid reply to %v", performative, targetMessage.Performative())
	}
	return true, ""
}

// additionalValidation enforces the stricter "target the immediate
// predecessor" rule. Marked in spec §4.2 and §9 as subject to change; gated
// behind ProtocolDescriptor.StrictTargetPredecessor.
func (d *Dialogue) additionalValidation(message Message) (bool, string) {
	last := d.LastMessage()
	if last == nil {
		return true, ""
	}
	if message.Target() != last.Target()+1 {
		return false, fmt.Sprintf("invalid target: expected %d, found %d", last.Target()+1, message.Target())
	}
	return true, ""
}

// String renders the dialogue's label followed by one performative per
// line, interleaving outgoing/incoming in perspective order (self-
// initiated: outgoing first; opponent-initiated: incoming first).
func (d *Dialogue) String() string {
	out := "Dialogue Label: " + d.label.String() + "\n"

	var first, second []Message
	if d.isSelfInitiated {
		first, second = d.outgoing, d.incoming
	} else {
		first, second = d.incoming, d.outgoing
	}

	for i := 0; i < len(first) || i < len(second); i++ {
		if i < len(first) {
			out += fmt.Sprintf("%v()\n", first[i].Performative())
		}
		if i < len(second) {
			out += fmt.Sprintf("%v()\n", second[i].Performative())
		}
	}
	return out
}
