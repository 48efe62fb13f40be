package dialogue

import "fmt"

// Dialogues is the per-agent registry: it maps labels to dialogues,
// promotes incomplete self-initiated labels to their complete form once the
// responder's first reply arrives, allocates nonces, routes inbound
// messages, and tracks end-state statistics.
type Dialogues struct {
	agentAddress Address
	protocol     *ProtocolDescriptor
	stats        *Stats

	byLabel              map[Label]*Dialogue
	incompleteToComplete map[Label]Label
}

// New constructs a Dialogues registry for agentAddress, bound to protocol.
// protocol is treated as immutable shared state for the registry's
// lifetime.
func New(agentAddress Address, protocol *ProtocolDescriptor) *Dialogues {
	return &Dialogues{
		agentAddress:         agentAddress,
		protocol:             protocol,
		stats:                newStats(protocol.EndStates),
		byLabel:              make(map[Label]*Dialogue),
		incompleteToComplete: make(map[Label]Label),
	}
}

// AgentAddress returns the address of the agent for whom this registry
// maintains dialogues.
func (ds *Dialogues) AgentAddress() Address { return ds.agentAddress }

// Stats returns the registry's end-state statistics.
func (ds *Dialogues) Stats() *Stats { return ds.stats }

// Dialogues returns the live label -> dialogue map. Callers must not mutate
// it.
func (ds *Dialogues) Dialogues() map[Label]*Dialogue { return ds.byLabel }

func (ds *Dialogues) isMessageByOther(message Message) bool {
	return message.Sender() != ds.agentAddress
}

// NewSelfInitiatedDialogueReference allocates a fresh incomplete reference
// (nonce, "") for a self-initiated dialogue the caller intends to
// construct its own initial message for, rather than going through Create.
func (ds *Dialogues) NewSelfInitiatedDialogueReference() Reference {
	return Reference{Starter: generateNonce(), Responder: UnassignedReference}
}

// Create allocates a fresh incomplete reference, constructs the initial
// message via the protocol's message factory (message_id=1, target=0),
// creates a self-initiated dialogue, appends the message, and returns
// both.
//
// If the initial message fails validation, the partially created dialogue
// is rolled back and a *ConstructionError (wrapping ErrConstructionFailure)
// is returned.
func (ds *Dialogues) Create(counterparty Address, performative Performative, contentFields any) (Message, *Dialogue, error) {
	ref := ds.NewSelfInitiatedDialogueReference()

	initial, err := ds.protocol.NewMessage(ref, StartingMessageID, StartingTarget, performative, contentFields)
	if err != nil {
		return nil, nil, fmt.Errorf("dialogue: building initial message: %w", err)
	}
	initial.SetSender(ds.agentAddress)
	initial.SetTo(counterparty)

	role := ds.protocol.RoleFromFirstMessage(initial, ds.agentAddress)
	d := ds.createSelfInitiated(counterparty, ref, role)

	if err := d.Update(initial); err != nil {
		delete(ds.byLabel, d.Label())
		return nil, nil, &ConstructionError{Reason: err.Error()}
	}

	return initial, d, nil
}

// Update applies an inbound message (sender must not be the owning agent;
// the message's To field must be set). It classifies the message, routes
// it to the right dialogue (creating or promoting as needed), and appends
// it.
//
// Returns nil if the message's reference is invalid, no dialogue matches,
// or the matched dialogue rejects the message — inbound messages that
// cannot be attributed to any dialogue are silently dropped, per spec §7.
func (ds *Dialogues) Update(message Message) *Dialogue {
	if !ds.isMessageByOther(message) {
		panic("dialogue: Update must only be used with a message from another agent")
	}
	if !message.HasTo() {
		panic("dialogue: message's 'to' field is not set")
	}

	ref := message.DialogueReference()

	isInvalidLabel := ref.Starter == UnassignedReference && ref.Responder == UnassignedReference
	isNewDialogue := ref.Starter != UnassignedReference && ref.Responder == UnassignedReference && message.MessageID() == StartingMessageID

	var d *Dialogue
	switch {
	case isInvalidLabel:
		d = nil
	case isNewDialogue:
		role := ds.protocol.RoleFromFirstMessage(message, ds.agentAddress)
		d = ds.createOpponentInitiated(message.Sender(), ref, role)
	default:
		ds.completeDialogueReference(message)
		d = ds.GetDialogue(message)
	}

	if d == nil {
		return nil
	}
	if err := d.Update(message); err != nil {
		pkgLogger.Debug().
			Str("dialogue_label", d.Label().String()).
			Err(err).
			Msg("dialogue: inbound message dropped")
		return nil
	}
	return d
}

// completeDialogueReference promotes a self-initiated dialogue's
// incomplete label to its complete form, when message carries a complete
// reference from the opponent's first reply.
//
// Promotion is one-way and idempotent: a second call with the same
// reference finds the incomplete label already absent from byLabel (or
// already promoted) and is a no-op.
func (ds *Dialogues) completeDialogueReference(message Message) {
	ref := message.DialogueReference()
	if !ref.IsComplete() {
		return
	}

	incomplete := Label{
		Reference:    Reference{Starter: ref.Starter, Responder: UnassignedReference},
		OpponentAddr: message.Sender(),
		StarterAddr:  ds.agentAddress,
	}

	if _, alreadyPromoted := ds.incompleteToComplete[incomplete]; alreadyPromoted {
		return
	}
	d, ok := ds.byLabel[incomplete]
	if !ok {
		return
	}

	final := Label{
		Reference:    ref,
		OpponentAddr: incomplete.OpponentAddr,
		StarterAddr:  incomplete.StarterAddr,
	}
	delete(ds.byLabel, incomplete)
	d.UpdateDialogueLabel(final)
	ds.byLabel[d.Label()] = d
	ds.incompleteToComplete[incomplete] = final
}

// GetDialogue reconstructs both the self-initiated and opponent-initiated
// candidate labels for message, promotes each through the incomplete ->
// complete map, and returns whichever dialogue is present (self-initiated
// preferred if both exist, which should not happen).
func (ds *Dialogues) GetDialogue(message Message) *Dialogue {
	var opponent Address
	if !ds.isMessageByOther(message) {
		opponent = message.To()
	} else {
		opponent = message.Sender()
	}

	selfInitiated := ds.latestLabel(Label{
		Reference:    message.DialogueReference(),
		OpponentAddr: opponent,
		StarterAddr:  ds.agentAddress,
	})
	// An opponent-initiated dialogue's starter address is the opponent's
	// own address (they started it) — the same "opponent" value used
	// above, consistently in both directions. (This deliberately departs
	// from a literal reading of the upstream Python, which substitutes
	// message.to here and only happens to agree with "opponent" when the
	// message is self-sent; for inbound continuation of an
	// opponent-initiated dialogue that substitution does not reconstruct
	// the stored label.)
	opponentInitiated := ds.latestLabel(Label{
		Reference:    message.DialogueReference(),
		OpponentAddr: opponent,
		StarterAddr:  opponent,
	})

	if d, ok := ds.byLabel[selfInitiated]; ok {
		return d
	}
	if d, ok := ds.byLabel[opponentInitiated]; ok {
		return d
	}
	return nil
}

func (ds *Dialogues) latestLabel(label Label) Label {
	if complete, ok := ds.incompleteToComplete[label]; ok {
		return complete
	}
	return label
}

func (ds *Dialogues) createSelfInitiated(opponent Address, ref Reference, role Role) *Dialogue {
	if ref.Responder != UnassignedReference {
		panic("dialogue: cannot initiate dialogue with a preassigned responder reference")
	}
	incomplete := Label{Reference: ref, OpponentAddr: opponent, StarterAddr: ds.agentAddress}
	return ds.create(incomplete, role, nil)
}

func (ds *Dialogues) createOpponentInitiated(opponent Address, ref Reference, role Role) *Dialogue {
	if ref.Responder != UnassignedReference {
		panic("dialogue: cannot initiate dialogue with a preassigned responder reference")
	}
	incomplete := Label{Reference: ref, OpponentAddr: opponent, StarterAddr: opponent}
	complete := Label{
		Reference:    Reference{Starter: ref.Starter, Responder: generateNonce()},
		OpponentAddr: opponent,
		StarterAddr:  opponent,
	}
	return ds.create(incomplete, role, &complete)
}

func (ds *Dialogues) create(incomplete Label, role Role, complete *Label) *Dialogue {
	if _, ok := ds.incompleteToComplete[incomplete]; ok {
		panic("dialogue: incomplete dialogue label already present")
	}

	label := incomplete
	if complete != nil {
		ds.incompleteToComplete[incomplete] = *complete
		label = *complete
	}
	if _, ok := ds.byLabel[label]; ok {
		panic("dialogue: dialogue label already present in registry")
	}

	d := newDialogue(label, ds.protocol, ds.agentAddress, role)
	ds.byLabel[label] = d

	pkgLogger.Debug().
		Str("protocol", ds.protocol.Name).
		Str("dialogue_label", label.String()).
		Bool("self_initiated", d.IsSelfInitiated()).
		Msg("dialogue: created")

	return d
}
