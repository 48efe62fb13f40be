package dialogue

// MessageFactory constructs a new protocol message given the fields that
// the core requires. The remaining, protocol-specific content is supplied
// through contentFields, which a concrete protocol interprets however it
// likes (a struct, a map, functional options — the core never looks
// inside it).
type MessageFactory func(ref Reference, messageID, target int, performative Performative, contentFields any) (Message, error)

// ValidityChecker performs the protocol-specific validation stage: checks
// the core's reply grammar cannot express (content-type constraints,
// cross-field invariants). ok=false must be accompanied by a human-readable
// reason.
type ValidityChecker func(d *Dialogue, message Message) (ok bool, reason string)

// ProtocolDescriptor bundles the static, per-protocol declarations the core
// needs: initial/terminal performatives, the valid-replies grammar, the
// role resolver, the message factory, and the protocol-specific validity
// hook. It is constructed once per protocol and treated as immutable
// shared state — the core never mutates it.
//
// This is the Go realization of what the source expresses via per-protocol
// subclassing: a capability bundle injected at registry-construction time,
// rather than a base class the core depends on by name.
type ProtocolDescriptor struct {
	// Name identifies the protocol for logging; it plays no role in
	// validation.
	Name string

	// InitialPerformatives is the set of performatives legal as the very
	// first message in a dialogue of this protocol.
	InitialPerformatives map[Performative]struct{}

	// TerminalPerformatives is the set of performatives that end a
	// conversation. Informational only — the core never enforces it.
	TerminalPerformatives map[Performative]struct{}

	// ValidReplies maps each performative to the set of performatives
	// that may target it. The empty set for a performative denotes that
	// it is terminal (no valid reply).
	ValidReplies map[Performative]map[Performative]struct{}

	// EndStates is the set of end states this protocol declares for use
	// with Stats.AddEndState.
	EndStates map[EndState]struct{}

	// RoleFromFirstMessage selects the role of forAddress given the
	// dialogue's first message. It is called once per side of a dialogue:
	// Create calls it with the creating agent's own address, Update calls
	// it with the receiving agent's own address — the same resolver
	// yields Initiator or Responder depending only on whether forAddress
	// is the first message's sender.
	RoleFromFirstMessage func(first Message, forAddress Address) Role

	// NewMessage is the message factory (see MessageFactory).
	NewMessage MessageFactory

	// IsValid is the protocol-specific validation hook (stage 3 of the
	// validity pipeline). May be nil, meaning every message that passes
	// basic and additional validation is accepted.
	IsValid ValidityChecker

	// StrictTargetPredecessor toggles the "additional validation" stage
	// (spec §4.2, stage 2): requiring that every non-initial message's
	// target equal the immediate predecessor's target plus one. The
	// source marks this rule "subject to change"; protocols that do not
	// want it set this to false.
	StrictTargetPredecessor bool
}

func (p *ProtocolDescriptor) isInitialPerformative(perf Performative) bool {
	_, ok := p.InitialPerformatives[perf]
	return ok
}

func (p *ProtocolDescriptor) validRepliesTo(perf Performative) (map[Performative]struct{}, bool) {
	replies, ok := p.ValidReplies[perf]
	return replies, ok
}
