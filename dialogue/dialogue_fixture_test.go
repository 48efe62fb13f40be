package dialogue

// Fixture protocol used across this package's tests. It declares the four
// performatives named in spec.md's end-to-end scenarios (request/offer/
// accept/decline), modeled as a minimal FIPA-style negotiation, plus two
// end states for statistics tests. It exists purely to exercise the core;
// a real protocol lives in protocols/fipa.

type testPerformative string

const (
	perfRequest testPerformative = "request"
	perfOffer   testPerformative = "offer"
	perfAccept  testPerformative = "accept"
	perfDecline testPerformative = "decline"
)

type testRole string

const (
	roleInitiator testRole = "initiator"
	roleResponder testRole = "responder"
)

type testEndState int

const (
	endStateSuccessful testEndState = iota
	endStateDeclined
)

type testMessage struct {
	ref          Reference
	messageID    int
	target       int
	performative Performative
	sender       Address
	to           Address
	hasSender    bool
	hasTo        bool
}

func (m *testMessage) DialogueReference() Reference   { return m.ref }
func (m *testMessage) MessageID() int                 { return m.messageID }
func (m *testMessage) Target() int                    { return m.target }
func (m *testMessage) Performative() Performative      { return m.performative }
func (m *testMessage) Sender() Address                { return m.sender }
func (m *testMessage) To() Address                    { return m.to }
func (m *testMessage) HasSender() bool                { return m.hasSender }
func (m *testMessage) HasTo() bool                    { return m.hasTo }
func (m *testMessage) SetSender(a Address)             { m.sender = a; m.hasSender = true }
func (m *testMessage) SetTo(a Address)                 { m.to = a; m.hasTo = true }

func newTestMessageFactory() MessageFactory {
	return func(ref Reference, messageID, target int, performative Performative, contentFields any) (Message, error) {
		return &testMessage{
			ref:          ref,
			messageID:    messageID,
			target:       target,
			performative: performative,
		}, nil
	}
}

func testRoleFromFirstMessage(first Message, forAddress Address) Role {
	if first.Sender() == forAddress {
		return roleInitiator
	}
	return roleResponder
}

func newTestProtocol(strictTarget bool) *ProtocolDescriptor {
	return &ProtocolDescriptor{
		Name: "test-negotiation",
		InitialPerformatives: map[Performative]struct{}{
			perfRequest: {},
		},
		TerminalPerformatives: map[Performative]struct{}{
			perfAccept:  {},
			perfDecline: {},
		},
		ValidReplies: map[Performative]map[Performative]struct{}{
			perfRequest: {perfOffer: {}, perfDecline: {}},
			perfOffer:   {perfAccept: {}, perfDecline: {}},
			perfAccept:  {},
			perfDecline: {},
		},
		EndStates: map[EndState]struct{}{
			endStateSuccessful: {},
			endStateDeclined:   {},
		},
		RoleFromFirstMessage:    testRoleFromFirstMessage,
		NewMessage:              newTestMessageFactory(),
		StrictTargetPredecessor: strictTarget,
	}
}
