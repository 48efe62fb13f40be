package dialogue

// Performative is an opaque, comparable, hashable token identifying a
// message's speech-act type. Concrete enumerations live in protocol
// packages (e.g. protocols/fipa); the core only ever compares performatives
// by equality or set membership.
type Performative interface{}

// Role is this agent's position in a conversation, assigned once at
// dialogue creation by the protocol's RoleFromFirstMessage resolver. The
// core never interprets a Role's concrete value beyond equality.
type Role interface{}

// EndState is a protocol-defined terminal outcome label used only for
// statistics (Stats). The core never interprets its concrete value
// beyond equality and set membership.
type EndState interface{}

// Message is the contract the core consumes from a concrete protocol's
// message type. The core never touches a message's payload beyond these
// fields.
type Message interface {
	DialogueReference() Reference
	MessageID() int
	Target() int
	Performative() Performative
	Sender() Address
	To() Address
	HasSender() bool
	HasTo() bool

	// SetSender and SetTo are invoked by the core on egress when a field
	// has not yet been set by the caller.
	SetSender(Address)
	SetTo(Address)
}
