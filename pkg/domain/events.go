package domain

// Payload is the structured key/value tag a transport attaches to an inbound
// event when the respondent pressed a keyboard button instead of typing.
type Payload struct {
	Key   string
	Value string
}

// Inbound is one event delivered by the chat transport.
type Inbound struct {
	// Sender is the respondent identity as the transport reports it.
	Sender string
	// Text is the raw message text. Consumers trim it before matching.
	Text string
	// Payload is present only for keyboard-button replies.
	Payload *Payload
}

// Event is the closed set of classified inbound events. The classifier emits
// exactly one variant per matched event; the stage machine switches over the
// concrete types, so adding a variant fails loudly at every dispatch site.
type Event interface {
	isEvent()
}

// DateText is a message matching the day.month.year pattern.
type DateText struct {
	Text string
}

// CertificateChoice is a keyboard answer to the certificate question.
type CertificateChoice struct {
	Text string
}

// YesNoChoice is a keyboard answer to the opening "are you ill" question.
type YesNoChoice struct {
	Text string
}

// StartCommand is the operator's wave-start command parsed out of chat text.
type StartCommand struct {
	// IDsPath is the recipient list file path.
	IDsPath string
	// SheetURL is the result sink location.
	SheetURL string
}

// FreeText is the catch-all for symptom descriptions: plain text that is
// neither a date nor a command.
type FreeText struct {
	Text string
}

func (DateText) isEvent()          {}
func (CertificateChoice) isEvent() {}
func (YesNoChoice) isEvent()       {}
func (StartCommand) isEvent()      {}
func (FreeText) isEvent()          {}
