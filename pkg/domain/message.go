package domain

// Keyboard describes reply options rendered alongside an outbound prompt.
// The transport adapter turns it into its native inline-keyboard format.
type Keyboard struct {
	// PayloadKey tags every button's payload so the classifier can route
	// the answer back to the right question.
	PayloadKey string
	// Options are the button labels, one button per row, in order.
	Options []string
}

// Outbound is one message for the chat transport to deliver.
type Outbound struct {
	Recipient string
	Text      string
	Keyboard  *Keyboard
}
