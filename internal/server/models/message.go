package models

// Message is one line of a buyer/seller conversation. Timestamp is unix
// milliseconds and strictly increases within a conversation. Messages are
// never mutated after creation except for the Read flag.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Content    string
	Timestamp  int64
	Read       bool
}
