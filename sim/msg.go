package sim

// A Msg is a piece of information transferred between components.
type Msg interface {
	Meta() *MsgMeta
}

// MsgMeta contains the meta data that is attached to every message.
type MsgMeta struct {
	ID       string
	Src, Dst Receiver
	SendTime VTimeInCycle
	RecvTime VTimeInCycle
}

// A Receiver can accept messages delivered by a Connection.
type Receiver interface {
	Named

	// Recv is called in the cycle the message arrives. Implementations must
	// only buffer the message and schedule their own processing.
	Recv(msg Msg)
}

// A Sender can send messages.
type Sender interface {
	Send(msg Msg)
}
