package pubsub

// Pack is a broker-agnostic message: Key selects the partition, Msg is the
// serialized payload.
type Pack struct {
	Key []byte
	Msg []byte
}
