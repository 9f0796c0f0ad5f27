// Package events carries selected node identifiers from the transport to
// the selection consumer.
//
// A [Channel] is a bounded FIFO queue with a single producer and a single
// consumer. [Channel.Send] never blocks: when the queue is full the oldest
// queued identifier is discarded to make room, so the consumer always sees
// the most recent events in arrival order. Payloads are trimmed of
// surrounding whitespace, NUL bytes and line framing before they are queued.
//
//	ch := events.NewChannel(64)
//	go func() { ch.Send([]byte("node-a\n")) }()
//	id, err := ch.Receive(ctx) // "node-a"
package events
