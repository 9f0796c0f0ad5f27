// Package udp receives node identifiers as UDP datagrams.
//
// Each datagram carries one identifier as text; there is no framing,
// acknowledgement or retry. A [Listener] binds a local endpoint (by default
// [DefaultAddress]) and hands every payload to a [Sink] in arrival order.
// Bind failures are fatal TRANSPORT_BIND errors. Errors on individual
// datagrams are logged and reported to the error handler, and the listener
// keeps running until its context is cancelled.
//
// [Send] is the matching client used by "nodelight send".
package udp
