// Package selection turns a stream of node identifiers into ordered
// highlight instructions.
//
// # Overview
//
// A [Controller] holds at most one current node. [Controller.Handle]
// resolves a new identifier against the graph and returns the batch of
// [Instruction]s that moves the visible highlight from
// {previous} ∪ neighbors(previous) to {node} ∪ neighbors(node):
//
//	c := selection.NewController(g, pos, presenter)
//	batch, err := c.Handle("A") // highlight A, B, C
//	batch, err = c.Handle("D")  // un-highlight A, B, C; highlight D, E
//
// Every un-highlight of the old set precedes every highlight of the new set,
// so a node in both sets always ends up highlighted. Handling the current
// node again is a no-op. Unknown identifiers fail with
// UNKNOWN_NODE_SELECTED and leave the selection untouched.
//
// With [WithDeltaOnly] the batch carries only the symmetric difference of the
// two sets.
//
// # Presenters
//
// Instructions are delivered to a [Presenter]. Presenters that also
// implement [Committer] are told when a batch is complete. [NoopPresenter]
// is the headless default; [Recorder] keeps the highlighted set for
// inspection; [LogPresenter] writes each instruction to a logger.
//
// # Concurrency
//
// A Controller is owned by a single consuming goroutine and is not safe for
// concurrent use. Recorder is safe for concurrent reads.
package selection
