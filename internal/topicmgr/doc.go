// Package topicmgr is the broker's authoritative topic configuration registry.
//
// A Manager owns the table mapping topic names to TopicConfig values, the
// DataVersion stamped on every snapshot of that table, and the creation lock that
// serializes topic auto-creation.
//
// Locking:
//   - The table and its DataVersion sit behind one guard held only for map operations.
//   - The creation lock is separate and coarser. It guards the check, resolve template,
//     insert sequence of auto-creation and is acquired with a bounded wait; failing to
//     acquire it yields "no topic" instead of an error. One global lock rather than a
//     lock per topic keeps reasoning simple and limits only creation throughput.
//   - Snapshot writes are serialized by their own mutex and never run under the table guard.
//   - Propagation to the naming layer goes through a Registrar after every lock is released.
//
// Usage:
//
//	mgr := topicmgr.NewManager(opts, msgStore, snapshotStore, dispatcher)
//	mgr.Bootstrap()
//	if _, err := mgr.Load(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	cfg, err := mgr.CreateOnSend(ctx, "orders", topicmgr.AutoCreateTopicKeyTopic, "10.0.0.7:53122", 16, 0)
//	if err != nil {
//		// the topic was created but could not be persisted
//	}
//	if cfg == nil {
//		// no topic available, retry on the next send
//	}
package topicmgr
