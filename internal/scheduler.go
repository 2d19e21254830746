package internal

// Scheduler holds the two ordered work lists of spec §4.4 plus the
// batch-nesting counter: pendingRecomp (the height-bucketed recompHeap)
// and pendingNotify (a FIFO), drained in rounds until both are empty.
type Scheduler struct {
	recomp *recompHeap
	notify []notifyEntry
	queued map[*Node]bool // per-round "already queued for notify" dedupe

	batchLevel int
	evaluating bool
}

type notifyEntry struct {
	node *Node
	prev any
}

func newScheduler() *Scheduler {
	return &Scheduler{
		recomp: newRecompHeap(),
		queued: make(map[*Node]bool),
	}
}

// enqueueRecompute schedules dependent for recomputation because writer
// changed in a mode dependent observed, per spec §4.4 step 1. Going Stale
// always cascades into dependent's own incoming edges too, not just the
// ones with listeners - listener status only gates *eager* scheduling
// onto the recompute heap, never invalidation itself. Without this, a
// pending-flag-cell or error-view-cell more than one hop from the actual
// writer, with no listener anywhere along the chain, would stay Fresh on
// a stale cached value forever: nothing would ever force it to
// recompute. A dependent already Stale is not re-walked - its own
// dependents were already cascaded into the first time it went Stale.
func (s *Scheduler) enqueueRecompute(dependent *Node, cause *Node) {
	if dependent.freshness == Computing {
		return
	}
	wasStale := dependent.freshness == Stale
	dependent.freshness = Stale
	if dependent.HasListenersTransitive() {
		s.recomp.Insert(dependent, false, cause)
	}
	if wasStale {
		return
	}
	dependent.liveIncoming(func(next *Node, _ Mode) bool {
		s.enqueueRecompute(next, cause)
		return true
	})
}

// enqueueNotify schedules writer's listeners to be told about prev, once
// per flush round (spec §4.4 "Ordering guarantees").
func (s *Scheduler) enqueueNotify(writer *Node, prev any) {
	if s.queued[writer] {
		return
	}
	s.queued[writer] = true
	s.notify = append(s.notify, notifyEntry{node: writer, prev: prev})
}

// Propagate is the writer-side half of spec §4.4: for each incoming edge
// whose mode intersects changeMode, enqueue the dependent for recompute;
// then enqueue writer's own listeners for notification.
func (r *Runtime) Propagate(writer *Node, changeMode Mode, prevObserved any) {
	writer.liveIncoming(func(dep *Node, mode Mode) bool {
		if mode.Intersects(changeMode) {
			r.scheduler.enqueueRecompute(dep, writer)
		}
		return true
	})

	if len(writer.listeners) > 0 || writer.hasListeners() {
		r.scheduler.enqueueNotify(writer, prevObserved)
	}

	if r.scheduler.batchLevel == 0 && !r.scheduler.evaluating {
		r.Flush()
	}
}

// Flush drains pendingRecomp then pendingNotify, repeating until both
// are empty (spec §4.4 "Flush").
func (r *Runtime) Flush() {
	if r.scheduler.evaluating {
		return
	}
	r.scheduler.evaluating = true
	defer func() { r.scheduler.evaluating = false }()

	for !r.scheduler.recomp.Empty() || len(r.scheduler.notify) > 0 {
		r.scheduler.recomp.Drain(func(node *Node, knownChanged bool, cause *Node) {
			r.Recompute(node)
		})

		notify := r.scheduler.notify
		r.scheduler.notify = nil
		r.scheduler.queued = make(map[*Node]bool)

		for _, e := range notify {
			e.node.notifyAll(e.prev, currentSink())
		}
	}
}

// BeginBatch/EndBatch implement spec §4.4's batch(f) nesting.
func (r *Runtime) BeginBatch() { r.scheduler.batchLevel++ }

func (r *Runtime) EndBatch() {
	r.scheduler.batchLevel--
	if r.scheduler.batchLevel == 0 && !r.scheduler.evaluating {
		r.Flush()
	}
}

// ExtendBatchUntil keeps the batch open until tok settles (spec §4.4:
// "If f returns a Pending token, the batch is extended until that token
// resolves"). Must be called while still inside the batch (before the
// matching EndBatch that opened it).
func (r *Runtime) ExtendBatchUntil(tok *Token) {
	r.BeginBatch()
	tok.OnSettle(func(any, error) {
		r.EndBatch()
	})
}
