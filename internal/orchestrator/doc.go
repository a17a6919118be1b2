// Package orchestrator drives the EV charging fleet from "nothing running"
// to "fully operational, workers included" with no manual intervention.
//
// The startup sequence is an explicit state machine processed by a driver
// loop. Phases run strictly in order; each one returns a PhaseResult and
// the driver decides whether to proceed or abort:
//
//	Teardown → Build → Launch → InfraWait → Reconcile → WorkerWait → Report
//
// Only two failures are fatal: a critical image failing both of its build
// paths, and the service group failing to start after the single
// network-reset retry. Every other failure degrades the run: it is recorded,
// surfaced in the final summary, and the sequence continues.
//
// The accumulated RunReport is owned by the driver and appended to by each
// phase in turn; there are no concurrent writers and no ambient exit-code
// state. Cancelling the run's context skips the remaining phases and tears
// the partial deployment down so nothing half-started is left behind.
package orchestrator
