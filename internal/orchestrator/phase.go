package orchestrator

// Phase identifies one step of the startup sequence. Phases are states of
// the run state machine; the driver advances through them in a fixed order
// and only a fatal PhaseResult (or cancellation) leaves the sequence early.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTeardown
	PhaseBuild
	PhaseLaunch
	PhaseInfraWait
	PhaseReconcile
	PhaseWorkerWait
	PhaseReport
	PhaseDone
)

// String makes Phase satisfy the fmt.Stringer interface.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseTeardown:
		return "Teardown"
	case PhaseBuild:
		return "Build"
	case PhaseLaunch:
		return "Launch"
	case PhaseInfraWait:
		return "InfraWait"
	case PhaseReconcile:
		return "Reconcile"
	case PhaseWorkerWait:
		return "WorkerWait"
	case PhaseReport:
		return "Report"
	case PhaseDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// nextPhase returns the phase that follows p in a normal run.
func nextPhase(p Phase) Phase {
	switch p {
	case PhaseIdle:
		return PhaseTeardown
	case PhaseTeardown:
		return PhaseBuild
	case PhaseBuild:
		return PhaseLaunch
	case PhaseLaunch:
		return PhaseInfraWait
	case PhaseInfraWait:
		return PhaseReconcile
	case PhaseReconcile:
		return PhaseWorkerWait
	case PhaseWorkerWait:
		return PhaseReport
	case PhaseReport:
		return PhaseDone
	default:
		return PhaseDone
	}
}
