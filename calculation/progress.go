package calculation

import "fmt"

const (
	MessageProcessing   = "Processing..."
	MessageStakePools   = "Processing Stake Pool Delegators..."
	MessagePolicies     = "Processing Policy IDs..."
	MessageSnapshotDone = "Snapshot Done"
)

func messageTokenHolders(collected int) string {
	return fmt.Sprintf("Processing Token Holders (%v)", collected)
}

type Counter struct {
	Current int
	Max     int
}

type Progress struct {
	Loading bool
	Message string
	Pool    Counter
	Policy  Counter
	Token   Counter
}

// ProgressObserver is told about every completed step of a snapshot. It must not block for long;
// it cannot influence the run
type ProgressObserver interface {
	OnProgress(p Progress)
}

type ProgressFunc func(p Progress)

func (f ProgressFunc) OnProgress(p Progress) { f(p) }

type progressReporter struct {
	observer ProgressObserver
	current  Progress
}

func (r *progressReporter) update(fn func(p *Progress)) {
	fn(&r.current)
	if r.observer != nil {
		r.observer.OnProgress(r.current)
	}
}
