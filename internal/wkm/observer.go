package wkm

// Candidate describes one evaluated point transfer.
type Candidate struct {
	Iteration int
	// Index is the dataset index of the sample considered for transfer.
	Index    int
	From     int
	To       int
	J1       float64
	J2       float64
	Delta    float64
	Accepted bool
}

// Pass summarizes one full pass over all clusters.
type Pass struct {
	Iteration   int
	Transfers   int
	TotalEnergy float64
}

// Observer is notified synchronously from the reallocation loop. It must not
// retain or modify the state.
type Observer interface {
	Candidate(c Candidate)
	Pass(p Pass)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnCandidate func(Candidate)
	OnPass      func(Pass)
}

// Candidate calls OnCandidate.
func (o ObserverFuncs) Candidate(c Candidate) {
	if o.OnCandidate != nil {
		o.OnCandidate(c)
	}
}

// Pass calls OnPass.
func (o ObserverFuncs) Pass(p Pass) {
	if o.OnPass != nil {
		o.OnPass(p)
	}
}

var _ Observer = ObserverFuncs{}
