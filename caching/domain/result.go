package domain

// Result is the outcome of a best-effort cache operation. A non-nil Err means the
// backing store failed and the call was absorbed as a no-op.
type Result struct {
	Err error
}

func Degraded(err error) Result {
	return Result{Err: err}
}

func (r Result) OK() bool { return r.Err == nil }

func (r Result) Degraded() bool { return r.Err != nil }

// Status distinguishes a genuine miss from a lookup that failed and was tolerated.
type Status int

const (
	StatusMiss Status = iota
	StatusHit
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusHit:
		return "hit"
	case StatusDegraded:
		return "degraded"
	default:
		return "miss"
	}
}

// Lookup is returned by cache reads.
type Lookup struct {
	Entry  Entry
	Status Status
	Err    error
}

// Found reports whether Entry holds a live value.
func (l Lookup) Found() bool { return l.Status == StatusHit }

// Decode unmarshals the payload of a hit into dest.
func (l Lookup) Decode(dest any) error {
	return l.Entry.Decode(dest)
}
