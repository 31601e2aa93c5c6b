package dashboard

// Status is the state of one asynchronous slot
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// MarshalText encodes the status by name in JSON views
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result holds the outcome of the newest request for one operation.
// Seq identifies that request; responses carrying any other sequence are stale.
type Result[T any] struct {
	Status Status
	Data   T
	Err    error
	Seq    uint64
}

// Begin marks a new request in flight. Data from the last success is kept.
func (r Result[T]) Begin(seq uint64) Result[T] {
	return Result[T]{Status: StatusLoading, Data: r.Data, Seq: seq}
}

// Resolve applies a response. It returns false, leaving r unchanged, when seq is not the newest request.
func (r Result[T]) Resolve(seq uint64, data T, err error) (Result[T], bool) {
	if seq != r.Seq {
		return r, false
	}
	if err != nil {
		return Result[T]{Status: StatusError, Data: r.Data, Err: err, Seq: seq}, true
	}
	return Result[T]{Status: StatusSuccess, Data: data, Seq: seq}, true
}
