package errcode

// Code is a stable, bus-facing error identifier published in keyboard status
// messages. It is a string newtype, comparable and allocation-free.
type Code string

func (c Code) Error() string { return string(c) }

const (
	OK            Code = "ok"
	InitFailed    Code = "init_failed"
	NotReady      Code = "not_ready"
	InvalidParams Code = "invalid_params"
	UnknownReader Code = "unknown_reader"
	UnknownBoard  Code = "unknown_board"
	UnknownPin    Code = "unknown_pin"
	UnknownBus    Code = "unknown_bus"
	BusError      Code = "bus_error"
	Unsupported   Code = "unsupported"

	Error Code = "error" // generic fallback
)

// E keeps the operation and cause next to a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap attaches a code and operation to err. A nil err stays nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
