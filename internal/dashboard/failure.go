package dashboard

// Presentation says how a host should surface a failure.
type Presentation int

const (
	// Inline replaces the panel's content with the message.
	Inline Presentation = iota
	// Alert shows a transient message and leaves the panel as it was.
	Alert
)

// Failure is a render-ready error. Message is the full operator-facing
// text; Hint is an optional second line.
type Failure struct {
	Presentation Presentation
	Message      string
	Hint         string
	// Retry is set when the host should offer a reload control.
	Retry bool
	Err   error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

func (c *Controller) alert(op, prefix string, err error) *Failure {
	c.log.Error().Err(err).Str("op", op).Msg("operation failed")
	return &Failure{Presentation: Alert, Message: prefix + err.Error(), Err: err}
}

func (c *Controller) inline(op, prefix string, err error) *Failure {
	c.log.Error().Err(err).Str("op", op).Msg("operation failed")
	return &Failure{Presentation: Inline, Message: prefix + err.Error(), Err: err}
}
