package tslog

import "time"

// Recorder measures elapsed build time and appends one log entry per
// recorded line. It keeps the elapsed-time accumulator on the writing
// side so the on-disk values stay small deltas.
type Recorder struct {
	writer      *Writer
	now         func() time.Time
	start       time.Time
	lastElapsed int64
}

// NewRecorder creates a Recorder whose elapsed time starts at the moment
// of the call.
func NewRecorder(dir string) *Recorder {
	r := &Recorder{
		writer: NewWriter(dir),
		now:    time.Now,
	}
	r.start = r.now()
	return r
}

// Record appends an entry for a log line emitted now. The stored value
// is the delta of elapsed milliseconds since the previous Record call
// (or since the Recorder was created, for the first call).
func (r *Recorder) Record() error {
	elapsed := r.now().Sub(r.start).Milliseconds()
	if err := r.writer.Append(elapsed - r.lastElapsed); err != nil {
		return err
	}
	r.lastElapsed = elapsed
	return nil
}
