// Package status provides Status
package status

// spellchecker:words rewritable

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/FAU-CDI/wordcount/pkg/progress"
	"github.com/tkw1536/pkglib/perf"
)

type Rewritable = *progress.Rewritable

// Status holds information about the current stage of a benchmark run.
// Updating the status writes out detailed information to an underlying io.Writer.
//
// Status is safe to access concurrently, however the caller is responsible for only logging to one stage at a time.
//
// A nil Status is valid, and discards any information written to it.
type Status struct {
	m sync.RWMutex // m protects changes to current and all

	logger     *slog.Logger
	Rewritable Rewritable

	current StageStats   // current holds information about the current stage
	all     []StageStats // all hold information about the old stages
}

// NewStatus creates a new status which writes messages of at least the given level to w.
// Progress is only written when info messages are.
//
// If w is nil, returns a nil Status.
func NewStatus(w io.Writer, level slog.Level) *Status {
	if w == nil {
		return nil
	}

	status := &Status{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
	if level <= slog.LevelInfo {
		status.Rewritable = &progress.Rewritable{Writer: w, FlushInterval: progress.DefaultFlushInterval}
	}
	return status
}

// Writer returns the writer progress is written to.
// If status is nil, returns nil.
func (status *Status) Writer() io.Writer {
	if status == nil || status.Rewritable == nil {
		return nil
	}
	return status.Rewritable.Writer
}

// Log logs an informational message with the provided key, value field pairs.
// When status or the associated logger are nil, no logging occurs.
func (status *Status) Log(message string, fields ...any) {
	if status == nil || status.logger == nil {
		return
	}
	status.logger.Info(message, fields...)
}

// LogDebug logs a debug message with the provided key, value field pairs.
// When status or the associated logger are nil, no logging occurs.
func (status *Status) LogDebug(message string, fields ...any) {
	if status == nil || status.logger == nil {
		return
	}
	status.logger.Debug(message, fields...)
}

// LogError logs an error message containing the provided error and the provided key, value field pairs.
func (status *Status) LogError(message string, err error, fields ...any) {
	if status == nil || status.logger == nil {
		return
	}

	status.logger.Error("FAILED "+message, append([]any{"err", err}, fields...)...)
}

// LogFatal is like LogError followed by os.Exit(1).
// When status or the associated logger are nil, os.Exit(1) is called immediately.
func (status *Status) LogFatal(message string, err error) {
	status.LogError(message, err)
	os.Exit(1)
}

// Diff returns a performance diff starting at the first, and ending at the last stage.
// If status is nil, a nil diff is returned.
func (status *Status) Diff() perf.Diff {
	if status == nil {
		var zero perf.Diff
		return zero
	}

	status.m.RLock()
	defer status.m.RUnlock()

	min := status.current.Start
	max := status.current.End

	for _, ss := range status.all {
		if min.Time.IsZero() || ss.Start.Time.Before(min.Time) {
			min = ss.Start
		}
		if max.Time.IsZero() || ss.End.Time.After(max.Time) {
			max = ss.End
		}
	}

	return max.Sub(min)
}

// All returns the finished stages, followed by the current one (if any).
func (status *Status) All() []StageStats {
	if status == nil {
		return nil
	}

	status.m.RLock()
	defer status.m.RUnlock()

	all := append([]StageStats{}, status.all...)
	if status.current.Stage != StageInitial {
		all = append(all, status.current)
	}
	return all
}

// Start starts a new stage, updating the current property.
// Any changes are written to the underlying writer.
//
// If st is nil, this function has no effect.
func (st *Status) Start(stage Stage) {
	if st == nil {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	// end the previous stage (if any)
	st.end()

	st.current.Stage = stage
	st.current.Start = perf.Now()

	if st.logger != nil {
		st.logger.Info("start", "stage", stage)
	}
}

// End ends the current stage if any.
// Any changes are flushed to the underlying writer.
//
// If st is nil, this function has no effect.
func (st *Status) End() (prev StageStats) {
	if st == nil {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	return st.end()
}

// end implements End.
// st.m must be held for writing.
func (st *Status) end() (prev StageStats) {
	if st.current.Stage != StageInitial {
		st.current.End = perf.Now()
		st.all = append(st.all, st.current)
		prev = st.current
	}

	st.current = *new(StageStats)

	if prev.Stage == StageInitial {
		return
	}

	// write the final status into the rewritable
	// and force a rewrite!
	if st.Rewritable != nil {
		st.Rewritable.Flush(true)
		st.Rewritable.Close()
	}

	if st.logger != nil {
		st.logger.Info("end", "stage", prev.Stage, "took", prev.Diff())
	}
	return
}

// DoStage is a convenience wrapper to start a new stage, call f, and log the resulting error if any.
//
// If st is nil, immediately invokes f.
func (st *Status) DoStage(stage Stage, f func() error) error {
	if st == nil {
		return f()
	}

	st.Start(stage)

	err := f()

	st.m.Lock()
	defer st.m.Unlock()

	st.end()
	if err != nil {
		st.LogError("failed stage", err, "stage", stage)
		return err
	}
	return nil
}

// SetCT sets the current and total for the current stage.
func (st *Status) SetCT(current, total int) {
	if st == nil {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	st.current.Current = current
	st.current.Total = total
	st.current.Rewrite(st.Rewritable)
}

// StageStats holds the stats for a specific stage
type StageStats struct {
	Stage Stage

	Start perf.Snapshot // At the start of the stage
	End   perf.Snapshot // At the end of the stage

	Current int
	Total   int
}

// Rewrite writes the current stage to the given rewritable
func (ss StageStats) Rewrite(r Rewritable) {
	if r == nil {
		return
	}
	if ss.Current < ss.Total {
		r.Write(fmt.Sprintf("%s: %d/%d", string(ss.Stage), ss.Current, ss.Total))
	} else {
		r.Write(fmt.Sprintf("%s: %d", string(ss.Stage), ss.Current))
	}
}

// Diff returns a diff of the given stage
func (ss StageStats) Diff() perf.Diff {
	return ss.End.Sub(ss.Start)
}

// Stage represents a stage of a benchmark run
type Stage string

const (
	StageInitial  Stage = ""
	StageCorpus   Stage = "corpus"
	StageBaseline Stage = "baseline"
	StageMemory   Stage = "measure/memory"
	StageTime     Stage = "measure/time"
	StageReport   Stage = "report"
)
