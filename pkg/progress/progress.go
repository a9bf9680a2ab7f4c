// Package progress provides a Reader reporting progress on a rewritable terminal line
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Reader consistently writes the number of bytes read to a Rewritable.
type Reader struct {
	io.Reader       // Reader to read from
	Bytes     int64 // total number of bytes read (so far)
	Total     int64 // expected number of bytes, or 0 if unknown

	Rewritable
}

func (cr *Reader) Read(bytes []byte) (int, error) {
	count, err := cr.Reader.Read(bytes)
	cr.Bytes += int64(count)
	cr.Rewritable.Write(cr.message())
	return count, err
}

func (cr *Reader) message() string {
	if cr.Total <= 0 {
		return fmt.Sprintf("Read %s", humanize.Bytes(uint64(cr.Bytes)))
	}
	return fmt.Sprintf("Read %s of %s", humanize.Bytes(uint64(cr.Bytes)), humanize.Bytes(uint64(cr.Total)))
}

// DefaultFlushInterval is a reasonable default flush interval
const DefaultFlushInterval = time.Second / 30

// Rewritable is a single line of output that is rewritten in place.
// A Rewritable with a nil Writer discards everything.
type Rewritable struct {
	Writer io.Writer

	FlushInterval  time.Duration // minimum time between flushes of the progress
	lastFlush      time.Time     // last time we flushed
	longestContent int           // longest content ever flushed
	content        string        // current content
}

func (rw *Rewritable) Write(value string) {
	rw.content = value
	rw.Flush(false)
}

func (rw *Rewritable) Flush(force bool) {
	if rw.Writer == nil {
		return
	}
	if !(force || time.Since(rw.lastFlush) > rw.FlushInterval) {
		return
	}

	// determine the longest string we ever flushed to the output
	if len(rw.content) >= rw.longestContent {
		rw.longestContent = len(rw.content)
	}

	// add a blanking space behind the content
	blank := strings.Repeat(" ", rw.longestContent-len(rw.content))
	fmt.Fprintf(rw.Writer, "\r%s%s", rw.content, blank)

	rw.lastFlush = time.Now()
}

// Close blanks the line and moves the cursor back to its start.
func (rw *Rewritable) Close() {
	if rw.Writer == nil {
		return
	}
	rw.content = ""
	rw.Flush(true)
	rw.Writer.Write([]byte("\r"))
}
