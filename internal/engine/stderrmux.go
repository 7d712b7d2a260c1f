package engine

import (
	"bytes"
	"io"
	"sync"
)

// stderrMux lets many concurrently running children share one
// underlying stderr writer safely. os/exec spawns a background
// goroutine per child to copy from its stderr pipe whenever Cmd.Stderr
// isn't an *os.File, so handing every child the same bare io.Writer
// races writers against each other and can interleave partial lines.
// stderrMux gives each child its own line buffer and only forwards
// complete lines to the shared writer under a single lock, so one
// child's line is never torn by another's.
type stderrMux struct {
	mu sync.Mutex
	w  io.Writer
}

func newStderrMux(w io.Writer) *stderrMux {
	return &stderrMux{w: w}
}

// writer returns a child-scoped io.WriteCloser. Close flushes any
// trailing partial line (one with no terminating newline) and must be
// called once the owning child has exited.
func (m *stderrMux) writer() io.WriteCloser {
	return &muxedWriter{mux: m}
}

type muxedWriter struct {
	mux *stderrMux
	buf []byte
}

func (c *muxedWriter) Write(p []byte) (int, error) {
	c.buf = append(c.buf, p...)
	for {
		i := bytes.IndexByte(c.buf, '\n')
		if i < 0 {
			break
		}
		if err := c.flush(c.buf[:i+1]); err != nil {
			return len(p), err
		}
		c.buf = c.buf[i+1:]
	}
	return len(p), nil
}

func (c *muxedWriter) Close() error {
	if len(c.buf) == 0 {
		return nil
	}
	err := c.flush(c.buf)
	c.buf = nil
	return err
}

func (c *muxedWriter) flush(line []byte) error {
	c.mux.mu.Lock()
	defer c.mux.mu.Unlock()
	_, err := c.mux.w.Write(line)
	return err
}
