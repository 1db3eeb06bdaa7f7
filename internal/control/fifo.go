package control

import (
	"bufio"
	"bytes"
	"context"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/soar/unipad/internal/dispatch"
	"github.com/soar/unipad/internal/metrics"
)

// maxLineLen bounds a single control line, terminator included.
const maxLineLen = 4096

var errLineTooLong = errors.New("control line too long")

const (
	DefaultPath         = "/var/run/unipad.sock"
	DefaultResponsePath = "/var/run/unipad.out"
)

// Ensure creates a world-writable FIFO at path unless one already exists.
func Ensure(path string) error {
	fi, err := os.Stat(path)
	if err == nil {
		if fi.Mode()&os.ModeNamedPipe == 0 {
			return errors.Errorf("%s exists and is not a FIFO", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, "stat %s", path)
	}
	if err := unix.Mkfifo(path, 0o666); err != nil {
		return errors.Wrapf(err, "mkfifo %s", path)
	}
	// mkfifo is subject to the umask
	return errors.Wrapf(os.Chmod(path, 0o666), "chmod %s", path)
}

// Serve reads control lines from the FIFO at path and sends the parsed
// events to the aggregator until ctx is cancelled. The FIFO is held open
// for writing too, so writers coming and going never end the stream.
// Lines longer than maxLineLen are dropped like any other malformed line.
func Serve(ctx context.Context, path string, events chan<- dispatch.Event) error {
	if err := Ensure(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	stop := context.AfterFunc(ctx, func() { f.Close() })
	defer stop()

	log.WithField("path", path).Info("Control channel ready")

	r := bufio.NewReaderSize(f, maxLineLen)
	for {
		line, err := readLine(r)
		if err == errLineTooLong {
			log.WithField("limit", maxLineLen).Warn("Dropping oversized control line")
			metrics.ControlCommands.WithLabelValues("invalid").Inc()
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrapf(err, "read %s", path)
		}

		ev, ok := ParseLine(line)
		if !ok {
			log.WithField("line", line).Debug("Ignoring control line")
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// readLine returns the next newline-terminated line. A line that does not
// fit the reader's buffer is consumed up to its newline and reported as
// errLineTooLong.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadSlice('\n')
	if err == nil {
		return string(line), nil
	}
	if err != bufio.ErrBufferFull {
		return "", err
	}
	for err == bufio.ErrBufferFull {
		_, err = r.ReadSlice('\n')
	}
	if err != nil {
		return "", err
	}
	return "", errLineTooLong
}

// Response is the sink for print replies. Writes are buffered until Flush,
// which delivers them to the response FIFO only if a reader is attached,
// so the aggregator never blocks on it. It must only be used from the
// aggregator goroutine.
type Response struct {
	path string
	buf  bytes.Buffer
}

func NewResponse(path string) (*Response, error) {
	if err := Ensure(path); err != nil {
		return nil, err
	}
	return &Response{path: path}, nil
}

func (r *Response) Write(p []byte) (int, error) {
	return r.buf.Write(p)
}

func (r *Response) Flush() error {
	defer r.buf.Reset()

	f, err := os.OpenFile(r.path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, unix.ENXIO) {
			return errors.Errorf("no reader on %s", r.path)
		}
		return errors.Wrapf(err, "open %s", r.path)
	}
	defer f.Close()

	_, err = f.Write(r.buf.Bytes())
	return errors.Wrapf(err, "write %s", r.path)
}
