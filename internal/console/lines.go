package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
)

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("console input closed")

type lineResult struct {
	text string
	err  error
}

// Lines hands out input lines one at a time. The blocking read happens on its
// own goroutine so a caller waiting in Next can walk away when ctx ends.
type Lines struct {
	scanner   *bufio.Scanner
	ch        chan lineResult
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

func NewLines(r io.Reader) *Lines {
	return &Lines{
		scanner: bufio.NewScanner(r),
		ch:      make(chan lineResult),
		done:    make(chan struct{}),
	}
}

func (l *Lines) start() {
	go func() {
		defer close(l.ch)
		for l.scanner.Scan() {
			if !l.send(lineResult{text: l.scanner.Text()}) {
				return
			}
		}
		err := l.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		l.send(lineResult{err: err})
	}()
}

// send reports false once Close has been called and nobody will read again.
func (l *Lines) send(res lineResult) bool {
	select {
	case l.ch <- res:
		return true
	case <-l.done:
		return false
	}
}

// Next returns the next line without its newline, io.EOF once input ends,
// ErrClosed after Close, or ctx.Err() if ctx is done first.
func (l *Lines) Next(ctx context.Context) (string, error) {
	l.startOnce.Do(l.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-l.done:
		return "", ErrClosed
	case res, ok := <-l.ch:
		if !ok {
			select {
			case <-l.done:
				return "", ErrClosed
			default:
				return "", io.EOF
			}
		}
		return res.text, res.err
	}
}

// Close releases the reader goroutine. A read already blocked on the
// underlying reader finishes first, then the goroutine exits without
// delivering what it read.
func (l *Lines) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}
