//go:build darwin

package cotask

import "golang.org/x/sys/unix"

// pipeWaker is the Darwin/BSD equivalent of [eventfdWaker]: kqueue has
// no eventfd analog, so a self-pipe does the same job.
type pipeWaker struct {
	readFD, writeFD int
}

func newPipeWaker() (*pipeWaker, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, err
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, err
	}
	return &pipeWaker{readFD: fds[0], writeFD: fds[1]}, nil
}

func (w *pipeWaker) fd() int { return w.readFD }

func (w *pipeWaker) wake() {
	var b [1]byte
	_, _ = unix.Write(w.writeFD, b[:])
}

func (w *pipeWaker) drain() {
	var buf [64]byte
	for {
		if _, err := unix.Read(w.readFD, buf[:]); err != nil {
			break
		}
	}
}

func (w *pipeWaker) close() {
	_ = unix.Close(w.readFD)
	_ = unix.Close(w.writeFD)
}
