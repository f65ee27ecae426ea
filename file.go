package cotask

import (
	"io"
	"os"
)

// FileReader is an open file used for asynchronous reads. Regular
// files have no epoll/kqueue readiness signal worth relying on (they
// are always "ready"), so reads run through the scheduler's offload
// pool instead of the readiness-based completion backend.
type FileReader struct {
	sched  *Scheduler
	file   *os.File
	closed bool
}

// OpenFile opens path for asynchronous reading.
func OpenFile(sched *Scheduler, path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileReader{sched: sched, file: f}, nil
}

// Close releases the underlying file descriptor. Safe to call more
// than once.
func (r *FileReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// FileReadBufOp is the [Awaitable] returned by [FileReader.ReadBuf].
type FileReadBufOp struct {
	reader *FileReader
	result IOResult
	wait   *bool
}

// ReadBuf submits a single read of up to len(buf) bytes starting at
// offset, without blocking the calling task. Await its result with
// [Await].
func (r *FileReader) ReadBuf(offset int64, buf []byte) *FileReadBufOp {
	op := &FileReadBufOp{reader: r}
	if r.closed {
		op.result = IOResult{Finished: true, Success: false}
		return op
	}
	r.sched.submitOffload(op, func() (int, error) {
		n, err := r.file.ReadAt(buf, offset)
		return n, err
	})
	return op
}

func (op *FileReadBufOp) ready() bool { return op.result.Finished }

func (op *FileReadBufOp) arm(wait *bool) {
	op.wait = wait
	*wait = true
}

func (op *FileReadBufOp) resume() IOResult { return op.result }

// complete implements offloadOp.
func (op *FileReadBufOp) complete(n int, err error) {
	op.result = IOResult{Finished: true, N: n, Success: err == nil || err == io.EOF}
	if op.wait != nil {
		*op.wait = false
		op.wait = nil
	}
}

// FileReadAllResult is the value [FileReadAllOp] resolves to.
type FileReadAllResult struct {
	// Data holds every byte read from the file, starting at the
	// offset passed to [FileReader.ReadAll].
	Data    []byte
	Success bool
}

// String returns the accumulated bytes as a string, for convenience
// when reading text files.
func (r FileReadAllResult) String() string { return string(r.Data) }

// FileReadAllOp is the [Awaitable] returned by [FileReader.ReadAll].
// Unlike [FileReadBufOp], it is itself a driver: each sub-read that
// returns data and no error submits the next one, so a single Await
// resolves once EOF is reached or a sub-read fails.
type FileReadAllOp struct {
	reader  *FileReader
	offset  int64
	scratch []byte
	data    []byte
	done    bool
	result  FileReadAllResult
	wait    *bool
}

// ReadAll reads the entire file starting at offset, in
// WithFileScratchSize-sized chunks, resolving once EOF is reached.
func (r *FileReader) ReadAll(offset int64) *FileReadAllOp {
	op := &FileReadAllOp{
		reader:  r,
		offset:  offset,
		scratch: make([]byte, r.sched.opts.fileScratchSize),
	}
	op.submitNext()
	return op
}

func (op *FileReadAllOp) submitNext() {
	if op.reader.closed {
		op.finish(false)
		return
	}
	op.reader.sched.submitOffload(op, func() (int, error) {
		return op.reader.file.ReadAt(op.scratch, op.offset)
	})
}

func (op *FileReadAllOp) finish(success bool) {
	op.done = true
	op.result = FileReadAllResult{Data: op.data, Success: success}
	if op.wait != nil {
		*op.wait = false
		op.wait = nil
	}
}

func (op *FileReadAllOp) ready() bool { return op.done }

func (op *FileReadAllOp) arm(wait *bool) {
	op.wait = wait
	*wait = true
}

func (op *FileReadAllOp) resume() FileReadAllResult { return op.result }

// complete implements offloadOp: each call either finishes the
// operation (EOF or error) or appends what was read and resubmits.
func (op *FileReadAllOp) complete(n int, err error) {
	if n > 0 {
		op.data = append(op.data, op.scratch[:n]...)
		op.offset += int64(n)
	}
	if err != nil {
		op.finish(err == io.EOF)
		return
	}
	if n == 0 {
		op.finish(true)
		return
	}
	op.submitNext()
}
