package cotask

// IOResult is the outcome of a byte-transfer I/O operation
// ([FileReader.ReadBuf], [TcpSend], [TcpSendAll], [TcpRecv],
// [TcpRecvAll], [RecvTimeout], [RecvAllTimeout]).
//
// Recoverable failures are never reported as Go errors — callers
// examine Finished/Success, matching the original design's rule that
// only programmer/construction-time failures are errors. When an
// [Awaitable] resolves, Finished is true, except for a [RecvTimeout]
// or [RecvAllTimeout] whose timer elapsed first: that result has
// Finished false and Success false.
type IOResult struct {
	// Finished is true once the operation has run to its natural end,
	// successfully or not.
	Finished bool
	// Success is true if the operation completed without error. A
	// TcpRecv that reads zero bytes always reports Success false:
	// end-of-stream is never treated as a successful transfer. A
	// TcpRecvAll that stops short of filling its buffer also reports
	// Success false; one given a zero-length buffer reports Success
	// true with N 0.
	Success bool
	// N is the number of bytes actually transferred.
	N int
}
