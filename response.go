package boxon

// Response is the per-message result of a façade's Parse or Compose call. A
// message either decoded/encoded successfully, in which case Msg is populated
// and Err is nil, or it failed, in which case Err describes the failure and
// Src retains the original bytes the message was read from (or, for Compose,
// the value that failed to encode).
type Response[Src, Msg any] struct {
	// Msg is the decoded or encoded message. Zero value if Err != nil.
	Msg Msg
	// Src is the original source bytes (decode) or the value passed to
	// Compose (encode) this Response was produced from. Always populated,
	// even on error, so that callers can inspect the raw bytes of a message
	// that failed to decode.
	Src Src
	// Err is non-nil if decoding or encoding this message failed.
	Err error
}

// OK reports whether r represents a successful operation.
func (r Response[Src, Msg]) OK() bool {
	return r.Err == nil
}
