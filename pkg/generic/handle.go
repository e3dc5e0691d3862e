package generic

import (
	"sync"

	"github.com/jheon/lib-hsms-go/pkg/hsms"
)

// Handle is the completable result of an outbound procedure.
//
// A handle transitions from pending to completed exactly once, by one of:
// the matching reply arriving, a Reject.req targeting the transaction, the
// reply timer expiring, or connection teardown.
type Handle struct {
	once sync.Once
	done chan struct{}
	msg  hsms.Message
	err  error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// completedHandle creates a handle that is already completed, for
// procedures that finish on send.
func completedHandle(msg hsms.Message, err error) *Handle {
	h := newHandle()
	h.complete(msg, err)
	return h
}

func (h *Handle) complete(msg hsms.Message, err error) {
	h.once.Do(func() {
		h.msg = msg
		h.err = err
		close(h.done)
	})
}

// Done returns a channel that is closed when the procedure has completed.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result blocks until the procedure has completed, and returns the reply
// message, if the procedure has one, and the procedure error.
func (h *Handle) Result() (hsms.Message, error) {
	<-h.done
	return h.msg, h.err
}

// Wait blocks until the procedure has completed, and returns the procedure
// error.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// ReplyData blocks until the procedure has completed, and returns the reply
// as a data message. The reply is nil for a data message sent without the
// wait bit.
func (h *Handle) ReplyData() (*hsms.DataMessage, error) {
	msg, err := h.Result()
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}
	data, ok := msg.(*hsms.DataMessage)
	if !ok {
		return nil, hsms.ErrInvalidResponse
	}
	return data, nil
}
