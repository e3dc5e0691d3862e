package generic

import (
	"sync"

	"github.com/golang-collections/collections/queue"

	"github.com/jheon/lib-hsms-go/pkg/hsms"
)

// Inbox is the reader over the inbound data queue of a connection. It
// delivers primary data messages to the application in arrival order.
//
// The queue is unbounded so that a slow application cannot stall the
// dispatcher, which would hold up reply matching for the whole connection.
type Inbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  *queue.Queue
	closed bool
}

func newInbox() *Inbox {
	inbox := &Inbox{queue: queue.New()}
	inbox.cond = sync.NewCond(&inbox.mu)
	return inbox
}

// Next blocks until a primary data message arrives and returns it. Messages
// already queued at disconnect are still delivered; after the queue drains,
// Next fails with hsms.ErrDisconnected.
func (i *Inbox) Next() (*hsms.DataMessage, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for i.queue.Len() == 0 && !i.closed {
		i.cond.Wait()
	}

	if i.queue.Len() > 0 {
		return i.queue.Dequeue().(*hsms.DataMessage), nil
	}
	return nil, hsms.ErrDisconnected
}

func (i *Inbox) push(msg *hsms.DataMessage) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return
	}
	i.queue.Enqueue(msg)
	i.cond.Signal()
}

func (i *Inbox) close() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.closed = true
	i.cond.Broadcast()
}
