package split

import (
	"sync/atomic"
	"time"
)

// counter holds the last id handed out in this process. It starts from the
// clock so ids stored by an earlier run stay below it.
var counter atomic.Int64

func init() {
	counter.Store(time.Now().UnixMilli() << 10)
}

func newID() NodeID {
	return NodeID(counter.Add(1))
}

func lastID() NodeID {
	return NodeID(counter.Load())
}

// reserveID moves the counter past id so fresh ids never collide with it.
func reserveID(id NodeID) {
	for {
		cur := counter.Load()
		if int64(id) <= cur || counter.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}
