package game

import "sync"

// dispatcher delivers a game's events to its listener in emission order.
// The queue is unbounded so that emitting never blocks the state machine.
type dispatcher struct {
	listener Listener

	mu     sync.Mutex
	queue  []Event
	closed bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newDispatcher(l Listener) *dispatcher {
	d := &dispatcher{
		listener: l,
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) push(ev Event) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, ev)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// close stops delivery. Events still queued are dropped.
func (d *dispatcher) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.quit)
	}
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case <-d.quit:
			return
		case <-d.wake:
		}

		for {
			d.mu.Lock()
			if d.closed || len(d.queue) == 0 {
				d.mu.Unlock()
				break
			}
			ev := d.queue[0]
			d.queue[0] = nil
			d.queue = d.queue[1:]
			d.mu.Unlock()

			d.listener(ev)

			if _, over := ev.(GameOver); over {
				d.close()
				return
			}
		}
	}
}
