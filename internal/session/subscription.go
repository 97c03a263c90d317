package session

const eventBufferSize = 16

// Subscription provides event channels for a subscriber. Sends never block;
// events are dropped when a buffer is full.
type Subscription struct {
	StateChanged   <-chan StateChange
	TaskChanged    <-chan TaskChange
	ElapsedChanged <-chan ElapsedChange
	VolumeChanged  <-chan VolumeChange
	Error          <-chan ErrorEvent
	Done           <-chan struct{}

	stateCh   chan StateChange
	taskCh    chan TaskChange
	elapsedCh chan ElapsedChange
	volumeCh  chan VolumeChange
	errorCh   chan ErrorEvent
	doneCh    chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:   make(chan StateChange, eventBufferSize),
		taskCh:    make(chan TaskChange, eventBufferSize),
		elapsedCh: make(chan ElapsedChange, eventBufferSize),
		volumeCh:  make(chan VolumeChange, eventBufferSize),
		errorCh:   make(chan ErrorEvent, eventBufferSize),
		doneCh:    make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TaskChanged = s.taskCh
	s.ElapsedChanged = s.elapsedCh
	s.VolumeChanged = s.volumeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func send[T any](ch chan T, e T) {
	select {
	case ch <- e:
	default:
	}
}
