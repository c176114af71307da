package slider

// Loop is a cancellable repeating task on a FrameDriver: each frame runs the
// tick and re-requests the next one. Stopping breaks the chain.
type Loop struct {
	frames  FrameDriver
	tick    func()
	id      FrameID
	running bool
}

// NewLoop returns a stopped loop.
func NewLoop(frames FrameDriver, tick func()) *Loop {
	return &Loop{frames: frames, tick: tick}
}

// Start requests the first frame. Starting a running loop is a no-op.
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.schedule()
}

// Stop synchronously cancels the outstanding frame request. Idempotent.
func (l *Loop) Stop() {
	l.running = false
	if l.id != 0 {
		l.frames.CancelFrame(l.id)
		l.id = 0
	}
}

// Running reports whether the loop will tick on the next frame.
func (l *Loop) Running() bool { return l.running }

func (l *Loop) schedule() {
	l.id = l.frames.RequestFrame(l.frame)
}

func (l *Loop) frame() {
	l.id = 0
	l.tick()
	// tick may have stopped us
	if l.running && l.id == 0 {
		l.schedule()
	}
}
