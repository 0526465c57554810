package runes

import (
	"sync"
	"time"
)

// PlaybackOrder returns the frame indices of one palindromic cycle over n
// frames: forward through all of them, then back without repeating either
// end. PlaybackOrder(5) is [0 1 2 3 4 3 2 1].
func PlaybackOrder(n int) []int {
	if n <= 0 {
		return nil
	}
	order := make([]int, 0, max(2*n-2, 1))
	for i := range n {
		order = append(order, i)
	}
	for i := n - 2; i > 0; i-- {
		order = append(order, i)
	}
	return order
}

// AnimatedHandle plays a fixed set of frames in a loop, calling present for
// each one. Once Cancel has returned, present is not called again.
//
// present runs on the timer's goroutine while the handle is locked, so it
// must not call methods of the handle.
type AnimatedHandle struct {
	frames  []StillImage
	order   []int
	delay   time.Duration
	present func(StillImage)

	mu       sync.Mutex
	timer    *time.Timer
	pos      int
	current  int
	canceled bool
	done     chan struct{}
}

func newAnimatedHandle(frames []StillImage, order []int, delay time.Duration, present func(StillImage)) *AnimatedHandle {
	return &AnimatedHandle{
		frames:  frames,
		order:   order,
		delay:   delay,
		present: present,
		current: -1,
		done:    make(chan struct{}),
	}
}

func (h *AnimatedHandle) start() {
	if h.present == nil || len(h.order) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.timer = time.AfterFunc(0, h.tick)
}

func (h *AnimatedHandle) tick() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.canceled {
		return
	}
	h.current = h.order[h.pos]
	h.present(h.frames[h.current])
	h.pos = (h.pos + 1) % len(h.order)
	h.timer = time.AfterFunc(h.delay, h.tick)
}

// Cancel stops playback. It is safe to call more than once.
func (h *AnimatedHandle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.canceled {
		return
	}
	h.canceled = true
	if h.timer != nil {
		h.timer.Stop()
	}
	close(h.done)
}

// Done is closed by Cancel.
func (h *AnimatedHandle) Done() <-chan struct{} { return h.done }

// Current returns the index of the frame presented last, or -1.
func (h *AnimatedHandle) Current() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *AnimatedHandle) Frames() []StillImage { return h.frames }

// Order is the playback order of one cycle, as indices into Frames.
func (h *AnimatedHandle) Order() []int { return h.order }

// Delay is how long each entry of Order stays on screen.
func (h *AnimatedHandle) Delay() time.Duration { return h.delay }
