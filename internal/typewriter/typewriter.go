// Package typewriter expands the alternating hero titles into the frame
// sequence the home page plays: type each word, glitch, delete backwards,
// swap to the next title.
package typewriter

import (
	"encoding/json"
	"time"
)

// Timing holds the delay before each kind of transition.
type Timing struct {
	Type     time.Duration
	NextWord time.Duration
	Pause    time.Duration
	Delete   time.Duration
	PrevWord time.Duration
	Swap     time.Duration
}

var DefaultTiming = Timing{
	Type:     100 * time.Millisecond,
	NextWord: 200 * time.Millisecond,
	Pause:    3 * time.Second,
	Delete:   50 * time.Millisecond,
	PrevWord: 100 * time.Millisecond,
	Swap:     500 * time.Millisecond,
}

// Frame is one displayed state and how long it stays before the next one.
// Cursor is the word index showing the caret, or -1.
type Frame struct {
	Words  []string      `json:"words"`
	Cursor int           `json:"cursor"`
	Glitch bool          `json:"glitch"`
	Hold   time.Duration `json:"-"`
}

// MarshalJSON reports Hold in whole milliseconds for the browser player.
func (f Frame) MarshalJSON() ([]byte, error) {
	type plain Frame
	return json.Marshal(struct {
		plain
		HoldMs int64 `json:"holdMs"`
	}{plain(f), f.Hold.Milliseconds()})
}

// Sequence returns one full cycle over titles. Playing it in a loop
// reproduces the endless animation.
func Sequence(titles [][]string, t Timing) []Frame {
	var frames []Frame
	for _, title := range titles {
		shown := make([]string, len(title))
		emit := func(cursor int, glitch bool, hold time.Duration) {
			words := make([]string, len(shown))
			copy(words, shown)
			frames = append(frames, Frame{Words: words, Cursor: cursor, Glitch: glitch, Hold: hold})
		}

		for i := 0; i < len(title); {
			word := []rune(title[i])
			n := len([]rune(shown[i]))
			if n < len(word) {
				emit(i, false, t.Type)
				shown[i] = string(word[:n+1])
				continue
			}
			emit(i, false, t.NextWord)
			i++
		}

		emit(-1, true, t.Pause)

		for i := len(title) - 1; i >= 0; {
			cur := []rune(shown[i])
			if len(cur) > 0 {
				emit(-1, false, t.Delete)
				shown[i] = string(cur[:len(cur)-1])
				continue
			}
			emit(-1, false, t.PrevWord)
			i--
		}

		emit(-1, false, t.Swap)
	}
	return frames
}

// Duration is the total play time of frames.
func Duration(frames []Frame) time.Duration {
	var d time.Duration
	for _, f := range frames {
		d += f.Hold
	}
	return d
}
