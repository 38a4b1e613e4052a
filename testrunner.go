package milun

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

// TestRunner plays a JSON input script one step per frame: cursor moves,
// button presses, clicks, drags, waits, screenshots, and a final close.
// Attach it with SetTestRunner before Run.
//
//	{"steps": [
//	  {"action": "move", "x": 100, "y": 40},
//	  {"action": "click", "x": 100, "y": 40},
//	  {"action": "wait", "frames": 5},
//	  {"action": "screenshot", "label": "after-click"},
//	  {"action": "close"}
//	]}
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

var scriptActions = map[string]bool{
	"move": true, "press": true, "release": true, "click": true,
	"drag": true, "wait": true, "screenshot": true, "close": true,
}

// LoadTestScript parses a JSON input script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("milun: parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("milun: parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("milun: parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches runner to the renderer. A nil runner detaches it.
func (r *Renderer) SetTestRunner(runner *TestRunner) {
	r.testRunner = runner
}

// Done reports whether every step has been executed.
func (t *TestRunner) Done() bool {
	return t.done
}

// step advances the script by one frame. Injected events from earlier steps
// drain before the next step runs.
func (t *TestRunner) step(r *Renderer) {
	if t.done {
		return
	}
	if len(r.injectQueue) > 0 {
		return
	}
	if t.waitCount > 0 {
		t.waitCount--
		return
	}
	if t.cursor >= len(t.steps) {
		t.done = true
		return
	}

	st := t.steps[t.cursor]
	t.cursor++

	switch st.Action {
	case "move":
		r.InjectCursor(st.X, st.Y)
	case "press":
		r.InjectPress(st.X, st.Y)
	case "release":
		r.InjectRelease(st.X, st.Y)
	case "click":
		r.InjectClick(st.X, st.Y)
	case "drag":
		r.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			t.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		r.Screenshot(st.Label)
	case "close":
		r.InjectClose()
	}

	if t.cursor >= len(t.steps) && t.waitCount == 0 && len(r.injectQueue) == 0 {
		t.done = true
	}
}
