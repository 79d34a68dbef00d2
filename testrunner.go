package electric

import (
	"encoding/json"
	"fmt"
)

// Screenshotter captures the rendered surface under a label. The ebitenhost
// Host implements it; headless runs may leave it unset.
type Screenshotter interface {
	Screenshot(label string)
}

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Key    string  `json:"key,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"click": true, "press": true, "move": true, "release": true,
	"drag": true, "key": true, "wait": true, "screenshot": true,
}

// TestRunner sequences injected input events and screenshots across frames
// for automated runs. Attach to a Runtime via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Runtime via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner. Its step method runs at the start of
// each frame, before injected input is processed.
func (rt *Runtime) SetTestRunner(runner *TestRunner) {
	rt.testRunner = runner
}

// SetScreenshotter sets the target of "screenshot" steps.
func (rt *Runtime) SetScreenshotter(s Screenshotter) {
	rt.screenshots = s
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame.
func (r *TestRunner) step(rt *Runtime) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(rt.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		if rt.screenshots != nil {
			rt.screenshots.Screenshot(st.Label)
		}
	case "click":
		rt.InjectClick(st.X, st.Y)
	case "press":
		rt.InjectPress(st.X, st.Y)
	case "move":
		rt.InjectMove(st.X, st.Y)
	case "release":
		rt.InjectRelease(st.X, st.Y)
	case "drag":
		rt.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "key":
		rt.InjectKey(st.Key, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(rt.injectQueue) == 0 {
		r.done = true
	}
}
