package render

// Recorder keeps the submissions of the last frame. Used headless and in tests.
type Recorder struct {
	Calls    []DrawCall
	Viewport Viewport
	Frames   int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) BeginFrame(vp Viewport) {
	r.Viewport = vp
	r.Calls = r.Calls[:0]
}

func (r *Recorder) Draw(call DrawCall) {
	r.Calls = append(r.Calls, call)
}

func (r *Recorder) EndFrame() {
	r.Frames++
}

// IDs returns the actor ids submitted this frame, in submission order.
func (r *Recorder) IDs() []string {
	ids := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ids[i] = c.ActorID
	}
	return ids
}
