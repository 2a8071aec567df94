package ranking

// NopRecorder is a Recorder that discards every observation. It exists so
// callers that don't want telemetry can pass a concrete value instead of a
// bare nil when a non-nil Recorder is more convenient (e.g. through an
// interface stored alongside other non-nilable fields).
type NopRecorder struct{}

func (NopRecorder) AddRSV()       {}
func (NopRecorder) StripTouch()   {}
func (NopRecorder) HeapPromotion() {}
