// Package recording provides a gpucore.Context that records GPU calls
// instead of executing them.
//
// The recording system captures every program bind, uniform write, buffer
// upload and draw as a typed command. Commands can be inspected directly
// (tests assert on draw counts, scissor rectangles and uniform writes),
// printed as a trace, or played back into another gpucore.Context.
//
// # Architecture
//
//   - Recorder: implements gpucore.Context and captures commands
//   - Recording: an immutable snapshot of captured commands
//   - Playback: replays a Recording into any gpucore.Context, remapping
//     resource IDs and re-resolving uniform locations by name
//
// # Example
//
//	rec := recording.NewRecorder()
//	backend, err := uigl.New(rec, uigl.DefaultSettings())
//	if err != nil {
//	    return err
//	}
//	rec.Reset() // drop construction commands
//	if err := backend.Present(rec, primitive, viewport, nil); err != nil {
//	    return err
//	}
//	for _, d := range rec.Draws() {
//	    fmt.Println(d.Geometry.InstanceCount, d.State.Scissor)
//	}
//
// The Recorder is not safe for concurrent use.
package recording
