package pipeline

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageIngest is the log-reading stage.
	StageIngest Stage = "ingest"
	// StageClassify is the frequency-quality classification stage.
	StageClassify Stage = "classify"
	// StagePrune is the per-band bust-removal stage.
	StagePrune Stage = "prune"
	// StageMerge is the band-result union and counting stage.
	StageMerge Stage = "merge"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the contest is waiting for a pool slot.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for one contest directory.
type Event struct {
	Dir    string
	Stage  Stage
	Status Status
	Err    error
	// QSOs carries the corpus size once ingest completes.
	QSOs int
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// NullSink discards events.
type NullSink struct{}

func (NullSink) OnEvent(Event) {}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
