package driver

import "time"

// FileStatus tells what happened to one file of a directory run.
type FileStatus uint8

const (
	FileStarted FileStatus = iota
	FileDone
	FileFailed // не загрузился, не токенизировался или перевод невалиден
	FileCached
)

func (s FileStatus) String() string {
	switch s {
	case FileStarted:
		return "started"
	case FileDone:
		return "done"
	case FileFailed:
		return "failed"
	case FileCached:
		return "cached"
	default:
		return "unknown"
	}
}

// FileEvent is sent to DirOptions.OnEvent. Events arrive from worker
// goroutines; Total is the same for every event of a run.
type FileEvent struct {
	Path    string
	Index   int
	Total   int
	Status  FileStatus
	Elapsed time.Duration
	Errors  int
}

// Observer receives file events.
type Observer func(FileEvent)

func (o Observer) emit(ev FileEvent) {
	if o != nil {
		o(ev)
	}
}
