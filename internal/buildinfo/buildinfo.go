package buildinfo

import "time"

// Set via -ldflags at build time, e.g.
// -X github.com/xelth-com/eckmobile/internal/buildinfo.CommitHash=$(git rev-parse --short HEAD)
var (
	BuildTime  string
	CommitTime string
	CommitHash string
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC().Format(time.RFC3339)

// Info is what the health endpoint reports about the running binary
type Info struct {
	Backend    string `json:"backend"`
	BuildTime  string `json:"build_time"`
	CommitTime string `json:"commit_time"`
	CommitHash string `json:"commit_hash"`
	StartedAt  string `json:"started_at"`
}

// Current describes this binary serving the given backend.
// Fields not set at link time read "unknown".
func Current(backend string) Info {
	return Info{
		Backend:    backend,
		BuildTime:  orUnknown(BuildTime),
		CommitTime: orUnknown(CommitTime),
		CommitHash: orUnknown(CommitHash),
		StartedAt:  StartTime,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
