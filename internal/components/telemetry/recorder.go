package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call captured by Recorder.
type Report struct {
	Kind   string
	Id     string
	Params []any
	Count  int64
}

// Recorder implements API by keeping every report in memory, it is meant
// to be used by tests that want to assert a component reported a breakage.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) push(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.push(Report{Kind: "broken", Id: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.push(Report{Kind: "warning", Id: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.push(Report{Kind: "debug", Id: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.push(Report{Kind: "count", Id: id, Count: count})
}

// Reports returns a copy of everything recorded so far.
func (r *Recorder) Reports() []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Broken returns the ids of every ReportBroken call whose id contains `substr`.
func (r *Recorder) Broken(substr string) []string {
	var ids []string
	for _, report := range r.Reports() {
		if report.Kind == "broken" && strings.Contains(report.Id, substr) {
			ids = append(ids, report.Id)
		}
	}
	return ids
}
