package astack

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// A TelemetrySampler snapshots resource usage for the ProgressSink.
// The first CPU reading is always 0 - cpu.Percent measures the
// interval since the previous call, and the consumer polls often
// enough for that to settle immediately.
type TelemetrySampler struct {
	queue *FrameQueue
}

func NewTelemetrySampler(q *FrameQueue) *TelemetrySampler {
	return &TelemetrySampler{queue: q}
}

func (ts *TelemetrySampler)Sample() Telemetry {
	t := Telemetry{Goroutines: runtime.NumGoroutine()}

	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		t.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		t.MemoryPercent = vm.UsedPercent
	}
	if ts.queue != nil {
		t.QueueDepth = ts.queue.Depth()
	}

	return t
}
