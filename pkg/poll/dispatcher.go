package poll

import (
	"context"
	"log/slog"

	"github.com/dmelnikov/healthwave/internal/logging"
	"github.com/dmelnikov/healthwave/pkg/domain"
	"github.com/dmelnikov/healthwave/pkg/ports"
)

// Outcome is the named result of one export attempt. A failed export is
// lost: it is not retried and never surfaced to the respondent, so the
// outcome exists to make that loss observable to callers and tests.
type Outcome int

const (
	// Exported means the row was appended to the sink.
	Exported Outcome = iota
	// SinkFailed means the sink rejected the row; the record stays done
	// and the row is gone.
	SinkFailed
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o == Exported {
		return "exported"
	}
	return "sink_failed"
}

// Dispatcher translates a completed record into exactly one sink row.
type Dispatcher struct {
	sink   ports.ResultSink
	logger *slog.Logger
}

// NewDispatcher creates a result dispatcher over the sink.
func NewDispatcher(sink ports.ResultSink, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{sink: sink, logger: logger}
}

// Dispatch appends one row for the completed record: display name,
// diagnosis, certificate date, last attendance, certificate flag, wave date.
func (d *Dispatcher) Dispatch(ctx context.Context, displayName string, rec domain.Record, wave domain.Wave) Outcome {
	row := []any{
		displayName,
		rec.Diagnosis,
		rec.MedicalCertificateData,
		rec.DateOfLastAttendance,
		rec.MedicalCertificate,
		wave.Date,
	}
	if err := d.sink.AppendRow(ctx, wave.SheetURL, row); err != nil {
		d.logger.Error("sink write failed, row lost",
			"respondent", displayName,
			"wave", wave.Date,
			"err", err,
		)
		return SinkFailed
	}
	return Exported
}
