// Package telemetry records granted rewards as JSON lines and ships them in batches.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/PrizeKiosk_Go/internal/event"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// BatchUploader sends a batch of encoded lines
type BatchUploader interface {
	Upload(ctx context.Context, batch []json.RawMessage) error
}

// Recorder appends a line per reward.granted event to a local JSONL file and
// queues it for upload. Upload happens only in Flush, never on the publishing path.
type Recorder struct {
	settings Settings
	session  string
	platform string
	uploader BatchUploader

	fileMu  sync.Mutex
	pending queue
}

// NewRecorder creates a recorder. uploader may be nil when uploads are disabled.
func NewRecorder(s Settings, uploader BatchUploader) (*Recorder, error) {
	if s.Enabled {
		if err := os.MkdirAll(filepath.Dir(s.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("create telemetry dir: %w", err)
		}
	}
	return &Recorder{
		settings: s,
		session:  uuid.New().String(),
		platform: runtime.GOOS + "/" + runtime.GOARCH,
		uploader: uploader,
		pending:  queue{limit: s.MaxPending},
	}, nil
}

// Register subscribes the recorder to reward grants
func (r *Recorder) Register(bus event.Bus) {
	bus.Subscribe(event.RewardGranted, r.HandleEvent)
}

// Session returns the id stamped on every line of this process
func (r *Recorder) Session() string { return r.session }

// Pending returns the number of lines waiting for upload
func (r *Recorder) Pending() int { return r.pending.len() }

// HandleEvent records a reward.granted event. Failures are logged, never returned,
// so telemetry cannot break the grant that produced it.
func (r *Recorder) HandleEvent(ctx context.Context, evt event.Event) error {
	if !r.settings.Enabled || evt.Type != event.RewardGranted {
		return nil
	}
	log := logger.FromContext(ctx)

	p, err := event.DecodePayload[event.RewardGrantedPayloadV1](evt.Payload)
	if err != nil {
		log.Warn(LogMsgDecodeFailed, "error", err)
		return nil
	}

	line, err := json.Marshal(newRecord(p, r.session, r.platform, r.settings))
	if err != nil {
		log.Warn(LogMsgEncodeFailed, "error", err)
		return nil
	}

	if err := r.appendLine(line); err != nil {
		log.Warn(LogMsgAppendFailed, "path", r.settings.FilePath, "error", err)
	}
	if r.settings.Uploading() && r.uploader != nil {
		if dropped := r.pending.push(line); dropped > 0 {
			log.Warn(LogMsgPendingOverflow, "dropped", dropped, "limit", r.settings.MaxPending)
		}
	}
	return nil
}

func (r *Recorder) appendLine(line []byte) error {
	r.fileMu.Lock()
	defer r.fileMu.Unlock()

	f, err := os.OpenFile(r.settings.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, FilePermissions)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Flush uploads one batch. A failed batch goes back to the head of the queue.
func (r *Recorder) Flush(ctx context.Context) error {
	if !r.settings.Uploading() || r.uploader == nil {
		return nil
	}
	batch := r.pending.take(r.settings.BatchSize)
	if len(batch) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)
	if err := r.uploader.Upload(ctx, batch); err != nil {
		if dropped := r.pending.requeue(batch); dropped > 0 {
			log.Warn(LogMsgPendingOverflow, "dropped", dropped, "limit", r.settings.MaxPending)
		}
		log.Warn(LogMsgUploadFailed, "lines", len(batch), "error", err)
		return err
	}
	log.Debug(LogMsgUploadSucceeded, "lines", len(batch), "pending", r.pending.len())
	return nil
}

// FlushJob adapts Flush to the worker pool
type FlushJob struct {
	Recorder *Recorder
}

// Process runs one flush
func (j FlushJob) Process(ctx context.Context) error {
	return j.Recorder.Flush(ctx)
}
