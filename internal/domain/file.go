package domain

import (
	"context"
	"io"
	"math"
	"strconv"
	"time"
)

// FileRecord describes an uploaded file attached to an event.
// swagger:model FileRecord
type FileRecord struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileUpload is the payload of a new upload.
type FileUpload struct {
	Name    string
	Type    string
	Content []byte
}

// UploadState is the lifecycle state of an upload job.
type UploadState string

const (
	UploadRunning   UploadState = "running"
	UploadCompleted UploadState = "completed"
	UploadFailed    UploadState = "failed"
	UploadCanceled  UploadState = "canceled"
)

// Done reports whether the state is terminal.
func (s UploadState) Done() bool {
	return s != UploadRunning
}

// UploadJob is a point-in-time snapshot of an upload.
// swagger:model UploadJob
type UploadJob struct {
	ID         string      `json:"id"`
	EventID    string      `json:"eventId"`
	Name       string      `json:"name"`
	Progress   int         `json:"progress"`
	State      UploadState `json:"state"`
	Error      string      `json:"error,omitempty"`
	File       *FileRecord `json:"file,omitempty"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
}

// FileSummary aggregates the files of an event.
type FileSummary struct {
	Count          int    `json:"count"`
	TotalSize      int64  `json:"totalSize"`
	TotalSizeLabel string `json:"totalSizeLabel"`
	Categories     int    `json:"categories"`
}

// BlobStore keeps uploaded file content. Put returns the URL the content is served from.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (url string, err error)
}

// FileService defines file uploads for an event.
type FileService interface {
	EventScoped
	StartUpload(ctx context.Context, eventID string, upload FileUpload) (*UploadJob, error)
	GetUpload(jobID string) (*UploadJob, error)
	CancelUpload(jobID string) (*UploadJob, error)
	// WatchUpload streams snapshots of a job until it finishes or ctx is done.
	WatchUpload(ctx context.Context, jobID string) (<-chan UploadJob, error)
	// PruneUploads forgets finished jobs older than age and returns how many were removed.
	PruneUploads(age time.Duration) int
	ListFiles(ctx context.Context, eventID string) ([]*FileRecord, error)
	// DeleteFile removes the record only; stored content is left in place.
	DeleteFile(ctx context.Context, eventID, fileID string) error
	Summary(ctx context.Context, eventID string) (*FileSummary, error)
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count the way the dashboard shows it, e.g. "1.5 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
