package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/collection"
)

// UploadSettings controls the simulated upload progress.
type UploadSettings struct {
	// Step is the percentage added on every tick.
	Step int
	Tick time.Duration
}

type uploadJob struct {
	snap    domain.UploadJob
	upload  domain.FileUpload
	cancel  context.CancelFunc
	done    chan struct{}
	watches map[chan domain.UploadJob]struct{}
}

// FileService tracks upload jobs and the file records they produce.
type FileService struct {
	files          *collection.Collection[*domain.FileRecord]
	events         domain.EventLookup
	blobs          domain.BlobStore
	logger         *slog.Logger
	settings       UploadSettings
	contextTimeout time.Duration
	now            clock

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup

	mu   sync.Mutex
	jobs map[string]*uploadJob
}

// NewFileService creates a FileService storing content in blobs.
func NewFileService(kv domain.KVStore, events domain.EventLookup, blobs domain.BlobStore, settings UploadSettings, logger *slog.Logger, timeout time.Duration) *FileService {
	if settings.Step <= 0 || settings.Step > 100 {
		settings.Step = 10
	}
	if settings.Tick <= 0 {
		settings.Tick = 200 * time.Millisecond
	}
	ctx, stop := context.WithCancel(context.Background())
	return &FileService{
		files:          collection.New(kv, domain.KindFiles, func(f *domain.FileRecord) string { return f.ID }, logger),
		events:         events,
		blobs:          blobs,
		logger:         logger,
		settings:       settings,
		contextTimeout: timeout,
		now:            time.Now,
		baseCtx:        ctx,
		stop:           stop,
		jobs:           make(map[string]*uploadJob),
	}
}

// StartUpload validates the upload and starts a job for it. The file record is
// created when the job completes.
func (s *FileService) StartUpload(ctx context.Context, eventID string, upload domain.FileUpload) (*domain.UploadJob, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	upload.Name = path.Base(strings.ReplaceAll(strings.TrimSpace(upload.Name), "\\", "/"))
	if upload.Name == "" || upload.Name == "." || upload.Name == ".." || upload.Name == "/" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}
	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return nil, err
	}

	now := s.now()
	jobCtx, jobCancel := context.WithCancel(s.baseCtx)
	job := &uploadJob{
		snap: domain.UploadJob{
			ID:        newID(now),
			EventID:   eventID,
			Name:      upload.Name,
			State:     domain.UploadRunning,
			StartedAt: now,
		},
		upload:  upload,
		cancel:  jobCancel,
		done:    make(chan struct{}),
		watches: make(map[chan domain.UploadJob]struct{}),
	}

	s.mu.Lock()
	s.jobs[job.snap.ID] = job
	snap := job.snap
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(jobCtx, job)
	return &snap, nil
}

func (s *FileService) GetUpload(jobID string) (*domain.UploadJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	snap := job.snap
	return &snap, nil
}

// CancelUpload stops a running job and waits for it to settle. A job that
// already finished is returned unchanged.
func (s *FileService) CancelUpload(jobID string) (*domain.UploadJob, error) {
	s.mu.Lock()
	job, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	job.cancel()
	<-job.done
	return s.GetUpload(jobID)
}

// WatchUpload returns a channel receiving the latest snapshot of the job after
// every change. Slow readers only miss intermediate snapshots. The channel is
// closed once the job finishes or ctx is done.
func (s *FileService) WatchUpload(ctx context.Context, jobID string) (<-chan domain.UploadJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ch := make(chan domain.UploadJob, 1)
	ch <- job.snap
	if job.snap.State.Done() {
		close(ch)
		return ch, nil
	}
	job.watches[ch] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-job.done:
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := job.watches[ch]; ok {
			delete(job.watches, ch)
			close(ch)
		}
	}()
	return ch, nil
}

// PruneUploads forgets finished jobs that ended more than age ago.
func (s *FileService) PruneUploads(age time.Duration) int {
	cutoff := s.now().Add(-age)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, job := range s.jobs {
		if job.snap.FinishedAt != nil && job.snap.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
			n++
		}
	}
	return n
}

func (s *FileService) ListFiles(ctx context.Context, eventID string) ([]*domain.FileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	files, err := s.files.Load(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

func (s *FileService) DeleteFile(ctx context.Context, eventID, fileID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.files.Remove(ctx, eventID, fileID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *FileService) Summary(ctx context.Context, eventID string) (*domain.FileSummary, error) {
	files, err := s.ListFiles(ctx, eventID)
	if err != nil {
		return nil, err
	}
	sum := &domain.FileSummary{Count: len(files)}
	categories := make(map[string]struct{})
	for _, f := range files {
		sum.TotalSize += f.Size
		category, _, _ := strings.Cut(f.Type, "/")
		categories[category] = struct{}{}
	}
	sum.Categories = len(categories)
	sum.TotalSizeLabel = domain.FormatSize(sum.TotalSize)
	return sum, nil
}

// DropEvent cancels running uploads of the event and removes its file records.
func (s *FileService) DropEvent(ctx context.Context, eventID string) error {
	s.mu.Lock()
	var running []*uploadJob
	for _, job := range s.jobs {
		if job.snap.EventID == eventID && !job.snap.State.Done() {
			running = append(running, job)
		}
	}
	s.mu.Unlock()
	for _, job := range running {
		job.cancel()
		<-job.done
	}

	if err := s.files.Drop(ctx, eventID); err != nil {
		return fmt.Errorf("drop files: %w", err)
	}
	return nil
}

// Close cancels every running job and waits for them to finish.
func (s *FileService) Close() {
	s.stop()
	s.wg.Wait()
}

func (s *FileService) run(ctx context.Context, job *uploadJob) {
	defer s.wg.Done()
	defer job.cancel()

	ticker := time.NewTicker(s.settings.Tick)
	defer ticker.Stop()

	for progress := 0; progress < 100; {
		select {
		case <-ctx.Done():
			s.finish(job, domain.UploadCanceled, nil, nil)
			return
		case <-ticker.C:
			progress = min(100, progress+s.settings.Step)
			s.setProgress(job, progress)
		}
	}

	record, err := s.store(ctx, job)
	switch {
	case err == nil:
		s.finish(job, domain.UploadCompleted, record, nil)
	case ctx.Err() != nil:
		s.finish(job, domain.UploadCanceled, nil, nil)
	default:
		s.logger.Error("upload failed", "job_id", job.snap.ID, "event_id", job.snap.EventID, "err", err)
		s.finish(job, domain.UploadFailed, nil, err)
	}
}

// store writes the content to the blob store and appends the file record.
// The record takes the job id.
func (s *FileService) store(ctx context.Context, job *uploadJob) (*domain.FileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	eventID := job.snap.EventID
	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return nil, err
	}
	// Joined by hand so the blob store sees every segment as given.
	key := eventID + "/" + job.snap.ID + "/" + job.upload.Name
	url, err := s.blobs.Put(ctx, key, bytes.NewReader(job.upload.Content))
	if err != nil {
		return nil, fmt.Errorf("store content: %w", err)
	}
	record := &domain.FileRecord{
		ID:        job.snap.ID,
		EventID:   eventID,
		Name:      job.upload.Name,
		URL:       url,
		Type:      job.upload.Type,
		Size:      int64(len(job.upload.Content)),
		CreatedAt: s.now(),
	}
	if err := s.files.Append(ctx, eventID, record); err != nil {
		return nil, fmt.Errorf("save file record: %w", err)
	}
	return record, nil
}

func (s *FileService) setProgress(job *uploadJob, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job.snap.Progress = progress
	s.publish(job)
}

func (s *FileService) finish(job *uploadJob, state domain.UploadState, record *domain.FileRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	job.snap.State = state
	job.snap.File = record
	job.snap.FinishedAt = &now
	if err != nil {
		job.snap.Error = err.Error()
	}
	job.upload.Content = nil
	s.publish(job)
	for ch := range job.watches {
		close(ch)
		delete(job.watches, ch)
	}
	close(job.done)
}

// publish delivers the current snapshot to every watcher, replacing an unread one.
// Callers hold s.mu.
func (s *FileService) publish(job *uploadJob) {
	for ch := range job.watches {
		select {
		case ch <- job.snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- job.snap
		}
	}
}

var _ domain.FileService = (*FileService)(nil)
