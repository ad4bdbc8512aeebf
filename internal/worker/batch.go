package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ppiankov/crimeetl/internal/model"
	"github.com/ppiankov/crimeetl/internal/source"
)

// ReadJob loads one partition
type ReadJob struct {
	Index     int // Position in the configured partition order
	Partition string
	Reader    source.Reader
}

// Execute executes the read job
func (j *ReadJob) Execute(ctx context.Context) Result {
	part, err := j.Reader.Read(ctx, j.Partition)
	return &ReadResult{
		Index:     j.Index,
		Partition: j.Partition,
		Data:      part,
		Error:     err,
	}
}

// ReadResult represents the result of a read job
type ReadResult struct {
	Index     int
	Partition string
	Data      *model.RawPartition
	Error     error
}

// GetError returns the error from the read result
func (r *ReadResult) GetError() error {
	return r.Error
}

// BatchReader reads partitions concurrently and hands them back in order
type BatchReader struct {
	reader      source.Reader
	concurrency int
}

// NewBatchReader creates a new batch reader
func NewBatchReader(reader source.Reader, concurrency int) *BatchReader {
	return &BatchReader{
		reader:      reader,
		concurrency: concurrency,
	}
}

// ReadAll loads every partition. The returned slice is in the same order as
// partitions regardless of completion order. The first failing partition (in
// partition order) aborts the batch.
func (b *BatchReader) ReadAll(ctx context.Context, partitions []string) ([]*model.RawPartition, error) {
	if len(partitions) == 0 {
		return nil, model.ErrNoPartitions
	}

	workers := b.concurrency
	if workers > len(partitions) {
		workers = len(partitions)
	}

	pool := NewPool(ctx, workers)
	pool.Start()

	jobs := make([]Job, len(partitions))
	for i, p := range partitions {
		jobs[i] = &ReadJob{Index: i, Partition: p, Reader: b.reader}
	}

	results := pool.Run(jobs)

	readResults := make([]*ReadResult, len(results))
	for i, result := range results {
		readResults[i] = result.(*ReadResult)
	}
	sort.Slice(readResults, func(i, j int) bool {
		return readResults[i].Index < readResults[j].Index
	})

	for _, r := range readResults {
		if r.Error != nil {
			return nil, fmt.Errorf("read %s: %w", r.Partition, r.Error)
		}
	}
	if len(readResults) != len(partitions) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("read partitions: %w", err)
		}
		return nil, fmt.Errorf("read partitions: got %d of %d results", len(readResults), len(partitions))
	}

	out := make([]*model.RawPartition, len(readResults))
	for i, r := range readResults {
		slog.Debug("partition loaded", "partition", r.Partition, "rows", len(r.Data.Rows), "columns", len(r.Data.Columns))
		out[i] = r.Data
	}
	return out, nil
}
