package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"esekoir/internal/domain/repository"
	"esekoir/pkg/errors"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// getError maps a document read failure, keeping repository.ErrNotFound
// reachable through errors.Is.
func getError(resource string, err error) error {
	if isNotFound(err) {
		return errors.NotFound(resource, repository.ErrNotFound)
	}
	return errors.Internal("Failed to get "+strings.ToLower(resource), err)
}

func conflict(message string) error {
	e := errors.Conflict(message)
	e.Err = repository.ErrConflict
	return e
}

// collect decodes every document of a query.
func collect[T any](ctx context.Context, q firestore.Query, what string) ([]*T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []*T{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate "+what, err)
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, errors.Internal("Failed to parse "+what+" data", err)
		}
		out = append(out, &v)
	}
	return out, nil
}

func countQuery(ctx context.Context, q firestore.Query, what string) (int64, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count "+what, err)
	}
	return int64(len(docs)), nil
}

// writeJob is the part of *firestore.BulkWriterJob read after End.
type writeJob interface {
	Results() (*firestore.WriteResult, error)
}

// settle waits on every job and returns how many committed along with the
// first failure.
func settle(jobs []writeJob) (int, error) {
	n := 0
	var firstErr error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		n++
	}
	return n, firstErr
}

// updateAll sets the same fields on every document and returns how many
// writes committed.
func updateAll(ctx context.Context, client *firestore.Client, docs []*firestore.DocumentSnapshot, updates []firestore.Update) (int, error) {
	bw := client.BulkWriter(ctx)
	jobs := make([]writeJob, 0, len(docs))
	for _, doc := range docs {
		job, err := bw.Update(doc.Ref, updates)
		if err != nil {
			bw.End()
			n, _ := settle(jobs)
			return n, err
		}
		jobs = append(jobs, job)
	}
	bw.End()
	return settle(jobs)
}

// deleteAll removes every document the queries yield and returns how many
// deletes committed.
func deleteAll(ctx context.Context, client *firestore.Client, queries ...firestore.Query) (int, error) {
	bw := client.BulkWriter(ctx)
	var jobs []writeJob
	for _, q := range queries {
		docs, err := q.Documents(ctx).GetAll()
		if err == nil {
			for _, doc := range docs {
				var job *firestore.BulkWriterJob
				if job, err = bw.Delete(doc.Ref); err != nil {
					break
				}
				jobs = append(jobs, job)
			}
		}
		if err != nil {
			bw.End()
			n, _ := settle(jobs)
			return n, err
		}
	}
	bw.End()
	return settle(jobs)
}

func pageOf[T any](items []*T, limit, offset int) []*T {
	if offset >= len(items) {
		return []*T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
