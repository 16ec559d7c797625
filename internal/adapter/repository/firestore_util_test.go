package repository

import (
	stderrors "errors"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct{ err error }

func (j stubJob) Results() (*firestore.WriteResult, error) {
	if j.err != nil {
		return nil, j.err
	}
	return &firestore.WriteResult{}, nil
}

func TestSettleCountsOnlyCommittedWrites(t *testing.T) {
	denied := stderrors.New("permission denied")
	aborted := stderrors.New("aborted")

	n, err := settle([]writeJob{stubJob{}, stubJob{err: denied}, stubJob{}, stubJob{err: aborted}})
	require.ErrorIs(t, err, denied)
	assert.Equal(t, 2, n)

	n, err = settle([]writeJob{stubJob{}, stubJob{}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = settle(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
