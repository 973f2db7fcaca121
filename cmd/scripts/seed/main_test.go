package main

import (
	"context"
	"testing"

	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/libraryhub/libraryhub/pkg/testutils/testdb"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCount(t *testing.T) {
	assert.NoError(t, checkCount(0))
	assert.NoError(t, checkCount(5))

	err := checkCount(-1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--count must not be negative")
}

func TestValidateSamples(t *testing.T) {
	v := validation.New(validation.Options{})
	assert.NoError(t, validateSamples(v, 12))
}

func TestSeed(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	v := validation.New(validation.Options{})

	require.NoError(t, seed(ctx, db, v, 3))

	count := func(model interface{}) int {
		n, err := db.NewSelect().Model(model).Count(ctx)
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, len(sampleAuthors), count((*models.Author)(nil)))
	assert.Equal(t, len(sampleBooks), count((*models.Book)(nil)))
	assert.Equal(t, len(sampleBooks), count((*models.BookAuthor)(nil)))
	assert.Equal(t, len(sampleBooks), count((*models.Bibliography)(nil)))
	assert.Equal(t, 3, count((*models.Reader)(nil)))
	assert.Equal(t, 3, count((*models.Issuance)(nil)))

	var reader models.Reader
	require.NoError(t, db.NewSelect().Model(&reader).Order("r.id ASC").Limit(1).Scan(ctx))
	assert.Equal(t, "+16502530000", reader.PhoneNumber)
}
