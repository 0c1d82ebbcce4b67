package gorm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormdb "gorm.io/gorm"

	"github.com/blankbase/blankbase/internal/domain/member"
	"github.com/blankbase/blankbase/internal/infrastructure/config"
	"github.com/blankbase/blankbase/pkg/errors"
	"github.com/blankbase/blankbase/pkg/paging"
)

func openTestDB(t *testing.T) *gormdb.DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{
		Driver:       "sqlite",
		Database:     ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		AutoMigrate:  true,
	}, zap.NewNop())
	require.NoError(t, err)
	return db
}

func mustNewMember(t *testing.T, name, email string, age int) *member.Member {
	t.Helper()
	m, err := member.NewMember(name, email, age)
	require.NoError(t, err)
	return m
}

func TestMemberRepositorySaveAndFind(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t), zap.NewNop())
	ctx := context.Background()

	m := mustNewMember(t, "Alice Chen", "alice@example.com", 34)
	require.NoError(t, repo.Save(ctx, m))

	found, err := repo.FindByID(ctx, m.ID())
	require.NoError(t, err)
	assert.Equal(t, m.ID(), found.ID())
	assert.Equal(t, "Alice Chen", found.Name())
	assert.True(t, found.IsActive(), "new members start active")
}

func TestMemberRepositoryFindMissing(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t), zap.NewNop())

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.IsCode(err, errors.CodeMemberNotFound))
}

func TestMemberRepositoryListSortsAndPages(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t), zap.NewNop())
	ctx := context.Background()

	for _, row := range []struct {
		name  string
		email string
		age   int
	}{
		{"Carol", "carol@example.com", 50},
		{"Alice", "alice@example.com", 30},
		{"Bob", "bob@example.com", 40},
	} {
		require.NoError(t, repo.Save(ctx, mustNewMember(t, row.name, row.email, row.age)))
	}

	members, total, err := repo.List(ctx, member.ListQuery{
		Page: 1, PageSize: 2, SortBy: "name", SortDirection: paging.Ascending,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, members, 2)
	assert.Equal(t, "Alice", members[0].Name())
	assert.Equal(t, "Bob", members[1].Name())

	members, _, err = repo.List(ctx, member.ListQuery{
		Page: 2, PageSize: 2, SortBy: "name", SortDirection: paging.Ascending,
	})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Carol", members[0].Name())

	members, _, err = repo.List(ctx, member.ListQuery{
		Page: 1, PageSize: 3, SortBy: "age", SortDirection: paging.Descending,
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol", members[0].Name())
}

func TestMemberRepositoryListRejectsUnknownSort(t *testing.T) {
	repo := NewMemberRepository(openTestDB(t), zap.NewNop())

	_, _, err := repo.List(context.Background(), member.ListQuery{
		Page: 1, PageSize: 10, SortBy: "password; DROP TABLE members",
	})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidSortColumn))
}

func TestMemberSortColumnMapping(t *testing.T) {
	col, ok := MemberSortColumn("isActive")
	require.True(t, ok)
	assert.Equal(t, "is_active", col)

	col, ok = MemberSortColumn("CREATEDAT")
	require.True(t, ok)
	assert.Equal(t, "created_at", col)

	_, ok = MemberSortColumn("secret")
	assert.False(t, ok)
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	uow := NewUnitOfWork(db, zap.NewNop())
	ctx := context.Background()

	failure := errors.New(errors.CodeValidationFailed, "second write rejected")
	err := uow.Do(ctx, func(repos *Repositories) error {
		if err := repos.Members.Save(ctx, mustNewMember(t, "Alice", "alice@example.com", 30)); err != nil {
			return err
		}
		return failure
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationFailed), "app errors pass through unwrapped")

	total, err := NewMemberRepository(db, zap.NewNop()).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total, "the insert rolled back")
}

func TestUnitOfWorkCommits(t *testing.T) {
	db := openTestDB(t)
	uow := NewUnitOfWork(db, zap.NewNop())
	ctx := context.Background()

	err := uow.Do(ctx, func(repos *Repositories) error {
		return repos.Members.Save(ctx, mustNewMember(t, "Bob", "bob@example.com", 41))
	})
	require.NoError(t, err)

	total, err := NewMemberRepository(db, zap.NewNop()).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestSeedFillsEmptyTableOnce(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db, 25, zap.NewNop()))

	repo := NewMemberRepository(db, zap.NewNop())
	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)

	// A second run leaves the table untouched.
	require.NoError(t, Seed(ctx, db, 25, zap.NewNop()))
	total, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
}
