package gormstore_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagenet-browser/application/ports"
	"imagenet-browser/domain/core/entities"
	"imagenet-browser/domain/core/valueobjects"
	"imagenet-browser/infrastructure/persistence/gormstore"
	pkgerrors "imagenet-browser/pkg/errors"
)

func openTestRepos(t *testing.T) ports.Repositories {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gormstore.Open("sqlite", dsn)
	require.NoError(t, err)
	return gormstore.NewUnitOfWork(db).Repositories()
}

func wnid(t *testing.T, id string) valueobjects.WNID {
	t.Helper()
	w, err := valueobjects.NewWNID(id)
	require.NoError(t, err)
	return w
}

func seedSynset(t *testing.T, repos ports.Repositories, id string, words []string, gloss, parent string) *entities.Synset {
	t.Helper()
	synset, err := entities.NewSynset(wnid(t, id), words, gloss)
	require.NoError(t, err)
	if parent != "" {
		require.NoError(t, synset.SetParent(wnid(t, parent)))
	}
	require.NoError(t, repos.Synsets.Save(context.Background(), synset))
	return synset
}

func TestSynsetRepositorySaveAndGet(t *testing.T) {
	repos := openTestRepos(t)
	ctx := context.Background()

	seedSynset(t, repos, "n00000001", []string{"entity", "thing"}, "that which exists", "")

	got, err := repos.Synsets.GetByID(ctx, wnid(t, "n00000001"))
	require.NoError(t, err)
	assert.Equal(t, "n00000001", got.ID().String())
	// Label order survives the round trip.
	assert.Equal(t, []string{"entity", "thing"}, got.Words())
	assert.Equal(t, "that which exists", got.Gloss())
	assert.True(t, got.IsRoot())

	_, err = repos.Synsets.GetByID(ctx, wnid(t, "n09999999"))
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestSynsetRepositoryUpdate(t *testing.T) {
	repos := openTestRepos(t)
	ctx := context.Background()

	synset := seedSynset(t, repos, "n00000001", []string{"entity"}, "old gloss", "")

	require.NoError(t, synset.UpdateWords([]string{"being", "entity"}))
	synset.UpdateGloss("new gloss")
	require.NoError(t, repos.Synsets.Update(ctx, synset))

	got, err := repos.Synsets.GetByID(ctx, wnid(t, "n00000001"))
	require.NoError(t, err)
	assert.Equal(t, []string{"being", "entity"}, got.Words())
	assert.Equal(t, "new gloss", got.Gloss())
}

func TestSynsetRepositoryChildren(t *testing.T) {
	repos := openTestRepos(t)
	ctx := context.Background()

	seedSynset(t, repos, "n00000001", []string{"root"}, "", "")
	seedSynset(t, repos, "n00000003", []string{"second child"}, "", "n00000001")
	seedSynset(t, repos, "n00000002", []string{"first child"}, "", "n00000001")

	children, total, err := repos.Synsets.Children(ctx, wnid(t, "n00000001"), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, children, 2)
	assert.Equal(t, "n00000002", children[0].ID().String())
	assert.Equal(t, "n00000003", children[1].ID().String())

	count, err := repos.Synsets.CountChildren(ctx, wnid(t, "n00000001"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = repos.Synsets.CountChildren(ctx, wnid(t, "n00000002"))
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestSynsetRepositoryListByKeyword(t *testing.T) {
	repos := openTestRepos(t)
	ctx := context.Background()

	seedSynset(t, repos, "n00000010", []string{"wildcat"}, "", "")
	seedSynset(t, repos, "n00000011", []string{"domestic cat", "house cat"}, "", "")
	seedSynset(t, repos, "n00000012", []string{"catamaran"}, "", "")
	seedSynset(t, repos, "n00000013", []string{"dog"}, "", "")

	results, total, err := repos.Synsets.List(ctx, ports.SynsetFilter{
		Keyword: "CAT",
		Limit:   10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, results, 3)

	// Ordered by the lexically least matching label per synset:
	// "catamaran" < "domestic cat" < "wildcat".
	assert.Equal(t, "n00000012", results[0].ID().String())
	assert.Equal(t, "n00000011", results[1].ID().String())
	assert.Equal(t, "n00000010", results[2].ID().String())
}

func TestSynsetRepositoryListByScope(t *testing.T) {
	repos := openTestRepos(t)
	ctx := context.Background()

	// n1 -> n2 -> n3; n4 is an unrelated root.
	seedSynset(t, repos, "n00000001", []string{"a"}, "", "")
	seedSynset(t, repos, "n00000002", []string{"b"}, "", "n00000001")
	seedSynset(t, repos, "n00000003", []string{"c"}, "", "n00000002")
	seedSynset(t, repos, "n00000004", []string{"d"}, "", "")

	scope := wnid(t, "n00000001")

	t.Run("unlimited depth", func(t *testing.T) {
		results, total, err := repos.Synsets.List(ctx, ports.SynsetFilter{
			Scope: &scope,
			Limit: 10,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, results, 2)
		assert.Equal(t, "n00000002", results[0].ID().String())
		assert.Equal(t, "n00000003", results[1].ID().String())
	})

	t.Run("depth one stops at direct children", func(t *testing.T) {
		results, total, err := repos.Synsets.List(ctx, ports.SynsetFilter{
			Scope: &scope,
			Depth: 1,
			Limit: 10,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, results, 1)
		assert.Equal(t, "n00000002", results[0].ID().String())
	})
}

func TestSynsetRepositoryListPaging(t *testing.T) {
	repos := openTestRepos(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		seedSynset(t, repos, fmt.Sprintf("n0000000%d", i), []string{fmt.Sprintf("word %d", i)}, "", "")
	}

	results, total, err := repos.Synsets.List(ctx, ports.SynsetFilter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, results, 2)
	assert.Equal(t, "n00000003", results[0].ID().String())
	assert.Equal(t, "n00000004", results[1].ID().String())
}

func TestSynsetRepositoryDeleteCascadesToImages(t *testing.T) {
	repos := openTestRepos(t)
	ctx := context.Background()

	seedSynset(t, repos, "n00000001", []string{"fish"}, "", "")
	image, err := entities.NewImage(wnid(t, "n00000001"), "http://example.com/fish.jpg", "")
	require.NoError(t, err)
	_, err = repos.Images.Save(ctx, image)
	require.NoError(t, err)

	require.NoError(t, repos.Synsets.Delete(ctx, wnid(t, "n00000001")))

	exists, err := repos.Synsets.Exists(ctx, wnid(t, "n00000001"))
	require.NoError(t, err)
	assert.False(t, exists)

	_, total, err := repos.Images.ListAll(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
