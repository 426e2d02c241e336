package repository

import (
	"context"
	"fmt"
	"testing"

	"pixelforge/internal/config"
	"pixelforge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := NewBadgerStore(&config.DatabaseConfig{Directory: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func createUser(t *testing.T, store *BadgerStore, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func createImage(t *testing.T, store *BadgerStore, userID int64) *models.Image {
	t.Helper()

	img := &models.Image{
		UserID:      userID,
		Filename:    "test.jpg",
		OriginalKey: "users/1/original/test.jpg",
		ContentType: "image/jpeg",
		Size:        1024,
		Width:       100,
		Height:      100,
	}
	require.NoError(t, store.CreateImage(context.Background(), img))
	return img
}

func TestBadgerStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create_and_get", func(t *testing.T) {
		user := createUser(t, store, "alice", "alice@example.com")
		assert.Positive(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())

		got, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("lookup_by_username_and_email", func(t *testing.T) {
		user := createUser(t, store, "bob", "bob@example.com")

		byName, err := store.GetUserByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)

		byEmail, err := store.GetUserByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("username_lookup_is_case_insensitive", func(t *testing.T) {
		user := createUser(t, store, "Carol", "carol@example.com")

		got, err := store.GetUserByUsername(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("duplicate_username_conflicts", func(t *testing.T) {
		createUser(t, store, "dave", "dave@example.com")

		err := store.CreateUser(ctx, &models.User{Username: "dave", Email: "other@example.com"})
		var conflict models.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "username", conflict.Field)
	})

	t.Run("duplicate_email_conflicts", func(t *testing.T) {
		createUser(t, store, "erin", "erin@example.com")

		err := store.CreateUser(ctx, &models.User{Username: "erin2", Email: "erin@example.com"})
		var conflict models.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "email", conflict.Field)
	})

	t.Run("unknown_user_not_found", func(t *testing.T) {
		_, err := store.GetUser(ctx, 999999)
		assert.ErrorAs(t, err, &models.NotFoundError{})

		_, err = store.GetUserByUsername(ctx, "nobody")
		assert.ErrorAs(t, err, &models.NotFoundError{})
	})
}

func TestBadgerStore_Images(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "alice", "alice@example.com")

	t.Run("create_and_get", func(t *testing.T) {
		img := createImage(t, store, user.ID)
		assert.Positive(t, img.ID)

		got, err := store.GetImage(ctx, img.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.UserID)
		assert.Equal(t, "test.jpg", got.Filename)
	})

	t.Run("delete_removes_record", func(t *testing.T) {
		img := createImage(t, store, user.ID)

		require.NoError(t, store.DeleteImage(ctx, img.ID))
		_, err := store.GetImage(ctx, img.ID)
		assert.ErrorAs(t, err, &models.NotFoundError{})

		assert.ErrorAs(t, store.DeleteImage(ctx, img.ID), &models.NotFoundError{})
	})
}

func TestBadgerStore_ListImages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, store, "owner", "owner@example.com")
	other := createUser(t, store, "other", "other@example.com")

	var created []*models.Image
	for i := 0; i < 5; i++ {
		created = append(created, createImage(t, store, owner.ID))
	}
	createImage(t, store, other.ID)

	t.Run("newest_first_and_scoped_to_owner", func(t *testing.T) {
		images, total, err := store.ListImages(ctx, owner.ID, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, images, 5)
		assert.Equal(t, created[4].ID, images[0].ID)
		assert.Equal(t, created[0].ID, images[4].ID)
	})

	t.Run("paging", func(t *testing.T) {
		images, total, err := store.ListImages(ctx, owner.ID, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, images, 2)
		assert.Equal(t, created[2].ID, images[0].ID)
		assert.Equal(t, created[1].ID, images[1].ID)
	})

	t.Run("offset_past_end", func(t *testing.T) {
		images, total, err := store.ListImages(ctx, owner.ID, 10, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Empty(t, images)
	})

	t.Run("no_images", func(t *testing.T) {
		empty := createUser(t, store, "empty", "empty@example.com")
		images, total, err := store.ListImages(ctx, empty.ID, 0, 0)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, images)
	})
}

func TestBadgerStore_Transformations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "alice", "alice@example.com")
	img := createImage(t, store, user.ID)

	params := `[{"params":{"width":800},"type":"resize"}]`

	createTransformation := func(t *testing.T, imageID int64, params string) *models.Transformation {
		t.Helper()
		tr := &models.Transformation{
			ImageID:    imageID,
			Type:       models.TransformationTypeComposite,
			Parameters: params,
			CachedKey:  "users/1/transformed/x.jpg",
			CachedURL:  "http://example.com/x.jpg",
		}
		require.NoError(t, store.CreateTransformation(ctx, tr))
		return tr
	}

	t.Run("create_and_get", func(t *testing.T) {
		tr := createTransformation(t, img.ID, params)
		assert.Positive(t, tr.ID)

		got, err := store.GetTransformation(ctx, tr.ID)
		require.NoError(t, err)
		assert.Equal(t, params, got.Parameters)
	})

	t.Run("find_by_params", func(t *testing.T) {
		local := createImage(t, store, user.ID)
		tr := createTransformation(t, local.ID, params)

		got, err := store.FindTransformationByParams(ctx, local.ID, params)
		require.NoError(t, err)
		assert.Equal(t, tr.ID, got.ID)

		_, err = store.FindTransformationByParams(ctx, local.ID, `[{"type":"crop"}]`)
		assert.ErrorAs(t, err, &models.NotFoundError{})
	})

	t.Run("find_is_scoped_to_image", func(t *testing.T) {
		a := createImage(t, store, user.ID)
		b := createImage(t, store, user.ID)
		createTransformation(t, a.ID, params)

		_, err := store.FindTransformationByParams(ctx, b.ID, params)
		assert.ErrorAs(t, err, &models.NotFoundError{})
	})

	t.Run("duplicate_params_index_points_at_last_writer", func(t *testing.T) {
		local := createImage(t, store, user.ID)
		first := createTransformation(t, local.ID, params)
		second := createTransformation(t, local.ID, params)

		got, err := store.FindTransformationByParams(ctx, local.ID, params)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)

		// Both records stay readable.
		_, err = store.GetTransformation(ctx, first.ID)
		assert.NoError(t, err)
	})

	t.Run("list_by_image_newest_first", func(t *testing.T) {
		local := createImage(t, store, user.ID)
		var ids []int64
		for i := 0; i < 3; i++ {
			tr := createTransformation(t, local.ID, fmt.Sprintf(`[{"params":{"width":%d},"type":"resize"}]`, 100+i))
			ids = append(ids, tr.ID)
		}

		got, err := store.ListTransformationsByImage(ctx, local.ID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, ids[2], got[0].ID)
		assert.Equal(t, ids[0], got[2].ID)
	})

	t.Run("delete_removes_record_and_index", func(t *testing.T) {
		local := createImage(t, store, user.ID)
		tr := createTransformation(t, local.ID, params)

		require.NoError(t, store.DeleteTransformation(ctx, tr.ID))

		_, err := store.GetTransformation(ctx, tr.ID)
		assert.ErrorAs(t, err, &models.NotFoundError{})
		_, err = store.FindTransformationByParams(ctx, local.ID, params)
		assert.ErrorAs(t, err, &models.NotFoundError{})

		got, err := store.ListTransformationsByImage(ctx, local.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("delete_keeps_index_of_newer_duplicate", func(t *testing.T) {
		local := createImage(t, store, user.ID)
		first := createTransformation(t, local.ID, params)
		second := createTransformation(t, local.ID, params)

		require.NoError(t, store.DeleteTransformation(ctx, first.ID))

		got, err := store.FindTransformationByParams(ctx, local.ID, params)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)
	})
}

func TestBadgerStore_Health(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Health(context.Background()))
}

func TestBadgerStore_IDsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewBadgerStore(&config.DatabaseConfig{Directory: dir})
	require.NoError(t, err)
	user := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, store.CreateUser(ctx, user))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(&config.DatabaseConfig{Directory: dir})
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	second := &models.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, reopened.CreateUser(ctx, second))
	assert.Greater(t, second.ID, user.ID)

	got, err := reopened.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}
