package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"smarthome_proxy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) (*CredentialFile, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	return NewCredentialFile(path), path
}

func TestCredentialFile_LoadFirstRun(t *testing.T) {
	store, _ := newFileStore(t)

	c, err := store.Load(context.Background(), "s1")

	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCredentialFile_SaveLoadRoundTrip(t *testing.T) {
	store, path := newFileStore(t)
	want := models.Credential{
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Region:       models.RegionEU,
	}

	require.NoError(t, store.Save(context.Background(), "s1", want))
	got, err := store.Load(context.Background(), "s1")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.Equal(t, want.Region, got.Region)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(credentialFileMode), info.Mode().Perm())

	var doc map[string]map[string]map[string]any
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "at", doc["sessions"]["s1"]["accessToken"])
}

func TestCredentialFile_SessionsAreIndependent(t *testing.T) {
	store, _ := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", models.Credential{AccessToken: "at-a"}))
	require.NoError(t, store.Save(ctx, "b", models.Credential{AccessToken: "at-b"}))
	require.NoError(t, store.Save(ctx, "a", models.Credential{AccessToken: "at-a2"}))

	a, err := store.Load(ctx, "a")
	require.NoError(t, err)
	b, err := store.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "at-a2", a.AccessToken)
	assert.Equal(t, "at-b", b.AccessToken)
}

func TestCredentialFile_CorruptFileIsAbsentButNotOverwritten(t *testing.T) {
	store, path := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a", models.Credential{AccessToken: "at-a"}))
	require.NoError(t, store.Save(ctx, "b", models.Credential{AccessToken: "at-b"}))

	good, err := os.ReadFile(path)
	require.NoError(t, err)
	corrupt := append(append([]byte{}, good...), []byte("\n}garbage")...)
	require.NoError(t, os.WriteFile(path, corrupt, credentialFileMode))

	c, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, c)

	err = store.Save(ctx, "c", models.Credential{AccessToken: "at-c"})
	assert.ErrorIs(t, err, ErrCorruptCredentialFile)
	assert.ErrorIs(t, store.Delete(ctx, "a"), ErrCorruptCredentialFile)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, corrupt, after)

	// repairing the file brings both sessions back
	require.NoError(t, os.WriteFile(path, good, credentialFileMode))
	for id, want := range map[string]string{"a": "at-a", "b": "at-b"} {
		c, err := store.Load(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, c, id)
		assert.Equal(t, want, c.AccessToken)
	}
}

func TestCredentialFile_ReadErrorFailsWrites(t *testing.T) {
	dir := t.TempDir()
	// a directory where the file should be makes every read fail
	store := NewCredentialFile(dir)

	assert.Error(t, store.Save(context.Background(), "s1", models.Credential{AccessToken: "at"}))
	assert.Error(t, store.Delete(context.Background(), "s1"))

	c, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, c)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCredentialFile_EmptyAccessTokenIsAbsent(t *testing.T) {
	store, _ := newFileStore(t)
	require.NoError(t, store.Save(context.Background(), "s1", models.Credential{Region: models.RegionAS}))

	c, err := store.Load(context.Background(), "s1")

	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCredentialFile_DeleteIsIdempotent(t *testing.T) {
	store, _ := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", models.Credential{AccessToken: "at"}))

	require.NoError(t, store.Delete(ctx, "s1"))
	require.NoError(t, store.Delete(ctx, "s1"))
	require.NoError(t, store.Delete(ctx, "never-saved"))

	c, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCredentialFile_ConcurrentSaves(t *testing.T) {
	store, path := newFileStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			assert.NoError(t, store.Save(ctx, id, models.Credential{AccessToken: "at-" + id}))
			_, err := store.Load(ctx, id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("s%d", i)
		c, err := store.Load(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, c, id)
		assert.Equal(t, "at-"+id, c.AccessToken)
	}

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
