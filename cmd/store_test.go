package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtsynthetic/postman-dynatrace-converter/store"
)

func TestListNotes(t *testing.T) {
	ctx := context.Background()
	storeClient, err := store.NewStoreClient(filepath.Join(t.TempDir(), "notes.db"), newTestLogger())
	require.NoError(t, err)
	defer storeClient.Close()

	var output bytes.Buffer
	require.NoError(t, listNotes(ctx, storeClient, &output))
	assert.Equal(t, "Stored Items:\nNo data stored.\n", output.String())

	require.NoError(t, storeClient.Set(ctx, "token", "abc"))
	require.NoError(t, storeClient.Set(ctx, "baseUrl", "https://api.example.com"))

	output.Reset()
	require.NoError(t, listNotes(ctx, storeClient, &output))
	assert.Equal(t, "Stored Items:\nbaseUrl: https://api.example.com\ntoken: abc\n", output.String())
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		" yes ":   true,
		"n\n":     false,
		"\n":      false,
		"":        false,
		"maybe\n": false,
	}

	for input, want := range tests {
		var output bytes.Buffer
		assert.Equal(t, want, confirm(strings.NewReader(input), &output, "Clear?"), input)
		assert.Equal(t, "Clear? [y/N]: ", output.String())
	}
}

func TestWithStore_ClosesStoreWhenActionFails(t *testing.T) {
	ctx := context.Background()
	storePath := filepath.Join(t.TempDir(), "nested", "notes.db")

	var opened store.IStoreClient
	err := withStore(storePath, func(storeClient store.IStoreClient) error {
		opened = storeClient
		require.NoError(t, storeClient.Set(ctx, "token", "abc"))
		return errKeyNotFound
	})

	assert.ErrorIs(t, err, errKeyNotFound)
	_, _, err = opened.Get(ctx, "token")
	assert.Error(t, err)

	err = withStore(storePath, func(storeClient store.IStoreClient) error {
		value, found, err := storeClient.Get(ctx, "token")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "abc", value)
		return nil
	})
	assert.NoError(t, err)
}

func TestWithStore_UnusablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	called := false
	err := withStore(filepath.Join(blocker, "notes.db"), func(storeClient store.IStoreClient) error {
		called = true
		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
}
