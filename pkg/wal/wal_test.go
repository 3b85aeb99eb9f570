package wal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Seq  int    `json:"seq"`
	Note string `json:"note"`
}

func readAll(t *testing.T, w *WAL) []record {
	t.Helper()
	var got []record
	require.NoError(t, w.ReadAll(func(raw []byte) error {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		got = append(got, r)
		return nil
	}))
	return got
}

func TestWAL_WriteAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")

	w, err := NewWAL(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(record{Seq: 1, Note: "a"}))
	require.NoError(t, w.Write(record{Seq: 2, Note: "b"}))
	require.NoError(t, w.Close())

	// 重新開啟後從頭讀回
	w, err = NewWAL(path)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, []record{{Seq: 1, Note: "a"}, {Seq: 2, Note: "b"}}, readAll(t, w))
}

func TestWAL_ReadAllEmpty(t *testing.T) {
	w, err := NewWAL(filepath.Join(t.TempDir(), "wal.log"))
	require.NoError(t, err)
	defer w.Close()

	calls := 0
	require.NoError(t, w.ReadAll(func([]byte) error {
		calls++
		return nil
	}))
	assert.Zero(t, calls)
}

func TestWAL_CallbackErrorStopsReading(t *testing.T) {
	w, err := NewWAL(filepath.Join(t.TempDir(), "wal.log"))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Write(record{Seq: 1}))
	require.NoError(t, w.Write(record{Seq: 2}))

	calls := 0
	err = w.ReadAll(func([]byte) error {
		calls++
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestWAL_SyncFailureRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	w, err := NewWAL(path)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Write(record{Seq: 1}))

	sync := w.sync
	w.sync = func() error { return assert.AnError }
	assert.ErrorIs(t, w.Write(record{Seq: 2}), assert.AnError)
	w.sync = sync

	require.NoError(t, w.Write(record{Seq: 3}))
	assert.Equal(t, []record{{Seq: 1}, {Seq: 3}}, readAll(t, w))
}

func TestWAL_TornTailIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	w, err := NewWAL(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(record{Seq: 1, Note: "a"}))
	require.NoError(t, w.Close())

	// 寫到一半斷電: 最後一行沒有換行
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, FileModePrivate)
	require.NoError(t, err)
	_, err = f.WriteString(`{"seq":2,"no`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	w, err = NewWAL(path)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, []record{{Seq: 1, Note: "a"}}, readAll(t, w))

	require.NoError(t, w.Write(record{Seq: 3}))
	assert.Equal(t, []record{{Seq: 1, Note: "a"}, {Seq: 3}}, readAll(t, w))
}

func TestWAL_CorruptedRecordFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	require.NoError(t, os.WriteFile(path, []byte("{\"seq\":1}\nnot json\n{\"seq\":2}\n"), FileModePrivate))

	w, err := NewWAL(path)
	require.NoError(t, err)
	defer w.Close()

	err = w.ReadAll(func([]byte) error { return nil })
	assert.ErrorContains(t, err, "invalid record")
}
