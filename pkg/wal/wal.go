package wal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

const (
	// rw------- (只有擁有者可讀寫) - 適用於私鑰、機密檔
	FileModePrivate fs.FileMode = 0600
)

// WAL 以 JSON Lines 格式追加寫入的 Write-Ahead Log
//
// 每筆資料一行，以換行結尾；沒有換行的最後一行視為寫到一半中斷。
type WAL struct {
	file *os.File
	mu   sync.Mutex
	// sync 刷入硬碟，測試時可替換
	sync func() error
}

// NewWAL 開啟或建立一個 WAL 檔案
// O_RDWR讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func NewWAL(path string) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileModePrivate)
	if err != nil {
		return nil, err
	}
	return &WAL{file: file, sync: file.Sync}, nil
}

// Write 寫入一筆資料並刷入硬碟，回傳 nil 後即視為持久化
// 寫入或刷入失敗時截斷回寫入前的長度，重啟時不會重放這筆資料
func (w *WAL) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	offset, err := w.file.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if _, err := w.file.Write(data); err != nil {
		return w.rollback(offset, err)
	}
	if err := w.sync(); err != nil {
		return w.rollback(offset, err)
	}
	return nil
}

func (w *WAL) rollback(offset int64, cause error) error {
	if err := w.file.Truncate(offset); err != nil {
		return errors.Join(cause, fmt.Errorf("truncate wal: %w", err))
	}
	return cause
}

// Close 關閉檔案
func (w *WAL) Close() error {
	return w.file.Close()
}

// ReadAll 從頭依序讀取所有資料
// callback 每次收到一筆原始 JSON，避免一次將所有資料載入記憶體
// 最後一行沒有換行時直接截掉，之後的 Write 從完整的資料後面接著寫
func (w *WAL) ReadAll(callback func(jsonRaw []byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	reader := bufio.NewReader(w.file)
	var offset int64
	for {
		line, err := reader.ReadBytes('\n')
		if errors.Is(err, io.EOF) {
			if len(line) > 0 {
				return w.file.Truncate(offset)
			}
			return nil
		}
		if err != nil {
			return err
		}

		start := offset
		offset += int64(len(line))
		raw := bytes.TrimSpace(line)
		if len(raw) == 0 {
			continue
		}
		if !json.Valid(raw) {
			return fmt.Errorf("wal: invalid record at offset %d", start)
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
}
