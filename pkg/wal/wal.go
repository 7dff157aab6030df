package wal

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
)

// rw-r--r-- 日誌檔不需要執行權限
const fileModeLog fs.FileMode = 0644

// WAL 是 append-only 的 JSON 日誌
// 記憶體儲存後端把每個已提交的變動寫進來，重啟時重放以重建狀態
type WAL struct {
	file *os.File
	mu   sync.Mutex
}

// Open 開啟或建立日誌檔
// O_APPEND 確保每次寫入都落在檔尾
func Open(path string) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, fileModeLog)
	if err != nil {
		return nil, err
	}
	return &WAL{file: file}, nil
}

// Append 寫入一筆記錄並刷入硬碟
// 回傳 nil 之後這筆記錄保證重放得到
func (w *WAL) Append(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := json.NewEncoder(w.file).Encode(v); err != nil {
		return err
	}
	return w.file.Sync()
}

// Replay 從頭讀出所有記錄，逐筆交給 callback
// 以 callback 逐筆處理，避免一次把整個日誌載入記憶體
func (w *WAL) Replay(callback func(raw json.RawMessage) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(w.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
	return nil
}

// Close 關閉日誌檔
func (w *WAL) Close() error {
	return w.file.Close()
}
