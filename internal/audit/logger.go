// Package audit は監査ログ機能を提供する。
// 監査ログはJSON Linesで追記され、パスワードは決して記録しない。
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Operation は監査ログの操作種別を表す。
type Operation string

const (
	// OpRun は調整実行
	OpRun Operation = "run"
	// OpCreate はアカウント作成
	OpCreate Operation = "create"
	// OpRotate はパスワードローテーション
	OpRotate Operation = "rotate"
	// OpDelete はアカウント削除
	OpDelete Operation = "delete"
	// OpExpire は有効期限設定
	OpExpire Operation = "expire"
	// OpExport は資格情報エクスポート
	OpExport Operation = "export"
)

// Entry は監査ログエントリを表す。
type Entry struct {
	Time      string    `json:"time"`               // RFC3339形式のタイムスタンプ
	Level     string    `json:"level"`              // ログレベル（常に"INFO"）
	App       string    `json:"app"`                // アプリケーション名（常に"radius-rotate"）
	EventID   string    `json:"event_id"`           // イベントID（常に"AUDIT_LOG"）
	Msg       string    `json:"msg"`                // メッセージ
	Operation Operation `json:"operation"`          // 操作種別
	RunID     string    `json:"run_id,omitempty"`   // 調整実行ID（該当時のみ）
	Username  string    `json:"username,omitempty"` // 対象username（該当時のみ）
	Prefix    string    `json:"prefix,omitempty"`   // 対象prefix（該当時のみ）
	Count     int       `json:"count,omitempty"`    // 件数（該当時のみ）
	DryRun    bool      `json:"dry_run,omitempty"`  // dry-run実行だったか
	Details   string    `json:"details,omitempty"`  // 追加詳細情報
}

// Logger は監査ログを出力する。
type Logger struct {
	writer io.Writer
	closer io.Closer
	mu     sync.Mutex
}

// NewLogger は標準出力に書き出すLoggerを生成する。
func NewLogger() *Logger {
	return &Logger{writer: os.Stdout}
}

// NewLoggerWithWriter は指定されたWriterを使用するLoggerを生成する。
func NewLoggerWithWriter(writer io.Writer) *Logger {
	return &Logger{writer: writer}
}

// Open は指定パスのファイルに追記するLoggerを生成する。
func Open(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &Logger{writer: f, closer: f}, nil
}

// Close はファイル書き出しの場合にファイルを閉じる。
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Log は監査ログエントリを出力する。
func (l *Logger) Log(entry Entry) {
	entry.Time = time.Now().UTC().Format(time.RFC3339)
	entry.Level = "INFO"
	entry.App = "radius-rotate"
	entry.EventID = "AUDIT_LOG"

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(append(data, '\n'))
}

// LogRun は調整実行のサマリを出力する。
func (l *Logger) LogRun(runID string, dryRun bool, created, rotated, failed int) {
	l.Log(Entry{
		Msg:       "reconciliation finished",
		Operation: OpRun,
		RunID:     runID,
		DryRun:    dryRun,
		Details:   fmt.Sprintf("created=%d rotated=%d failures=%d", created, rotated, failed),
	})
}

// LogCreate はアカウント作成のログを出力する。
func (l *Logger) LogCreate(runID, prefix, username string, dryRun bool) {
	l.Log(Entry{
		Msg:       "account created",
		Operation: OpCreate,
		RunID:     runID,
		Username:  username,
		Prefix:    prefix,
		DryRun:    dryRun,
	})
}

// LogRotate はパスワードローテーションのログを出力する。
func (l *Logger) LogRotate(runID, prefix, username string, dryRun bool) {
	l.Log(Entry{
		Msg:       "password rotated",
		Operation: OpRotate,
		RunID:     runID,
		Username:  username,
		Prefix:    prefix,
		DryRun:    dryRun,
	})
}

// LogDelete はアカウント削除のログを出力する。
func (l *Logger) LogDelete(username string) {
	l.Log(Entry{
		Msg:       "account deleted",
		Operation: OpDelete,
		Username:  username,
	})
}

// LogExpire は有効期限設定のログを出力する。
func (l *Logger) LogExpire(username, expiration string) {
	l.Log(Entry{
		Msg:       "expiration set",
		Operation: OpExpire,
		Username:  username,
		Details:   expiration,
	})
}

// LogExport は資格情報エクスポートのログを出力する。
func (l *Logger) LogExport(runID, filename string, count int) {
	l.Log(Entry{
		Msg:       "credentials exported",
		Operation: OpExport,
		RunID:     runID,
		Count:     count,
		Details:   filename,
	})
}
