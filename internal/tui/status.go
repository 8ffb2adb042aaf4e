package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// StatusType はステータスメッセージの種類を表す。
type StatusType int

const (
	// StatusInfo は情報メッセージ
	StatusInfo StatusType = iota
	// StatusSuccess は成功メッセージ
	StatusSuccess
	// StatusError はエラーメッセージ
	StatusError
)

// StatusBar はステータスバーを管理する。
type StatusBar struct {
	view        *tview.TextView
	app         *tview.Application
	clearTimer  *time.Timer
	defaultText string
}

// NewStatusBar は新しいStatusBarを生成する。
func NewStatusBar() *StatusBar {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	view.SetBackgroundColor(tcell.ColorDarkBlue)
	view.SetTextColor(tcell.ColorWhite)

	return &StatusBar{
		view:        view,
		defaultText: " d:Delete | x:Set Expiration | p:Purge Expired | r:Refresh | q:Back/Quit",
	}
}

// SetApp はtview.Applicationへの参照を設定する。
func (s *StatusBar) SetApp(app *tview.Application) {
	s.app = app
	s.ShowDefault()
}

// ShowDefault はデフォルトのステータスメッセージを表示する。
func (s *StatusBar) ShowDefault() {
	s.view.SetText(s.defaultText)
}

// Show は5秒後にデフォルトに戻るステータスメッセージを表示する。
func (s *StatusBar) Show(statusType StatusType, message string) {
	// 既存のタイマーをキャンセル
	if s.clearTimer != nil {
		s.clearTimer.Stop()
	}

	var coloredMessage string
	switch statusType {
	case StatusSuccess:
		coloredMessage = "[green::b] ✓ " + message + " [-::-]"
	case StatusError:
		coloredMessage = "[red::b] ✗ " + message + " [-::-]"
	default:
		coloredMessage = "[cyan] ℹ " + message + " [-]"
	}

	s.view.SetText(coloredMessage)

	s.clearTimer = time.AfterFunc(5*time.Second, func() {
		if s.app != nil {
			s.app.QueueUpdateDraw(func() {
				s.ShowDefault()
			})
		}
	})
}

// ShowInfo は情報メッセージを表示する。
func (s *StatusBar) ShowInfo(message string) {
	s.Show(StatusInfo, message)
}

// ShowSuccess は成功メッセージを表示する。
func (s *StatusBar) ShowSuccess(message string) {
	s.Show(StatusSuccess, message)
}

// ShowError はエラーメッセージを表示する。
func (s *StatusBar) ShowError(message string) {
	s.Show(StatusError, message)
}
