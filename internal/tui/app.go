// Package tui はアカウント管理TUIを提供する。
package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// App はTUIアプリケーションを管理する。
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	statusBar *StatusBar
	layout    *tview.Flex
}

// NewApp は新しいAppを生成する。
func NewApp() *App {
	app := tview.NewApplication()
	pages := tview.NewPages()
	statusBar := NewStatusBar()
	statusBar.SetApp(app)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(pages, 0, 1, true).
		AddItem(statusBar.view, 1, 0, false)

	return &App{
		app:       app,
		pages:     pages,
		statusBar: statusBar,
		layout:    layout,
	}
}

// Run はアプリケーションを実行する。
func (a *App) Run() error {
	return a.app.SetRoot(a.layout, true).EnableMouse(false).Run()
}

// Stop はアプリケーションを停止する。
func (a *App) Stop() {
	a.app.Stop()
}

// GetStatusBar はステータスバーを返す。
func (a *App) GetStatusBar() *StatusBar {
	return a.statusBar
}

// AddPage はページを追加する。
func (a *App) AddPage(name string, page tview.Primitive, resize, visible bool) {
	a.pages.AddPage(name, page, resize, visible)
}

// SwitchToPage は指定されたページに切り替える。
func (a *App) SwitchToPage(name string) {
	a.pages.SwitchToPage(name)
}

// RemovePage はページを削除する。
func (a *App) RemovePage(name string) {
	a.pages.RemovePage(name)
}

// SetFocus はフォーカスを設定する。
func (a *App) SetFocus(p tview.Primitive) {
	a.app.SetFocus(p)
}

// QueueUpdateDraw はUIの更新をキューに追加する。
func (a *App) QueueUpdateDraw(f func()) {
	a.app.QueueUpdateDraw(f)
}

// SetInputCapture はグローバルなキー入力ハンドラを設定する。
func (a *App) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	a.app.SetInputCapture(capture)
}

// centered はコンポーネントを中央に配置する。
func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
