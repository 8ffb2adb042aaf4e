package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mcguer0/radius-rotate/internal/audit"
	"github.com/mcguer0/radius-rotate/internal/model"
	"github.com/mcguer0/radius-rotate/internal/store"
)

// Manager は管理TUI全体を組み立てて実行する。
type Manager struct {
	app         *App
	store       *store.Store
	auditLogger *audit.Logger
	prefixes    []string
	position    model.Position
}

// NewManager は新しいManagerを生成する。
func NewManager(s *store.Store, auditLogger *audit.Logger, prefixes []string, position model.Position) *Manager {
	return &Manager{
		app:         NewApp(),
		store:       s,
		auditLogger: auditLogger,
		prefixes:    prefixes,
		position:    position,
	}
}

// Run は管理TUIを起動する。
func (m *Manager) Run() error {
	m.app.AddPage("menu", m.buildMenu(), true, true)

	// Ctrl+Qでどこからでも終了
	m.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlQ {
			m.app.Stop()
			return nil
		}
		return event
	})

	return m.app.Run()
}

// buildMenu はprefix選択メニューを組み立てる。
func (m *Manager) buildMenu() tview.Primitive {
	list := tview.NewList().
		ShowSecondaryText(true)

	for _, prefix := range m.prefixes {
		label := prefix
		if label == "" {
			label = "(no prefix)"
		}
		p := prefix
		list.AddItem(label, "Manage accounts for this prefix", 0, func() {
			m.openAccounts(p)
		})
	}
	list.AddItem("Exit", "Exit the application", 'q', func() {
		m.app.Stop()
	})

	list.SetTitle(" radius-rotate - Account Management ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true).
		SetBorderColor(tcell.ColorBlue)

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || event.Rune() == 'q' {
			m.app.Stop()
			return nil
		}
		return event
	})

	return list
}

// openAccounts は指定prefixのアカウント一覧画面を開く。
func (m *Manager) openAccounts(prefix string) {
	screen := NewAccountListScreen(m.app, m.store, m.auditLogger, prefix, m.position)
	screen.SetOnBack(func() {
		m.app.RemovePage("accounts")
		m.app.SwitchToPage("menu")
	})

	if err := screen.Load(context.Background()); err != nil {
		m.app.GetStatusBar().ShowError("Failed to load accounts: " + err.Error())
		return
	}

	m.app.AddPage("accounts", screen.GetTable(), true, true)
	m.app.SwitchToPage("accounts")
	m.app.SetFocus(screen.GetTable())
}
