package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mcguer0/radius-rotate/internal/audit"
	"github.com/mcguer0/radius-rotate/internal/expiry"
	"github.com/mcguer0/radius-rotate/internal/model"
	"github.com/mcguer0/radius-rotate/internal/store"
)

// AccountListScreen はprefix配下のアカウント一覧画面を表す。
type AccountListScreen struct {
	table       *tview.Table
	app         *App
	store       *store.Store
	auditLogger *audit.Logger
	prefix      string
	position    model.Position
	accounts    []store.AccountInfo
	onBack      func()
}

// NewAccountListScreen は新しいAccountListScreenを生成する。
func NewAccountListScreen(app *App, s *store.Store, auditLogger *audit.Logger, prefix string, position model.Position) *AccountListScreen {
	table := tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)

	table.SetTitle(" Accounts: " + prefix + " ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true).
		SetBorderColor(tcell.ColorBlue)

	screen := &AccountListScreen{
		table:       table,
		app:         app,
		store:       s,
		auditLogger: auditLogger,
		prefix:      prefix,
		position:    position,
	}

	screen.setupKeyBindings()
	return screen
}

// SetOnBack は戻る時のコールバックを設定する。
func (s *AccountListScreen) SetOnBack(handler func()) {
	s.onBack = handler
}

// GetTable は内部のtview.Tableを返す。
func (s *AccountListScreen) GetTable() *tview.Table {
	return s.table
}

// Load はデータを読み込む。
func (s *AccountListScreen) Load(ctx context.Context) error {
	accounts, err := s.store.ListAccounts(ctx, s.prefix, s.position)
	if err != nil {
		return err
	}
	s.accounts = accounts
	s.render()
	return nil
}

// GetSelectedUsername は選択されているusernameを返す。
func (s *AccountListScreen) GetSelectedUsername() string {
	row, _ := s.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(s.accounts) {
		return ""
	}
	return s.accounts[idx].Username
}

func (s *AccountListScreen) render() {
	s.table.Clear()

	// ヘッダー
	headers := []string{"Username", "Expiration", "Status"}
	for col, header := range headers {
		s.table.SetCell(0, col, tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetAlign(tview.AlignLeft).
			SetSelectable(false).
			SetExpansion(1))
	}

	now := time.Now()
	expiredCount := 0

	// データ行
	for i, account := range s.accounts {
		row := i + 1

		expiration := account.Expiration
		status := "active"
		statusColor := tcell.ColorGreen
		if expiration == "" {
			expiration = "-"
			status = "no expiry"
			statusColor = tcell.ColorGray
		} else if expiry.Expired(expiration, now) {
			status = "expired"
			statusColor = tcell.ColorRed
			expiredCount++
		}

		s.table.SetCell(row, 0, tview.NewTableCell(account.Username).
			SetTextColor(tcell.ColorWhite).
			SetAlign(tview.AlignLeft).
			SetExpansion(1))
		s.table.SetCell(row, 1, tview.NewTableCell(expiration).
			SetTextColor(tcell.ColorWhite).
			SetAlign(tview.AlignLeft).
			SetExpansion(1))
		s.table.SetCell(row, 2, tview.NewTableCell(status).
			SetTextColor(statusColor).
			SetAlign(tview.AlignLeft).
			SetExpansion(1))
	}

	// タイトル更新
	title := fmt.Sprintf(" Accounts: %s (%d", s.prefix, len(s.accounts))
	if expiredCount > 0 {
		title += fmt.Sprintf(", [red]%d expired[-]", expiredCount)
	}
	title += ") "
	s.table.SetTitle(title)

	if len(s.accounts) > 0 {
		s.table.Select(1, 0)
	}
}

func (s *AccountListScreen) setupKeyBindings() {
	s.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			if s.onBack != nil {
				s.onBack()
			}
			return nil
		}

		switch event.Rune() {
		case 'd':
			if username := s.GetSelectedUsername(); username != "" {
				s.showDeleteDialog(username)
			}
			return nil
		case 'x':
			if username := s.GetSelectedUsername(); username != "" {
				s.showExpirationDialog(username)
			}
			return nil
		case 'p':
			s.showPurgeDialog()
			return nil
		case 'r':
			s.refresh()
			return nil
		case 'q':
			if s.onBack != nil {
				s.onBack()
			}
			return nil
		}

		return event
	})
}

func (s *AccountListScreen) refresh() {
	if err := s.Load(context.Background()); err != nil {
		s.app.GetStatusBar().ShowError("Failed to refresh: " + err.Error())
		return
	}
	s.app.GetStatusBar().ShowSuccess("Refreshed")
}

func (s *AccountListScreen) closeDialog(name string) {
	s.app.RemovePage(name)
	s.app.SetFocus(s.table)
}

func (s *AccountListScreen) showDeleteDialog(username string) {
	dialog := NewConfirmDialog(
		"Delete Account",
		fmt.Sprintf("Delete %q from all tables?\nThis cannot be undone.", username),
		func() {
			s.closeDialog("delete-dialog")
			if err := s.store.DeleteAccount(context.Background(), username); err != nil {
				s.app.GetStatusBar().ShowError("Failed to delete: " + err.Error())
				return
			}
			s.auditLogger.LogDelete(username)
			s.app.GetStatusBar().ShowSuccess("Deleted " + username)
			s.refresh()
		},
		func() {
			s.closeDialog("delete-dialog")
		},
	)
	s.app.AddPage("delete-dialog", dialog.GetModal(), true, true)
	s.app.SetFocus(dialog.GetModal())
}

func (s *AccountListScreen) showExpirationDialog(username string) {
	dialog := NewInputDialog(
		"Set Expiration",
		"Months from now:",
		"1",
		func(value string) {
			s.closeDialog("expire-dialog")
			months, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				s.app.GetStatusBar().ShowError("Invalid number: " + value)
				return
			}
			expiration, err := s.store.SetExpiration(context.Background(), username, months)
			if err != nil {
				s.app.GetStatusBar().ShowError("Failed to set expiration: " + err.Error())
				return
			}
			s.auditLogger.LogExpire(username, expiration)
			s.app.GetStatusBar().ShowSuccess("Expiration set to " + expiration)
			s.refresh()
		},
		func() {
			s.closeDialog("expire-dialog")
		},
	)
	s.app.AddPage("expire-dialog", centered(dialog.GetForm(), 50, 7), true, true)
	s.app.SetFocus(dialog.GetForm())
}

func (s *AccountListScreen) showPurgeDialog() {
	dialog := NewConfirmDialog(
		"Purge Expired",
		fmt.Sprintf("Delete all expired accounts under %q?", s.prefix),
		func() {
			s.closeDialog("purge-dialog")
			deleted, err := s.store.DeleteExpired(context.Background(), s.prefix, s.position)
			if err != nil {
				s.app.GetStatusBar().ShowError("Failed to purge: " + err.Error())
				return
			}
			for _, username := range deleted {
				s.auditLogger.LogDelete(username)
			}
			s.app.GetStatusBar().ShowSuccess(fmt.Sprintf("Purged %d expired accounts", len(deleted)))
			s.refresh()
		},
		func() {
			s.closeDialog("purge-dialog")
		},
	)
	s.app.AddPage("purge-dialog", dialog.GetModal(), true, true)
	s.app.SetFocus(dialog.GetModal())
}
