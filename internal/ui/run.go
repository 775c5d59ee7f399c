package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sehyun-dev/maum-tui/internal/api"
	"github.com/sehyun-dev/maum-tui/internal/util"
)

// Run boots the TUI program and blocks until it exits.
func Run(ctx context.Context, client *api.Client, cfg util.Config, log *zap.Logger) error {
	m := initialModel(ctx, client, cfg, log)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
