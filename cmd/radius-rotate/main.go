// Package main はradius-rotate CLIのエントリーポイント。
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mcguer0/radius-rotate/cmd/radius-rotate/commands"
)

func main() {
	// .envがあれば読み込む（なければ無視）
	_ = godotenv.Load()

	// ロガー初期化（JSON形式、INFO以上）
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("app", "radius-rotate")
	slog.SetDefault(logger)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
