// Command ordertracker は注文管理サーバーを起動する。
//
//	ordertracker [serve]      APIサーバーを起動する（既定）
//	ordertracker migrate      データベースマイグレーションを適用する
//	ordertracker healthcheck  /health を確認する（コンテナのヘルスチェック用）
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/SorynSolutions/soryn-order-tracker/internal/app"
)

func main() {
	// .envは任意。存在しない場合は環境変数のみを使う。
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
