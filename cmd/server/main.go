package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/chiaweilo/go-bank-ledger/internal/app/core/adapter/in/http"
	memory_adapter "github.com/chiaweilo/go-bank-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/chiaweilo/go-bank-ledger/internal/app/core/adapter/out/mysql"
	"github.com/chiaweilo/go-bank-ledger/internal/app/core/usecase"
	"github.com/chiaweilo/go-bank-ledger/internal/config"
	"github.com/chiaweilo/go-bank-ledger/pkg/auth"
	"github.com/chiaweilo/go-bank-ledger/pkg/mysql"
	"github.com/chiaweilo/go-bank-ledger/pkg/wal"
)

func main() {
	// 1. 載入設定
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. 依設定選擇儲存後端
	var (
		ledger    usecase.Ledger
		store     usecase.Store
		reporting usecase.Reporting
	)
	switch cfg.Storage {
	case config.StorageMySQL:
		dbClient, err := mysql.NewClient(cfg.MySQL)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		defer dbClient.Close()
		log.Println("Connected to MySQL successfully")

		sqlStore := mysql_adapter.NewMySQLStore(dbClient)
		if err := sqlStore.AutoMigrate(); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}
		ledger = mysql_adapter.NewMySQLLedger(dbClient)
		store = sqlStore
		reporting = mysql_adapter.NewMySQLReporting(dbClient)

	case config.StorageMemory:
		journal, err := wal.Open(cfg.WALPath)
		if err != nil {
			log.Fatalf("Failed to open WAL: %v", err)
		}
		defer journal.Close()

		memStore, err := memory_adapter.NewMemoryStore(journal)
		if err != nil {
			log.Fatalf("Failed to init memory store: %v", err)
		}
		ledger = memStore
		store = memStore
		reporting = memStore
	}

	// 3. 初始化 UseCase
	posting := usecase.NewPostingUseCase(ledger)
	reports := usecase.NewReportingUseCase(reporting)
	accounts := usecase.NewAccountUseCase(store)
	customers := usecase.NewCustomerUseCase(store)
	beneficiaries := usecase.NewBeneficiaryUseCase(store)

	// 4. 初始化 HTTP Adapter (Driving Adapter)
	authMgr := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	server := api.NewAPIServer(cfg.Server.Addr, authMgr, posting, reports, accounts, customers, beneficiaries)

	// 5. 啟動 HTTP Server
	// 錯誤送回主 goroutine，走正常返回讓 defer 關閉資源
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s (storage: %s)", cfg.Server.Addr, cfg.Storage)
		serverErr <- server.Run()
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Server stopped: %v", err)
		return
	case <-quit:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server exited")
}
