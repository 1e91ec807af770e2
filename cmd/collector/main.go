package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"go-xhs-note-automation/internal/browser"
	"go-xhs-note-automation/internal/collector"
	"go-xhs-note-automation/internal/config"
	"go-xhs-note-automation/internal/driver/xhs"
	"go-xhs-note-automation/internal/export"
	"go-xhs-note-automation/internal/oracle"
	"go-xhs-note-automation/internal/reporter"
	"go-xhs-note-automation/internal/state"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Target: %q, max pages: %d", cfg.PromotionTarget, cfg.MaxPages)

	//optional telegram reporting
	var rep *reporter.TelegramReporter
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		r, err := reporter.NewTelegramReporter(cfg)
		if err != nil {
			log.Printf("⚠️ Telegram reporter disabled: %v", err)
		} else {
			rep = r
			log.Println("🤖 Telegram reporter initialized.")
		}
	}

	//one run is bounded; Ctrl-C cancels at the next page/item boundary
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log.Println("🚀 Starting XiaoHongShu note collection...")

	//init playwright manager
	pwManager, err := browser.NewManager(cfg.Headless)
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer pwManager.Close()

	//load cookies from a previously authenticated session
	loaded, err := browser.LoadCookies(cfg.CookiesPath)
	if err != nil {
		log.Printf("⚠️ Could not load cookies: %v. Continuing, login may be required.", err)
	} else {
		log.Printf("🍪 Loaded %d cookies", len(loaded))
	}

	browserCtx, err := pwManager.NewContext(loaded)
	if err != nil {
		log.Fatalf("❌ Failed to create browser context: %v", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		log.Fatalf("❌ Failed to create new page: %v", err)
	}
	log.Println("✅ Browser initialized successfully!")

	drv := xhs.NewDriver(page)
	if err := drv.Login(ctx, cfg.XHSEmail, cfg.XHSPassword); err != nil {
		if rep != nil {
			rep.SendError(err)
		}
		log.Fatalf("❌ Login failed: %v", err)
	}

	//run the collection pipeline
	oracleClient := oracle.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OracleModel)
	orch := collector.NewOrchestrator(drv, oracleClient, state.NewStore(), cfg.PromotionTarget, cfg.MaxPages)

	result := orch.Run(ctx)
	status := orch.Snapshot()

	//export results
	if len(result.Records) > 0 {
		writer := export.NewWriter(cfg.OutputDir)
		paths, err := writer.WriteAll(result.Records)
		if err != nil {
			log.Printf("⚠️ Export failed: %v", err)
		} else {
			log.Printf("📁 Results saved: %s", paths.JSON)
			log.Printf("📁 Summary saved: %s", paths.Summary)
			log.Printf("📁 CSV saved: %s", paths.CSV)
			log.Printf("📈 Chart saved: %s", paths.Chart)
		}
	} else {
		log.Printf("ℹ️ No notes collected: %s", result.Message)
	}

	//report run summary
	if rep != nil {
		if err := rep.SendRunSummary(result, status); err != nil {
			log.Printf("⚠️ Failed to send run summary: %v", err)
		}
	}

	log.Println("🏁 Execution finished.")
}
