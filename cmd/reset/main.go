package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"hgl-backend/internal/config"
	"hgl-backend/internal/db"
	"hgl-backend/internal/repositories"
	"hgl-backend/internal/services"
)

func main() {
	driver := flag.String("driver", "", "Storage driver (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *driver != "" {
		cfg.Storage.Driver = *driver
	}

	fmt.Println("========================================")
	fmt.Println("   Clear All Lab Records")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Printf("WARNING: This will DELETE ALL RECORDS from the %s store!\n", cfg.Storage.Driver)
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all customer intake records")
	fmt.Println("  - Delete all hallmark certificates")
	fmt.Println("  - Reset job numbering to 1")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := db.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to open store: %v\n", err)
	}
	defer store.Close()

	repo := repositories.NewRecordRepository(store)
	seq := services.NewSequenceAllocator(repo)
	recs := services.NewRecordService(repo, seq, cfg.LabProfile(), nil)

	if err := recs.ClearAll(ctx); err != nil {
		log.Fatalf("Failed to clear records: %v\n", err)
	}

	fmt.Println()
	fmt.Println("All records cleared. Next job number: " + cfg.LabProfile().DisplayID(1))
}
