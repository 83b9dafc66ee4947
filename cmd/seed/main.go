// Package main provides a tool to seed a fresh LabDesk database: it imports
// the roster and inventory CSV exports and creates the first operator
// account.
//
// Usage:
//
//	DATA_PATH=~/LabDesk/data go run ./cmd/seed \
//	    -roster-csv ~/exports/membros.csv \
//	    -inventory-csv ~/exports/inventario.csv \
//	    -admin-email admin@example.com -admin-password secret123
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/labdeskapp/labdesk-server/internal/service"
	"github.com/labdeskapp/labdesk-server/internal/store"
)

var (
	rosterCSV     = flag.String("roster-csv", "", "Path to the member roster CSV export")
	inventoryCSV  = flag.String("inventory-csv", "", "Path to the asset inventory CSV export")
	adminEmail    = flag.String("admin-email", "", "Email for the first operator account")
	adminPassword = flag.String("admin-password", "", "Password for the first operator account")
)

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/LabDesk/data")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if *rosterCSV != "" {
		members := service.NewMemberService(s, logger, *rosterCSV)
		imported, err := members.ImportCSV(ctx, nil)
		if err != nil {
			log.Fatalf("Roster import failed: %v", err)
		}
		fmt.Printf("Imported %d member records\n", imported)
	}

	if *inventoryCSV != "" {
		assets := service.NewAssetService(s, logger, *inventoryCSV)
		imported, err := assets.ImportCSV(ctx)
		if err != nil {
			log.Fatalf("Inventory import failed: %v", err)
		}
		fmt.Printf("Imported %d assets\n", imported)
	}

	if *adminEmail != "" {
		if *adminPassword == "" {
			log.Fatal("-admin-password is required with -admin-email")
		}
		auth := service.NewAuthService(s, logger, 0, 0)
		user, err := auth.CreateUser(ctx, *adminEmail, *adminPassword, "admin")
		if err != nil {
			log.Fatalf("Failed to create operator: %v", err)
		}
		fmt.Printf("Created operator account %s\n", user.Email)
	}

	fmt.Println("Done")
}
