package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"teamnet/internal/auth"
	"teamnet/internal/graph"
	"teamnet/pkg/config"
	"teamnet/pkg/logger"
)

func main() {
	adminEmail := flag.String("admin-email", "admin@teamnet.local", "Email for the seeded superuser")
	adminPassword := flag.String("admin-password", "", "Password for the seeded superuser (generated when empty)")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	repo := graph.NewRepository(driver)

	// Create constraints and full-text indexes
	log.Info("Creating constraints and indexes...")
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create constraints and indexes", zap.Error(err))
	}

	// Skip when a superuser already exists
	if _, found, err := repo.FindByProperty(ctx, graph.LabelUser, "email", *adminEmail); err != nil {
		log.Fatal("Failed to check for existing superuser", zap.Error(err))
	} else if found {
		log.Info("Superuser already exists, nothing to do", zap.String("email", *adminEmail))
		os.Exit(0)
	}

	password := *adminPassword
	if password == "" {
		password, err = auth.GeneratePassword(0)
		if err != nil {
			log.Fatal("Failed to generate password", zap.Error(err))
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password", zap.Error(err))
	}

	adminUID, err := repo.CreateNode(ctx, graph.LabelUser, map[string]interface{}{
		"email":        *adminEmail,
		"name":         "Admin",
		"password":     hash,
		"active":       true,
		"is_superuser": true,
	})
	if err != nil {
		log.Fatal("Failed to create superuser", zap.Error(err))
	}
	log.Info("Created superuser",
		zap.String("uid", adminUID),
		zap.String("email", *adminEmail),
		zap.String("password", password))

	// Baseline stacks so the type catalog is visible from day one
	stacks := []struct {
		name, stackType string
	}{
		{"Go", "backend"},
		{"Neo4j", "database"},
		{"Redis", "database"},
		{"React", "frontend"},
		{"Docker", "devops"},
	}
	for _, s := range stacks {
		uid, err := repo.CreateNode(ctx, graph.LabelStack, map[string]interface{}{
			"name": s.name,
			"type": s.stackType,
		})
		if err != nil {
			log.Fatal("Failed to create stack", zap.String("name", s.name), zap.Error(err))
		}
		log.Info("Created stack", zap.String("name", s.name), zap.String("uid", uid))
	}

	log.Info("Seeding complete")
}
