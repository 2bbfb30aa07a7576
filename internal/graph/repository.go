package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"teamnet/pkg/logger"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

func (r *Repository) readSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
}

func (r *Repository) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

// fulltextIndexes maps node labels to their full-text index over the fields
// the search endpoints query.
var fulltextIndexes = map[Label]struct {
	name   string
	fields []string
}{
	LabelUser:     {"user_Index", []string{"name", "bio", "role", "email"}},
	LabelCompany:  {"company_Index", []string{"name", "description"}},
	LabelSoftware: {"software_Index", []string{"name", "problem", "solution", "comments"}},
	LabelStack:    {"stack_Index", []string{"name", "description"}},
	LabelPost:     {"post_Index", []string{"text", "link_description", "link_title"}},
}

// FulltextIndex returns the full-text index name for a label, or ""
func FulltextIndex(label Label) string {
	return fulltextIndexes[label].name
}

// EnsureIndexes creates the per-label full-text indexes and uid constraints
// if they do not exist yet. Called once at startup.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	for label, idx := range fulltextIndexes {
		fields := ""
		for i, f := range idx.fields {
			if i > 0 {
				fields += ", "
			}
			fields += "n." + f
		}
		query := fmt.Sprintf(
			"CREATE FULLTEXT INDEX %s IF NOT EXISTS FOR (n:%s) ON EACH [%s]",
			idx.name, label, fields,
		)
		if _, err := session.Run(ctx, query, nil); err != nil {
			return fmt.Errorf("failed to create fulltext index %s: %w", idx.name, err)
		}
	}

	for _, label := range []Label{
		LabelUser, LabelCompany, LabelSoftware, LabelStack,
		LabelPost, LabelComment, LabelLocation, LabelTopic,
	} {
		query := fmt.Sprintf(
			"CREATE CONSTRAINT %s_uid IF NOT EXISTS FOR (n:%s) REQUIRE n.uid IS UNIQUE",
			strings.ToLower(string(label)), label,
		)
		if _, err := session.Run(ctx, query, nil); err != nil {
			return fmt.Errorf("failed to create uid constraint for %s: %w", label, err)
		}
	}

	r.logger.Info("Graph indexes verified")
	return nil
}
