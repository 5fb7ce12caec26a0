package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/feliz-storefront/internal/models/m_outbox"
)

// databasePath is a parsed projects/P/instances/I/databases/D name.
type databasePath struct {
	Project  string
	Instance string
	Database string
}

func parseDatabasePath(name string) (databasePath, error) {
	parts := strings.Split(name, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" ||
		parts[1] == "" || parts[3] == "" || parts[5] == "" {
		return databasePath{}, fmt.Errorf("invalid Spanner database %q, want projects/PROJECT/instances/INSTANCE/databases/DATABASE", name)
	}
	return databasePath{Project: parts[1], Instance: parts[3], Database: parts[5]}, nil
}

func (p databasePath) instanceName() string {
	return fmt.Sprintf("projects/%s/instances/%s", p.Project, p.Instance)
}

func (p databasePath) String() string {
	return fmt.Sprintf("%s/databases/%s", p.instanceName(), p.Database)
}

func newOutboxMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the outbox table and index when missing",
		Long: `Ensures the Spanner database named by SPANNER_DATABASE holds the
analytics outbox schema. Statements whose table or index already exists are
skipped. With SPANNER_EMULATOR_HOST set the instance and database are created
as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := c.setup(outboxOnly)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			path, err := parseDatabasePath(cfg.SpannerDatabase)
			if err != nil {
				return err
			}
			m := &migrator{path: path, emulator: os.Getenv("SPANNER_EMULATOR_HOST") != "", logger: logger}
			if m.emulator {
				logger.Info("Using Spanner emulator", zap.String("host", os.Getenv("SPANNER_EMULATOR_HOST")))
			}
			if err := m.run(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("Outbox schema is up to date", zap.String("database", path.String()))
			return nil
		},
	}
}

type migrator struct {
	path     databasePath
	emulator bool
	logger   *zap.Logger
}

func (m *migrator) run(ctx context.Context) error {
	if m.emulator {
		if err := m.ensureInstance(ctx); err != nil {
			return fmt.Errorf("failed to ensure instance: %w", err)
		}
	}

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	if err := m.ensureDatabase(ctx, adminClient); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	return m.applySchema(ctx, adminClient)
}

func (m *migrator) ensureInstance(ctx context.Context) error {
	m.logger.Info("Ensuring instance exists", zap.String("instance", m.path.Instance))

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: m.path.instanceName()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check instance: %w", err)
	}

	m.logger.Info("Creating instance")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + m.path.Project,
		InstanceId: m.path.Instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", m.path.Project),
			DisplayName: "Storefront Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}
	// The emulator may finish the operation before it can be polled.
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		m.logger.Warn("Instance creation did not report completion", zap.Error(err))
	}
	return nil
}

func (m *migrator) ensureDatabase(ctx context.Context, adminClient *database.DatabaseAdminClient) error {
	_, err := adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: m.path.String()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check database: %w", err)
	}
	if !m.emulator {
		return fmt.Errorf("database %s does not exist", m.path)
	}

	m.logger.Info("Creating database", zap.String("database", m.path.Database))
	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          m.path.instanceName(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", m.path.Database),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}

func (m *migrator) applySchema(ctx context.Context, adminClient *database.DatabaseAdminClient) error {
	current, err := adminClient.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: m.path.String()})
	if err != nil {
		return fmt.Errorf("failed to read database schema: %w", err)
	}

	statements := missingStatements(current.GetStatements(), m_outbox.DDL())
	if len(statements) == 0 {
		m.logger.Info("No schema changes to apply")
		return nil
	}

	m.logger.Info("Applying schema", zap.Strings("objects", ddlObjects(statements)))
	op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   m.path.String(),
		Statements: statements,
	})
	if err != nil {
		return fmt.Errorf("failed to start DDL update: %w", err)
	}
	if err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to apply DDL: %w", err)
	}
	return nil
}

// missingStatements returns the wanted statements whose object is not
// created by any existing statement.
func missingStatements(existing, wanted []string) []string {
	have := make(map[string]bool, len(existing))
	for _, stmt := range existing {
		have[ddlObject(stmt)] = true
	}
	var out []string
	for _, stmt := range wanted {
		if !have[ddlObject(stmt)] {
			out = append(out, stmt)
		}
	}
	return out
}

// ddlObject identifies what a CREATE statement creates, e.g. "TABLE analytics_outbox".
func ddlObject(stmt string) string {
	fields := strings.Fields(strings.ReplaceAll(stmt, "(", " ("))
	if len(fields) < 3 || !strings.EqualFold(fields[0], "CREATE") {
		return strings.TrimSpace(stmt)
	}
	i := 1
	if strings.EqualFold(fields[i], "UNIQUE") || strings.EqualFold(fields[i], "NULL_FILTERED") {
		i++
	}
	if i+1 >= len(fields) {
		return strings.TrimSpace(stmt)
	}
	return strings.ToUpper(fields[i]) + " " + strings.Trim(fields[i+1], "`")
}

func ddlObjects(statements []string) []string {
	out := make([]string, len(statements))
	for i, stmt := range statements {
		out[i] = ddlObject(stmt)
	}
	return out
}
