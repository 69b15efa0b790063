package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deskpulse/deskpulse/internal/application/user/usecases"
	"github.com/deskpulse/deskpulse/internal/infrastructure/auth"
	"github.com/deskpulse/deskpulse/internal/infrastructure/config"
	"github.com/deskpulse/deskpulse/internal/infrastructure/database"
	"github.com/deskpulse/deskpulse/internal/infrastructure/repository"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

var (
	env        string
	configPath string
	seedFile   string
)

// File is the layout of a seed document.
type File struct {
	Users []usecases.SeedUser `yaml:"users"`
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed user accounts",
		Long:  `Create the accounts listed in a YAML seed file. Existing accounts are kept and promoted to admin when the seed says so.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "Path to the YAML seed file")

	return cmd
}

// LoadFile parses a seed document from path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("seed file %s lists no users", path)
	}
	return &f, nil
}

func run(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	f, err := LoadFile(seedFile)
	if err != nil {
		return err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	uc := usecases.NewSeedUsersUseCase(
		repository.NewUserRepository(database.Get(), log),
		auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		log,
	)

	result, err := uc.Execute(context.Background(), f.Users)
	if err != nil {
		log.Errorw("seeding failed", "error", err)
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.Infow("seeding completed",
		"created", result.Created,
		"promoted", result.Promoted,
		"skipped", result.Skipped,
	)
	return nil
}
