package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/randofan/varsitylink/internal/marketplace"
)

// seedFile is the layout of a seed file.
//
//	athletes:
//	  - name: Jane Doe
//	    email: jane@example.edu
//	    sport: Tennis
type seedFile struct {
	Athletes []marketplace.StudentAthlete `yaml:"athletes"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load student athletes from a yaml file",
	Run: func(cmd *cobra.Command, _ []string) {
		file, _ := cmd.Flags().GetString("file")
		seed(file)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringP("file", "f", "athletes.yaml", "yaml file with athletes")
}

func readSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for i := range seed.Athletes {
		seed.Athletes[i].Defaults()
		if err := seed.Athletes[i].Validate(); err != nil {
			return nil, fmt.Errorf("athlete #%d: %w", i+1, err)
		}
	}

	return &seed, nil
}

func seed(path string) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	data, err := readSeedFile(path)
	if err != nil {
		logger.Fatal("reading the seed file", zap.Error(err))
	}

	db, err := openStore(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	for i := range data.Athletes {
		athlete := &data.Athletes[i]
		athlete.ID = ""
		if err := db.CreateAthlete(ctx, athlete); err != nil {
			logger.Fatal("creating an athlete", zap.String("name", athlete.Name), zap.Error(err))
		}
		logger.Debug("athlete created", zap.String("id", athlete.ID), zap.String("sport", athlete.Sport))
	}

	logger.Info("seed loaded", zap.Int("athletes", len(data.Athletes)))
}
