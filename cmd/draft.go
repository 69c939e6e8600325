package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/ai"
	"github.com/randofan/varsitylink/internal/drafting"
	"github.com/randofan/varsitylink/internal/metrics"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a campaign strategy with the configured model",
	Run: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()
		req := ai.DraftRequest{}
		req.CampaignSummary, _ = flags.GetString("summary")
		req.Budget, _ = flags.GetString("budget")
		req.AthletePartnerCount, _ = flags.GetString("partners")
		req.Sports, _ = flags.GetStringSlice("sports")
		req.CustomSport, _ = flags.GetString("custom-sport")
		req.CampaignID, _ = flags.GetString("campaign")
		kind, _ := flags.GetString("kind")
		draft(req, kind)
	},
}

func init() {
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().StringP("summary", "s", "", "campaign summary")
	draftCmd.Flags().String("budget", "", "maximum budget")
	draftCmd.Flags().String("partners", "", "number of athlete partners")
	draftCmd.Flags().StringSlice("sports", nil, "comma separated sports")
	draftCmd.Flags().String("custom-sport", "", "a sport missing from the options")
	draftCmd.Flags().StringP("kind", "k", drafting.CampaignStrategy, "draft kind")
	draftCmd.Flags().StringP("campaign", "c", "", "save the strategy to this campaign")
	_ = draftCmd.MarkFlagRequired("summary")
}

func draft(req ai.DraftRequest, kind string) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if req.CampaignID != "" && kind != drafting.CampaignStrategy {
		logger.Fatal("only campaign strategies can be saved to a campaign", zap.String("kind", kind))
	}

	registry, err := newRegistry(config.Drafts)
	if err != nil {
		logger.Fatal("registering draft kinds", zap.Error(err))
	}

	drafter, err := newDrafter(ctx, config.AI, registry, metrics.New(), logger)
	if err != nil {
		logger.Fatal("creating the drafter", zap.Error(err))
	}

	result, err := drafter.Draft(ctx, req, kind)
	if err != nil {
		logger.Fatal("drafting", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("encoding the draft", zap.Error(err))
	}
	fmt.Fprintln(os.Stdout, string(pretty))

	if req.CampaignID == "" {
		return
	}

	db, err := openStore(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	campaign, err := db.GetCampaign(ctx, req.CampaignID)
	if err != nil {
		logger.Fatal("loading the campaign", zap.String("campaign_id", req.CampaignID), zap.Error(err))
	}
	if err := campaign.ApplyStrategy(result); err != nil {
		logger.Fatal("applying the draft", zap.Error(err))
	}
	if err := db.SaveStrategy(ctx, campaign.ID, campaign.CampaignStrategy); err != nil {
		logger.Fatal("saving the strategy", zap.Error(err))
	}

	logger.Info("strategy saved", zap.String("campaign_id", campaign.ID))
}
