package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/matching"
	"github.com/randofan/varsitylink/internal/store"
)

const promptDone = "done"

var (
	strongColor = color.New(color.FgGreen, color.Bold)
	weakColor   = color.New(color.FgHiBlack)
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank student athletes for a campaign",
	Run: func(cmd *cobra.Command, _ []string) {
		campaignID, _ := cmd.Flags().GetString("campaign")
		sport, _ := cmd.Flags().GetString("sport")
		limit, _ := cmd.Flags().GetInt("limit")
		pick, _ := cmd.Flags().GetBool("pick")
		match(campaignID, sport, limit, pick)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("campaign", "c", "", "campaign id")
	matchCmd.Flags().String("sport", "", "only consider athletes of this sport")
	matchCmd.Flags().IntP("limit", "n", 20, "rows to print, 0 prints all")
	matchCmd.Flags().Bool("pick", false, "choose athletes to attach to the campaign")
	_ = matchCmd.MarkFlagRequired("campaign")
}

func match(campaignID, sport string, limit int, pick bool) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	db, err := openStore(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	brief, err := db.GetCampaign(ctx, campaignID)
	if err != nil {
		logger.Fatal("loading the campaign", zap.String("campaign_id", campaignID), zap.Error(err))
	}

	pool, err := db.ListAthletes(ctx, store.AthleteFilter{Sport: sport})
	if err != nil {
		logger.Fatal("listing athletes", zap.Error(err))
	}

	ranked, err := matching.Default().ScoreAll(brief, pool)
	if err != nil {
		logger.Fatal("scoring athletes", zap.Error(err))
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	if len(ranked) == 0 {
		logger.Info("no athletes to match", zap.String("campaign_id", brief.ID))
		return
	}

	if err := printMatches(os.Stdout, ranked); err != nil {
		logger.Fatal("printing matches", zap.Error(err))
	}

	if !pick {
		return
	}

	chosen, err := pickAthletes(ranked)
	if err != nil {
		logger.Fatal("choosing athletes", zap.Error(err))
	}
	if len(chosen) == 0 {
		logger.Info("nothing chosen")
		return
	}

	if err := db.AttachAthletes(ctx, brief.ID, chosen); err != nil {
		logger.Fatal("attaching athletes", zap.Error(err))
	}
	logger.Info("athletes attached", zap.String("campaign_id", brief.ID), zap.Int("count", len(chosen)))
}

func printMatches(w io.Writer, ranked []matching.ScoredCandidate) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Athlete", "Sport", "Score", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, c := range ranked {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			c.Athlete.Name,
			c.Athlete.Sport,
			strconv.Itoa(c.Score),
			scoreLabel(c.Score),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// scoreLabel colors a score by whether the sport matched.
func scoreLabel(score int) string {
	if score >= matching.SportWeight {
		return strongColor.Sprint("sport match")
	}
	return weakColor.Sprint("no match")
}

// pickAthletes asks for athletes one by one until done is chosen.
func pickAthletes(ranked []matching.ScoredCandidate) ([]string, error) {
	var chosen []string
	taken := make(map[string]bool)

	for {
		items := []string{promptDone}
		ids := []string{""}
		for _, c := range ranked {
			if taken[c.Athlete.ID] {
				continue
			}
			items = append(items, fmt.Sprintf("%s (%s, score %d)", c.Athlete.Name, c.Athlete.Sport, c.Score))
			ids = append(ids, c.Athlete.ID)
		}
		if len(items) == 1 {
			return chosen, nil
		}

		prompt := promptui.Select{
			Label: "Attach an athlete?",
			Items: items,
		}
		idx, _, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return chosen, nil
			}
			return nil, err
		}
		if idx == 0 {
			return chosen, nil
		}

		taken[ids[idx]] = true
		chosen = append(chosen, ids[idx])
	}
}
