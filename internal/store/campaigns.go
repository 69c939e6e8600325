package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/marketplace"
)

const campaignColumns = `id, name, campaign_summary, max_budget, compensation, student_athlete_count, sports,
	start_date, end_date, status, business_id, created_at,
	ai_summary, objectives, target_audience_min, target_audience_max, athlete_integration, channels,
	timeline, budget_breakdown, creative_concept, brand_tone, influencer_angle, brand_mentions, metrics,
	questions, product_launch, engagement_goal, conversion_goal, impressions_goal, content_deliverables,
	event_promotion, csr_initiative`

const strategyAssignments = `ai_summary = ?, objectives = ?, target_audience_min = ?, target_audience_max = ?,
	athlete_integration = ?, channels = ?, timeline = ?, budget_breakdown = ?, creative_concept = ?,
	brand_tone = ?, influencer_angle = ?, brand_mentions = ?, metrics = ?, questions = ?,
	product_launch = ?, engagement_goal = ?, conversion_goal = ?, impressions_goal = ?,
	content_deliverables = ?, event_promotion = ?, csr_initiative = ?`

// CampaignFilter narrows ListCampaigns. The zero value lists every campaign.
type CampaignFilter struct {
	BusinessID string
}

// CreateCampaign assigns an id and creation time to c and inserts it with
// its athlete links. The business and every linked athlete must exist.
func (s *Store) CreateCampaign(ctx context.Context, c *marketplace.Campaign) error {
	c.Defaults()
	c.AthleteIDs = dedupe(c.AthleteIDs)

	sports, err := encodeList(c.Sports)
	if err != nil {
		return fmt.Errorf("encode sports: %w", err)
	}

	id := s.newID()
	createdAt := fromMillis(toMillis(s.now()))

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		missing, err := s.missingIDs(ctx, tx, "businesses", []string{c.BusinessID})
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("business %q: %w", c.BusinessID, ErrNotFound)
		}

		args := []any{
			id, c.Name, c.CampaignSummary, c.MaxBudget, string(c.Compensation), c.StudentAthleteCount, sports,
			nullMillis(c.StartDate), nullMillis(c.EndDate), string(c.Status), c.BusinessID, toMillis(createdAt),
		}
		args = append(args, strategyArgs(c.CampaignStrategy)...)

		query := s.rebind(`INSERT INTO campaigns (` + campaignColumns + `) VALUES (` + placeholders(len(args)) + `)`)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert campaign: %w", err)
		}

		return s.linkAthletes(ctx, tx, id, c.AthleteIDs)
	})
	if err != nil {
		return err
	}

	c.ID = id
	c.CreatedAt = createdAt

	s.logger.Debug("campaign created",
		zap.String("campaign_id", c.ID),
		zap.String("business_id", c.BusinessID),
		zap.Int("athletes", len(c.AthleteIDs)),
	)
	return nil
}

// GetCampaign loads a campaign with the ids of its athletes.
func (s *Store) GetCampaign(ctx context.Context, id string) (*marketplace.Campaign, error) {
	query := s.rebind(`SELECT ` + campaignColumns + ` FROM campaigns WHERE id = ?`)
	c, err := scanCampaign(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("campaign %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}

	links, err := s.athleteLinks(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	c.AthleteIDs = links[id]
	if c.AthleteIDs == nil {
		c.AthleteIDs = []string{}
	}

	return c, nil
}

// ListCampaigns returns campaigns newest first.
func (s *Store) ListCampaigns(ctx context.Context, filter CampaignFilter) ([]marketplace.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	var args []any
	if businessID := strings.TrimSpace(filter.BusinessID); businessID != "" {
		query += ` WHERE business_id = ?`
		args = append(args, businessID)
	}
	query += ` ORDER BY created_at DESC, id`

	campaigns, err := s.queryCampaigns(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}

	if len(campaigns) == 0 {
		return campaigns, nil
	}

	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}
	links, err := s.athleteLinks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range campaigns {
		campaigns[i].AthleteIDs = links[campaigns[i].ID]
		if campaigns[i].AthleteIDs == nil {
			campaigns[i].AthleteIDs = []string{}
		}
	}

	return campaigns, nil
}

func (s *Store) queryCampaigns(ctx context.Context, query string, args ...any) ([]marketplace.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []marketplace.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}

// SaveStrategy replaces the strategy fields of a campaign.
func (s *Store) SaveStrategy(ctx context.Context, campaignID string, strategy marketplace.CampaignStrategy) error {
	args := append(strategyArgs(strategy), campaignID)
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE campaigns SET `+strategyAssignments+` WHERE id = ?`), args...)
	if err != nil {
		return fmt.Errorf("save campaign strategy: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save campaign strategy: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("campaign %q: %w", campaignID, ErrNotFound)
	}

	s.logger.Debug("campaign strategy saved", zap.String("campaign_id", campaignID))
	return nil
}

// AttachAthletes links athletes to a campaign. Links that already exist are
// left alone.
func (s *Store) AttachAthletes(ctx context.Context, campaignID string, athleteIDs []string) error {
	athleteIDs = dedupe(athleteIDs)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		missing, err := s.missingIDs(ctx, tx, "campaigns", []string{campaignID})
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("campaign %q: %w", campaignID, ErrNotFound)
		}

		rows, err := tx.QueryContext(ctx, s.rebind(`SELECT athlete_id FROM campaign_athletes WHERE campaign_id = ?`), campaignID)
		if err != nil {
			return fmt.Errorf("list campaign athletes: %w", err)
		}
		existing := make(map[string]struct{})
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				_ = rows.Close()
				return fmt.Errorf("scan campaign athlete: %w", err)
			}
			existing[id] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return fmt.Errorf("list campaign athletes: %w", err)
		}
		_ = rows.Close()

		fresh := make([]string, 0, len(athleteIDs))
		for _, id := range athleteIDs {
			if _, ok := existing[id]; !ok {
				fresh = append(fresh, id)
			}
		}

		return s.linkAthletes(ctx, tx, campaignID, fresh)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("athletes attached to campaign",
		zap.String("campaign_id", campaignID),
		zap.Strings("athlete_ids", athleteIDs),
	)
	return nil
}

func (s *Store) linkAthletes(ctx context.Context, tx *sql.Tx, campaignID string, athleteIDs []string) error {
	if len(athleteIDs) == 0 {
		return nil
	}

	missing, err := s.missingIDs(ctx, tx, "student_athletes", athleteIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("athletes %s: %w", strings.Join(missing, ", "), ErrNotFound)
	}

	query := s.rebind(`INSERT INTO campaign_athletes (campaign_id, athlete_id) VALUES (?, ?)`)
	for _, athleteID := range athleteIDs {
		if _, err := tx.ExecContext(ctx, query, campaignID, athleteID); err != nil {
			return fmt.Errorf("link athlete %q: %w", athleteID, err)
		}
	}
	return nil
}

func (s *Store) athleteLinks(ctx context.Context, campaignIDs []string) (map[string][]string, error) {
	args := make([]any, 0, len(campaignIDs))
	for _, id := range campaignIDs {
		args = append(args, id)
	}

	query := s.rebind(`SELECT campaign_id, athlete_id FROM campaign_athletes WHERE campaign_id IN (` +
		placeholders(len(campaignIDs)) + `) ORDER BY campaign_id, athlete_id`)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaign athletes: %w", err)
	}
	defer rows.Close()

	links := make(map[string][]string, len(campaignIDs))
	for rows.Next() {
		var campaignID, athleteID string
		if err := rows.Scan(&campaignID, &athleteID); err != nil {
			return nil, fmt.Errorf("scan campaign athlete: %w", err)
		}
		links[campaignID] = append(links[campaignID], athleteID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list campaign athletes: %w", err)
	}

	return links, nil
}

func strategyArgs(st marketplace.CampaignStrategy) []any {
	return []any{
		st.AISummary, st.Objectives, st.TargetAudienceMin, st.TargetAudienceMax,
		st.AthleteIntegration, st.Channels, st.Timeline, st.BudgetBreakdown, st.CreativeConcept,
		st.BrandTone, st.InfluencerAngle, st.BrandMentions, st.Metrics, st.Questions,
		st.ProductLaunch, nullInt(st.EngagementGoal), nullInt(st.ConversionGoal), nullInt(st.ImpressionsGoal),
		nullString(st.ContentDeliverables), st.EventPromotion, st.CSRInitiative,
	}
}

func scanCampaign(row scanner) (*marketplace.Campaign, error) {
	var (
		c                                   marketplace.Campaign
		compensation, status, sports        string
		startDate, endDate                  sql.NullInt64
		createdAt                           int64
		engagement, conversion, impressions sql.NullInt64
		deliverables                        sql.NullString
	)
	st := &c.CampaignStrategy
	if err := row.Scan(
		&c.ID, &c.Name, &c.CampaignSummary, &c.MaxBudget, &compensation, &c.StudentAthleteCount, &sports,
		&startDate, &endDate, &status, &c.BusinessID, &createdAt,
		&st.AISummary, &st.Objectives, &st.TargetAudienceMin, &st.TargetAudienceMax, &st.AthleteIntegration, &st.Channels,
		&st.Timeline, &st.BudgetBreakdown, &st.CreativeConcept, &st.BrandTone, &st.InfluencerAngle, &st.BrandMentions, &st.Metrics,
		&st.Questions, &st.ProductLaunch, &engagement, &conversion, &impressions, &deliverables,
		&st.EventPromotion, &st.CSRInitiative,
	); err != nil {
		return nil, err
	}

	var err error
	if c.Sports, err = decodeList[string]("sports", sports); err != nil {
		return nil, err
	}
	c.Compensation = marketplace.Compensation(compensation)
	c.Status = marketplace.CampaignStatus(status)
	c.StartDate = fromNullMillis(startDate)
	c.EndDate = fromNullMillis(endDate)
	c.CreatedAt = fromMillis(createdAt)
	st.EngagementGoal = fromNullInt(engagement)
	st.ConversionGoal = fromNullInt(conversion)
	st.ImpressionsGoal = fromNullInt(impressions)
	st.ContentDeliverables = fromNullString(deliverables)

	return &c, nil
}
