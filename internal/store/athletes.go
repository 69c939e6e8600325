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

const athleteColumns = `id, name, email, image, age, sport, major, gender, ethnicity, intro_blurb,
	instagram, tiktok, pinterest, linkedin, twitter,
	industries, marketing_options, hours_per_week, compensation, created_at`

// AthleteFilter narrows ListAthletes. The zero value lists every athlete.
type AthleteFilter struct {
	Sport string
}

// CreateAthlete assigns an id and creation time to a and inserts it.
func (s *Store) CreateAthlete(ctx context.Context, a *marketplace.StudentAthlete) error {
	a.Defaults()

	industries, err := encodeList(a.Industries)
	if err != nil {
		return fmt.Errorf("encode industries: %w", err)
	}
	options, err := encodeList(a.MarketingOptions)
	if err != nil {
		return fmt.Errorf("encode marketing options: %w", err)
	}
	compensation, err := encodeList(a.Compensation)
	if err != nil {
		return fmt.Errorf("encode compensation: %w", err)
	}

	a.ID = s.newID()
	a.CreatedAt = fromMillis(toMillis(s.now()))

	query := s.rebind(`INSERT INTO student_athletes (` + athleteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = s.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Email, a.Image, a.Age, a.Sport, a.Major, a.Gender, a.Ethnicity, a.IntroBlurb,
		a.Instagram, a.TikTok, a.Pinterest, a.LinkedIn, a.Twitter,
		industries, options, nullInt(a.HoursPerWeek), compensation, toMillis(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert athlete: %w", err)
	}

	s.logger.Debug("athlete created", zap.String("athlete_id", a.ID), zap.String("sport", a.Sport))
	return nil
}

// GetAthlete loads an athlete together with the ids of its campaigns.
func (s *Store) GetAthlete(ctx context.Context, id string) (*marketplace.StudentAthlete, error) {
	query := s.rebind(`SELECT ` + athleteColumns + ` FROM student_athletes WHERE id = ?`)
	a, err := scanAthlete(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("athlete %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get athlete: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT campaign_id FROM campaign_athletes WHERE athlete_id = ? ORDER BY campaign_id`), id)
	if err != nil {
		return nil, fmt.Errorf("list athlete campaigns: %w", err)
	}
	defer rows.Close()

	a.CampaignIDs = []string{}
	for rows.Next() {
		var campaignID string
		if err := rows.Scan(&campaignID); err != nil {
			return nil, fmt.Errorf("scan athlete campaign: %w", err)
		}
		a.CampaignIDs = append(a.CampaignIDs, campaignID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list athlete campaigns: %w", err)
	}

	return a, nil
}

// ListAthletes returns athletes newest first.
func (s *Store) ListAthletes(ctx context.Context, filter AthleteFilter) ([]marketplace.StudentAthlete, error) {
	query := `SELECT ` + athleteColumns + ` FROM student_athletes`
	var args []any
	if sport := strings.TrimSpace(filter.Sport); sport != "" {
		query += ` WHERE sport = ?`
		args = append(args, sport)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list athletes: %w", err)
	}
	defer rows.Close()

	athletes := []marketplace.StudentAthlete{}
	for rows.Next() {
		a, err := scanAthlete(rows)
		if err != nil {
			return nil, fmt.Errorf("scan athlete: %w", err)
		}
		athletes = append(athletes, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list athletes: %w", err)
	}

	return athletes, nil
}

func scanAthlete(row scanner) (*marketplace.StudentAthlete, error) {
	var (
		a                                 marketplace.StudentAthlete
		industries, options, compensation string
		hours                             sql.NullInt64
		createdAt                         int64
	)
	if err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Image, &a.Age, &a.Sport, &a.Major, &a.Gender, &a.Ethnicity, &a.IntroBlurb,
		&a.Instagram, &a.TikTok, &a.Pinterest, &a.LinkedIn, &a.Twitter,
		&industries, &options, &hours, &compensation, &createdAt,
	); err != nil {
		return nil, err
	}

	var err error
	if a.Industries, err = decodeList[string]("industries", industries); err != nil {
		return nil, err
	}
	if a.MarketingOptions, err = decodeList[marketplace.MarketingOption]("marketing_options", options); err != nil {
		return nil, err
	}
	if a.Compensation, err = decodeList[marketplace.Compensation]("compensation", compensation); err != nil {
		return nil, err
	}
	a.HoursPerWeek = fromNullInt(hours)
	a.CreatedAt = fromMillis(createdAt)

	return &a, nil
}
