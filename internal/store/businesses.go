package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/marketplace"
)

const businessColumns = `id, name, email, mission_statement, website, instagram, tiktok, pinterest, linkedin, twitter, created_at`

// CreateBusiness assigns an id and creation time to b and inserts it.
func (s *Store) CreateBusiness(ctx context.Context, b *marketplace.Business) error {
	b.ID = s.newID()
	b.CreatedAt = fromMillis(toMillis(s.now()))

	query := s.rebind(`INSERT INTO businesses (` + businessColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		b.ID, b.Name, b.Email, b.MissionStatement, b.Website,
		b.Instagram, b.TikTok, b.Pinterest, b.LinkedIn, b.Twitter,
		toMillis(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}

	s.logger.Debug("business created", zap.String("business_id", b.ID))
	return nil
}

// GetBusiness loads a business together with its campaigns.
func (s *Store) GetBusiness(ctx context.Context, id string) (*marketplace.Business, error) {
	query := s.rebind(`SELECT ` + businessColumns + ` FROM businesses WHERE id = ?`)
	b, err := scanBusiness(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("business %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}

	campaigns, err := s.ListCampaigns(ctx, CampaignFilter{BusinessID: id})
	if err != nil {
		return nil, err
	}
	b.Campaigns = campaigns

	return b, nil
}

// ListBusinesses returns every business with its campaigns, oldest first.
func (s *Store) ListBusinesses(ctx context.Context) ([]marketplace.Business, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+businessColumns+` FROM businesses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	businesses := []marketplace.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		businesses = append(businesses, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}

	campaigns, err := s.ListCampaigns(ctx, CampaignFilter{})
	if err != nil {
		return nil, err
	}

	byBusiness := make(map[string][]marketplace.Campaign)
	for _, c := range campaigns {
		byBusiness[c.BusinessID] = append(byBusiness[c.BusinessID], c)
	}
	for i := range businesses {
		businesses[i].Campaigns = byBusiness[businesses[i].ID]
	}

	return businesses, nil
}

func scanBusiness(row scanner) (*marketplace.Business, error) {
	var (
		b         marketplace.Business
		createdAt int64
	)
	if err := row.Scan(
		&b.ID, &b.Name, &b.Email, &b.MissionStatement, &b.Website,
		&b.Instagram, &b.TikTok, &b.Pinterest, &b.LinkedIn, &b.Twitter,
		&createdAt,
	); err != nil {
		return nil, err
	}
	b.CreatedAt = fromMillis(createdAt)
	return &b, nil
}
