package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/marketplace"
)

// newTestStore migrates a fresh SQLite file and returns a store whose clock
// advances one second per record, so newest-first ordering is stable.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "varsitylink.db")

	_, err := Migrate(ctx, SQLite, dsn, LatestVersion, zap.NewNop())
	require.NoError(t, err)

	s, err := Open(ctx, SQLite, dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}

	return s
}

func TestParseBackend(t *testing.T) {
	cases := map[string]Backend{
		"":           SQLite,
		"sqlite3":    SQLite,
		"PostgreSQL": Postgres,
		"pg":         Postgres,
		"mysql":      MySQL,
	}
	for input, want := range cases {
		got, err := ParseBackend(input)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := ParseBackend("oracle")
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestRebind(t *testing.T) {
	pg := &Store{backend: Postgres}
	assert.Equal(t, "SELECT id FROM t WHERE a = $1 AND b IN ($2, $3)", pg.rebind("SELECT id FROM t WHERE a = ? AND b IN (?, ?)"))

	lite := &Store{backend: SQLite}
	assert.Equal(t, "SELECT ? FROM t", lite.rebind("SELECT ? FROM t"))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("app.db"))
	assert.Equal(t, "file:app.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("file:app.db?mode=rwc"))
	assert.Equal(t, "app.db?_pragma=journal_mode(WAL)", sqliteDSN("app.db?_pragma=journal_mode(WAL)"))
}

func TestMigrateIsIdempotentAndReversible(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "migrate.db")

	res, err := Migrate(ctx, SQLite, dsn, LatestVersion, nil)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, uint(1), res.To)

	res, err = Migrate(ctx, SQLite, dsn, LatestVersion, nil)
	require.NoError(t, err)
	assert.False(t, res.Changed)

	res, err = Migrate(ctx, SQLite, dsn, 0, nil)
	require.NoError(t, err)
	assert.True(t, res.Changed)
}

func TestBusinessLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b := &marketplace.Business{
		Name:             "Corner Bakery",
		Email:            "hello@bakery.example",
		MissionStatement: "Fresh bread for the team",
		Socials:          marketplace.Socials{Instagram: "cornerbakery"},
	}
	require.NoError(t, s.CreateBusiness(ctx, b))
	assert.Equal(t, "id-001", b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := s.GetBusiness(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Name, got.Name)
	assert.Equal(t, "cornerbakery", got.Instagram)
	assert.True(t, b.CreatedAt.Equal(got.CreatedAt))
	assert.Empty(t, got.Campaigns)

	_, err = s.GetBusiness(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	campaign := &marketplace.Campaign{Name: "Spring Sale", BusinessID: b.ID}
	require.NoError(t, s.CreateCampaign(ctx, campaign))

	all, err := s.ListBusinesses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].Campaigns, 1)
	assert.Equal(t, campaign.ID, all[0].Campaigns[0].ID)
}

func TestAthleteLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	hours := 10
	first := &marketplace.StudentAthlete{
		Name:             "Molly Wilson",
		Email:            "molly@example.com",
		Age:              21,
		Sport:            "Volleyball",
		Industries:       []string{"Sports", "Fitness"},
		MarketingOptions: []marketplace.MarketingOption{marketplace.SocialMediaPosts},
		Compensation:     []marketplace.Compensation{marketplace.InKind, marketplace.Commission},
		HoursPerWeek:     &hours,
	}
	second := &marketplace.StudentAthlete{Name: "Will Landram", Email: "will@example.com", Age: 22, Sport: "Basketball"}
	third := &marketplace.StudentAthlete{Name: "Maya Loudd", Email: "maya@example.com", Age: 20, Sport: "Volleyball"}

	for _, a := range []*marketplace.StudentAthlete{first, second, third} {
		require.NoError(t, s.CreateAthlete(ctx, a))
	}

	got, err := s.GetAthlete(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sports", "Fitness"}, got.Industries)
	assert.Equal(t, first.Compensation, got.Compensation)
	require.NotNil(t, got.HoursPerWeek)
	assert.Equal(t, 10, *got.HoursPerWeek)
	assert.Equal(t, []string{}, got.CampaignIDs)

	plain, err := s.GetAthlete(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, plain.HoursPerWeek)
	assert.Equal(t, []string{}, plain.Industries)

	all, err := s.ListAthletes(ctx, AthleteFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, athleteIDs(all))

	volleyball, err := s.ListAthletes(ctx, AthleteFilter{Sport: "Volleyball"})
	require.NoError(t, err)
	assert.Equal(t, []string{third.ID, first.ID}, athleteIDs(volleyball))

	_, err = s.GetAthlete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCampaignLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b := &marketplace.Business{Name: "Corner Bakery", Email: "hello@bakery.example"}
	require.NoError(t, s.CreateBusiness(ctx, b))

	a1 := &marketplace.StudentAthlete{Name: "A", Email: "a@example.com", Age: 20, Sport: "Golf"}
	a2 := &marketplace.StudentAthlete{Name: "B", Email: "b@example.com", Age: 21, Sport: "Tennis"}
	require.NoError(t, s.CreateAthlete(ctx, a1))
	require.NoError(t, s.CreateAthlete(ctx, a2))

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	c := &marketplace.Campaign{
		Name:         "Spring Sale",
		MaxBudget:    "$2,000",
		Compensation: marketplace.FixedFee,
		Sports:       []string{"Golf", "Tennis"},
		StartDate:    start,
		BusinessID:   b.ID,
		AthleteIDs:   []string{a1.ID, a1.ID},
	}
	c.Objectives = "Awareness"
	require.NoError(t, s.CreateCampaign(ctx, c))
	assert.Equal(t, marketplace.StatusPending, c.Status)

	got, err := s.GetCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Golf", "Tennis"}, got.Sports)
	assert.Equal(t, []string{a1.ID}, got.AthleteIDs)
	assert.True(t, start.Equal(got.StartDate))
	assert.True(t, got.EndDate.IsZero())
	assert.Equal(t, "Awareness", got.Objectives)
	assert.Nil(t, got.EngagementGoal)

	goal := 1500
	deliverables := "3 reels"
	strategy := got.CampaignStrategy
	strategy.EngagementGoal = &goal
	strategy.ContentDeliverables = &deliverables
	strategy.ProductLaunch = true
	require.NoError(t, s.SaveStrategy(ctx, c.ID, strategy))

	got, err = s.GetCampaign(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EngagementGoal)
	assert.Equal(t, 1500, *got.EngagementGoal)
	assert.Equal(t, "3 reels", *got.ContentDeliverables)
	assert.True(t, got.ProductLaunch)

	require.NoError(t, s.AttachAthletes(ctx, c.ID, []string{a2.ID, a1.ID}))
	got, err = s.GetCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a1.ID, a2.ID}, got.AthleteIDs)

	athlete, err := s.GetAthlete(ctx, a2.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, athlete.CampaignIDs)

	other := &marketplace.Campaign{Name: "Summer Sale", BusinessID: b.ID}
	require.NoError(t, s.CreateCampaign(ctx, other))

	list, err := s.ListCampaigns(ctx, CampaignFilter{BusinessID: b.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, other.ID, list[0].ID)
	assert.Equal(t, []string{}, list[0].AthleteIDs)

	none, err := s.ListCampaigns(ctx, CampaignFilter{BusinessID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCampaignMissingReferences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.CreateCampaign(ctx, &marketplace.Campaign{Name: "Orphan", BusinessID: "nobody"})
	assert.ErrorIs(t, err, ErrNotFound)

	b := &marketplace.Business{Name: "Corner Bakery", Email: "hello@bakery.example"}
	require.NoError(t, s.CreateBusiness(ctx, b))

	err = s.CreateCampaign(ctx, &marketplace.Campaign{Name: "Ghosts", BusinessID: b.ID, AthleteIDs: []string{"ghost"}})
	assert.ErrorIs(t, err, ErrNotFound)

	// The failed insert must not leave a campaign behind.
	list, err := s.ListCampaigns(ctx, CampaignFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	err = s.SaveStrategy(ctx, "missing", marketplace.CampaignStrategy{})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.AttachAthletes(ctx, "missing", []string{"x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func athleteIDs(athletes []marketplace.StudentAthlete) []string {
	ids := make([]string, 0, len(athletes))
	for _, a := range athletes {
		ids = append(ids, a.ID)
	}
	return ids
}
