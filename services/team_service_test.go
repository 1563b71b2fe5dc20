package services

import (
	"context"
	"testing"
	"time"

	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTeamRepo struct {
	byID   map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{byID: map[int]*models.Team{}, nextID: 1}
}

func (f *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	for _, existing := range f.byID {
		if existing.CategoryID == team.CategoryID && existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = f.nextID
	f.nextID++
	team.CreatedAt = time.Now()
	stored := *team
	f.byID[team.ID] = &stored
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (f *fakeTeamRepo) ListByCategory(_ context.Context, categoryID int) ([]*models.Team, error) {
	var out []*models.Team
	for _, team := range f.byID {
		if team.CategoryID == categoryID {
			copied := *team
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) SetWithdrawn(_ context.Context, _ repositories.SQLExecutor, teamID int) error {
	team, ok := f.byID[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Withdrawn = true
	return nil
}

func (f *fakeTeamRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakePlayerRepo struct {
	byID map[int]*models.Player
}

func (f *fakePlayerRepo) Create(_ context.Context, p *models.Player) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePlayerRepo) UpdatePhotoKey(_ context.Context, id int, photoKey *string) error {
	p, ok := f.byID[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.PhotoKey = photoKey
	return nil
}

func newTeamServiceForTest() (TeamService, *fakeCategoryRepo) {
	categories := newFakeCategoryRepo()
	players := &fakePlayerRepo{byID: map[int]*models.Player{
		1: {ID: 1, FirstName: "Ana", LastName: "Diaz", RankingPoints: 120},
		2: {ID: 2, FirstName: "Bea", LastName: "Ruiz", RankingPoints: 80},
	}}
	return NewTeamService(newFakeTeamRepo(), categories, players), categories
}

func seedCategory(t *testing.T, categories *fakeCategoryRepo) int {
	t.Helper()
	category := &models.Category{TournamentID: 1, Name: "Mixed open"}
	require.NoError(t, categories.Create(context.Background(), category))
	return category.ID
}

func TestTeamRegister(t *testing.T) {
	svc, categories := newTeamServiceForTest()
	categoryID := seedCategory(t, categories)

	player2 := 2
	team, err := svc.Register(context.Background(), categoryID, RegisterTeamInput{
		Name:      "Diaz/Ruiz",
		Player1ID: 1,
		Player2ID: &player2,
		Ranking:   350,
	})
	require.NoError(t, err)
	assert.Equal(t, categoryID, team.CategoryID)
	assert.Equal(t, 350.0, team.RankingPoints)
	assert.False(t, team.Withdrawn)
}

func TestTeamRegisterRankingFallback(t *testing.T) {
	svc, categories := newTeamServiceForTest()
	categoryID := seedCategory(t, categories)

	player2 := 2
	team, err := svc.Register(context.Background(), categoryID, RegisterTeamInput{
		Name:      "Diaz/Ruiz",
		Player1ID: 1,
		Player2ID: &player2,
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, team.RankingPoints)

	// unknown players contribute nothing
	unknown := 99
	team, err = svc.Register(context.Background(), categoryID, RegisterTeamInput{
		Name:      "Diaz/Unknown",
		Player1ID: 1,
		Player2ID: &unknown,
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, team.RankingPoints)
}

func TestTeamRegisterRejects(t *testing.T) {
	svc, categories := newTeamServiceForTest()
	categoryID := seedCategory(t, categories)

	_, err := svc.Register(context.Background(), 999, RegisterTeamInput{Name: "Diaz/Ruiz", Player1ID: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Register(context.Background(), categoryID, RegisterTeamInput{Name: "  ", Player1ID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	same := 1
	_, err = svc.Register(context.Background(), categoryID, RegisterTeamInput{Name: "Solo", Player1ID: 1, Player2ID: &same})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), categoryID, RegisterTeamInput{Name: "Diaz/Ruiz", Player1ID: 1})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), categoryID, RegisterTeamInput{Name: "Diaz/Ruiz", Player1ID: 2})
	assert.ErrorIs(t, err, ErrTeamNameConflict)
}

func TestTeamGetListRemove(t *testing.T) {
	svc, categories := newTeamServiceForTest()
	categoryID := seedCategory(t, categories)

	registered, err := svc.Register(context.Background(), categoryID, RegisterTeamInput{Name: "Diaz/Ruiz", Player1ID: 1})
	require.NoError(t, err)

	team, err := svc.Get(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Diaz/Ruiz", team.Name)

	_, err = svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)

	listed, err := svc.ListByCategory(context.Background(), categoryID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = svc.ListByCategory(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Remove(context.Background(), registered.ID))
	err = svc.Remove(context.Background(), registered.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
