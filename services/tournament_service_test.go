package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTournamentRepo struct {
	byID   map[int]*models.Tournament
	nextID int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{byID: map[int]*models.Tournament{}, nextID: 1}
}

func (f *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	for _, existing := range f.byID {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = f.nextID
	f.nextID++
	t.CreatedAt = time.Now()
	stored := *t
	f.byID[t.ID] = &stored
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTournamentRepo) List(_ context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range f.byID {
		if status != nil && t.Status != *status {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	if _, ok := f.byID[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	stored := *t
	f.byID[t.ID] = &stored
	return nil
}

func (f *fakeTournamentRepo) UpdatePosterKey(_ context.Context, id int, posterKey *string) error {
	t, ok := f.byID[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.PosterKey = posterKey
	return nil
}

func (f *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeCategoryRepo struct {
	byID   map[int]*models.Category
	nextID int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: map[int]*models.Category{}, nextID: 1}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *models.Category) error {
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	stored := *c
	f.byID[c.ID] = &stored
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id int) (*models.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCategoryRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range f.byID {
		if c.TournamentID == tournamentID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrCategoryNotFound
	}
	delete(f.byID, id)
	return nil
}

func newTournamentServiceForTest() (TournamentService, *fakeTournamentRepo, *fakeCategoryRepo) {
	tournaments := newFakeTournamentRepo()
	categories := newFakeCategoryRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTournamentService(tournaments, categories, nil, logger), tournaments, categories
}

func validCreateInput() CreateTournamentInput {
	start := time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC)
	return CreateTournamentInput{
		Name:      "Club Open",
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
	}
}

func TestTournamentCreate(t *testing.T) {
	svc, _, _ := newTournamentServiceForTest()

	tournament, err := svc.Create(context.Background(), 7, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, "Club Open", tournament.Name)
	assert.Equal(t, 7, tournament.OrganizerID)
	assert.Equal(t, models.TournamentStatusDraft, tournament.Status)
	assert.NotZero(t, tournament.ID)
}

func TestTournamentCreateRejects(t *testing.T) {
	svc, _, _ := newTournamentServiceForTest()

	input := validCreateInput()
	input.Name = "   "
	_, err := svc.Create(context.Background(), 7, input)
	assert.ErrorIs(t, err, ErrTournamentNameRequired)

	input = validCreateInput()
	input.EndDate = input.StartDate
	_, err = svc.Create(context.Background(), 7, input)
	assert.ErrorIs(t, err, ErrTournamentInvalidDateRange)

	_, err = svc.Create(context.Background(), 7, validCreateInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 7, validCreateInput())
	assert.ErrorIs(t, err, ErrTournamentNameConflict)
}

func TestTournamentChangeStatus(t *testing.T) {
	svc, _, _ := newTournamentServiceForTest()

	tournament, err := svc.Create(context.Background(), 7, validCreateInput())
	require.NoError(t, err)

	updated, err := svc.ChangeStatus(context.Background(), tournament.ID, models.TournamentStatusRegistration)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusRegistration, updated.Status)

	// skipping a lifecycle stage is rejected
	_, err = svc.ChangeStatus(context.Background(), tournament.ID, models.TournamentStatusCompleted)
	assert.ErrorIs(t, err, ErrTournamentInvalidStatusChange)

	updated, err = svc.ChangeStatus(context.Background(), tournament.ID, models.TournamentStatusActive)
	require.NoError(t, err)
	updated, err = svc.ChangeStatus(context.Background(), tournament.ID, models.TournamentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusCompleted, updated.Status)

	// completed is terminal
	_, err = svc.ChangeStatus(context.Background(), tournament.ID, models.TournamentStatusCanceled)
	assert.ErrorIs(t, err, ErrTournamentInvalidStatusChange)
}

func TestTournamentUpdate(t *testing.T) {
	svc, _, _ := newTournamentServiceForTest()

	tournament, err := svc.Create(context.Background(), 7, validCreateInput())
	require.NoError(t, err)

	name := "Autumn Open"
	club := "Padel Nord"
	updated, err := svc.Update(context.Background(), tournament.ID, UpdateTournamentInput{Name: &name, ClubName: &club})
	require.NoError(t, err)
	assert.Equal(t, "Autumn Open", updated.Name)
	require.NotNil(t, updated.ClubName)
	assert.Equal(t, "Padel Nord", *updated.ClubName)

	badEnd := tournament.StartDate
	_, err = svc.Update(context.Background(), tournament.ID, UpdateTournamentInput{EndDate: &badEnd})
	assert.ErrorIs(t, err, ErrTournamentInvalidDateRange)

	_, err = svc.Update(context.Background(), 999, UpdateTournamentInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTournamentUploadPosterWithoutStorage(t *testing.T) {
	svc, _, _ := newTournamentServiceForTest()

	tournament, err := svc.Create(context.Background(), 7, validCreateInput())
	require.NoError(t, err)

	_, err = svc.UploadPoster(context.Background(), tournament.ID, "poster.png", "image/png", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTournamentCategories(t *testing.T) {
	svc, _, _ := newTournamentServiceForTest()

	tournament, err := svc.Create(context.Background(), 7, validCreateInput())
	require.NoError(t, err)

	scoringJSON := `{"format":"express","total_sets":1,"max_points":8}`
	category, err := svc.AddCategory(context.Background(), tournament.ID, "Mixed open", &scoringJSON)
	require.NoError(t, err)
	assert.Equal(t, tournament.ID, category.TournamentID)

	_, err = svc.AddCategory(context.Background(), tournament.ID, "", nil)
	assert.ErrorIs(t, err, ErrTournamentCategoryNameRequired)

	bad := `{"format":"beach"}`
	_, err = svc.AddCategory(context.Background(), tournament.ID, "Men 3rd", &bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddCategory(context.Background(), 999, "Men 3rd", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	listed, err := svc.ListCategories(context.Background(), tournament.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Mixed open", listed[0].Name)

	require.NoError(t, svc.DeleteCategory(context.Background(), category.ID))
	err = svc.DeleteCategory(context.Background(), category.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
