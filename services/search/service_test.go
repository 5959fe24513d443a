package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marquee/models"
	"marquee/services/metadata"
)

type fakeRemote struct {
	configured bool
	movies     []metadata.MovieResult
	series     []metadata.SeriesResult
	err        error
	calls      atomic.Int32
}

func (f *fakeRemote) IsConfigured() bool { return f.configured }

func (f *fakeRemote) SearchMovies(context.Context, string) ([]metadata.MovieResult, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.movies, nil
}

func (f *fakeRemote) SearchSeries(context.Context, string) ([]metadata.SeriesResult, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

type localItems []models.ContentItem

func (l localItems) Items() []models.ContentItem { return append([]models.ContentItem(nil), l...) }

func TestSearchEmptyQueryMakesNoCalls(t *testing.T) {
	remote := &fakeRemote{configured: true}
	svc := NewService(remote, nil, nil, Options{})

	for _, q := range []string{"", "   ", "\t\n"} {
		results := svc.Search(context.Background(), q)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
	assert.Zero(t, remote.calls.Load())
}

func TestSearchFindsFallbackTitleWhenRemoteFails(t *testing.T) {
	remote := &fakeRemote{configured: true, err: errors.New("connection refused")}
	svc := NewService(remote, nil, nil, Options{})

	results := svc.Search(context.Background(), "dark knight")

	require.NotEmpty(t, results)
	assert.Equal(t, "The Dark Knight", results[0].Title)
}

func TestSearchUnionsRemoteAndLocal(t *testing.T) {
	remote := &fakeRemote{
		configured: true,
		movies:     []metadata.MovieResult{{ID: 155, Title: "The Dark Knight", VoteAverage: 8.5}},
		series:     []metadata.SeriesResult{{ID: 1, Name: "Knightfall"}},
	}
	local := localItems{{ID: 9, Title: "A Knight's Tale", Genre: []string{"Adventure"}}}
	svc := NewService(remote, nil, local, Options{})

	results := svc.Search(context.Background(), "knight")

	titles := make([]string, len(results))
	for i, r := range results {
		titles[i] = r.Title
	}
	assert.Equal(t, "The Dark Knight", titles[0])
	assert.Equal(t, "Knightfall", titles[1])
	assert.Contains(t, titles, "A Knight's Tale")

	count := 0
	for _, title := range titles {
		if title == "The Dark Knight" {
			count++
		}
	}
	assert.Equal(t, 1, count, "remote and built-in copies are deduplicated")
}

func TestSearchMatchesDescriptionAndGenre(t *testing.T) {
	local := localItems{
		{ID: 1, Title: "Alpha", Description: "A heist in Paris", Genre: []string{"Crime"}},
		{ID: 2, Title: "Beta", Description: "Nothing here", Genre: []string{"Comédie"}},
	}
	svc := NewService(nil, nil, local, Options{})

	heist := svc.Search(context.Background(), "HEIST")
	require.NotEmpty(t, heist)
	assert.Equal(t, "Alpha", heist[0].Title)

	comedy := svc.Search(context.Background(), "comedie")
	require.NotEmpty(t, comedy)
	assert.Equal(t, "Beta", comedy[0].Title)
}

func TestSearchCapsResults(t *testing.T) {
	var movies []metadata.MovieResult
	for i := 0; i < 40; i++ {
		movies = append(movies, metadata.MovieResult{ID: int64(i + 1), Title: fmt.Sprintf("Match %d", i)})
	}
	svc := NewService(&fakeRemote{configured: true, movies: movies}, nil, nil, Options{})

	results := svc.Search(context.Background(), "match")
	assert.Len(t, results, 20)
}

func TestSearchUnconfiguredRemoteIsSkipped(t *testing.T) {
	remote := &fakeRemote{configured: false}
	svc := NewService(remote, nil, nil, Options{})

	results := svc.Search(context.Background(), "matrix")
	require.NotEmpty(t, results)
	assert.Equal(t, "The Matrix", results[0].Title)
	assert.Zero(t, remote.calls.Load())
}

func TestSearchRanksLocalMatchesByTitle(t *testing.T) {
	local := localItems{
		{ID: 1, Title: "Heat Wave Diaries", Description: "x"},
		{ID: 2, Title: "Other", Description: "about heat"},
		{ID: 3, Title: "Heat", Description: "x"},
	}
	svc := NewService(nil, nil, local, Options{})

	results := svc.Search(context.Background(), "heat")
	require.Len(t, results, 3)
	assert.Equal(t, "Heat", results[0].Title)
	assert.Equal(t, "Heat Wave Diaries", results[1].Title)
	assert.Equal(t, "Other", results[2].Title)
}

func TestMatches(t *testing.T) {
	item := models.ContentItem{Title: "Amélie", Description: "Whimsical Paris", Genre: []string{"Romance"}}
	assert.True(t, Matches(item, "amelie"))
	assert.True(t, Matches(item, "paris"))
	assert.True(t, Matches(item, "ROMANCE"))
	assert.False(t, Matches(item, "horror"))
}
