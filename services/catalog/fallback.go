package catalog

import (
	"sort"

	"marquee/models"
)

const (
	placeholderThumb    = "https://images.pexels.com/photos/1200450/pexels-photo-1200450.jpeg?auto=compress&cs=tinysrgb&w=400"
	placeholderBackdrop = "https://images.pexels.com/photos/1200450/pexels-photo-1200450.jpeg?auto=compress&cs=tinysrgb&w=1200"
)

// FallbackItem is served when nothing better is available.
func FallbackItem() models.ContentItem {
	return models.ContentItem{
		ID:             1,
		Title:          "Featured Movie",
		Description:    "An amazing movie experience awaits you.",
		Thumbnail:      placeholderThumb,
		Backdrop:       placeholderBackdrop,
		Genre:          []string{models.DefaultGenre},
		Rating:         8.5,
		Year:           2023,
		Duration:       "120m",
		Type:           models.ContentTypeMovie,
		Featured:       true,
		MaturityRating: "PG-13",
		Cast:           []string{},
	}
}

func fallbackMovie(id int64, title, description string, genre []string, rating float64, year int, duration, maturity, director string, cast ...string) models.ContentItem {
	return models.ContentItem{
		ID:             id,
		Title:          title,
		Description:    description,
		Thumbnail:      placeholderThumb,
		Backdrop:       placeholderBackdrop,
		Genre:          genre,
		Rating:         rating,
		Year:           year,
		Duration:       duration,
		Type:           models.ContentTypeMovie,
		Featured:       rating > 7.5,
		MaturityRating: maturity,
		Cast:           cast,
		Director:       director,
	}
}

func fallbackSeries(id int64, title, description string, genre []string, rating float64, year int, duration, maturity, director string, cast ...string) models.ContentItem {
	item := fallbackMovie(models.ContentID(models.ContentTypeSeries, id), title, description, genre, rating, year, duration, maturity, director, cast...)
	item.Type = models.ContentTypeSeries
	return item
}

// FallbackItems returns the built-in titles. Each call returns fresh copies.
func FallbackItems() []models.ContentItem {
	return []models.ContentItem{
		fallbackMovie(155, "The Dark Knight",
			"Batman raises the stakes in his war on crime, facing a criminal mastermind known as the Joker.",
			[]string{"Action", "Crime", "Drama"}, 8.5, 2008, "2h 32m", "PG-13", "Christopher Nolan",
			"Christian Bale", "Heath Ledger", "Aaron Eckhart"),
		fallbackMovie(27205, "Inception",
			"A thief who steals corporate secrets through dream-sharing technology is given one last job.",
			[]string{"Action", "Science Fiction", "Thriller"}, 8.4, 2010, "2h 28m", "PG-13", "Christopher Nolan",
			"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page"),
		fallbackMovie(157336, "Interstellar",
			"A team of explorers travels through a wormhole in space to ensure humanity's survival.",
			[]string{"Adventure", "Drama", "Science Fiction"}, 8.4, 2014, "2h 49m", "PG-13", "Christopher Nolan",
			"Matthew McConaughey", "Anne Hathaway", "Jessica Chastain"),
		fallbackMovie(278, "The Shawshank Redemption",
			"Two imprisoned men bond over a number of years, finding solace and eventual redemption.",
			[]string{"Drama", "Crime"}, 8.7, 1994, "2h 22m", "R", "Frank Darabont",
			"Tim Robbins", "Morgan Freeman"),
		fallbackMovie(680, "Pulp Fiction",
			"The lives of two mob hitmen, a boxer and a pair of diner bandits intertwine.",
			[]string{"Thriller", "Crime"}, 8.5, 1994, "2h 34m", "R", "Quentin Tarantino",
			"John Travolta", "Samuel L. Jackson", "Uma Thurman"),
		fallbackMovie(603, "The Matrix",
			"A computer hacker learns about the true nature of reality and his role in the war against its controllers.",
			[]string{"Action", "Science Fiction"}, 8.2, 1999, "2h 16m", "R", "Lana Wachowski, Lilly Wachowski",
			"Keanu Reeves", "Laurence Fishburne", "Carrie-Anne Moss"),
		fallbackSeries(66732, "Stranger Things",
			"When a young boy vanishes, a small town uncovers a mystery involving secret experiments and supernatural forces.",
			[]string{"Drama", "Science Fiction", "Horror"}, 8.6, 2016, "4 Seasons", "TV-14", "Matt Duffer, Ross Duffer",
			"Millie Bobby Brown", "Winona Ryder", "David Harbour"),
		fallbackSeries(1396, "Breaking Bad",
			"A chemistry teacher diagnosed with cancer turns to manufacturing methamphetamine to secure his family's future.",
			[]string{"Drama", "Crime", "Thriller"}, 8.9, 2008, "5 Seasons", "TV-MA", "Vince Gilligan",
			"Bryan Cranston", "Aaron Paul", "Anna Gunn"),
	}
}

// FallbackCategories wraps the built-in titles as rows. Only items of the
// given types are included; no types means all of them.
func FallbackCategories(types ...models.ContentType) []models.Category {
	items := filterTypes(FallbackItems(), types)

	topRated := make([]models.ContentItem, len(items))
	for i, item := range items {
		topRated[i] = item.Clone()
	}
	sort.SliceStable(topRated, func(i, j int) bool { return topRated[i].Rating > topRated[j].Rating })

	return []models.Category{
		{ID: "trending", Name: "Trending Now", Content: items},
		{ID: "top-rated", Name: "Top Rated", Content: topRated},
	}
}

func filterTypes(items []models.ContentItem, types []models.ContentType) []models.ContentItem {
	if len(types) == 0 {
		return items
	}
	out := items[:0]
	for _, item := range items {
		for _, t := range types {
			if item.Type == t {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
