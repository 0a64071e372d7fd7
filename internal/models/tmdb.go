package models

// TMDBFindResult is a single match of the /find endpoint
type TMDBFindResult struct {
	ID int64 `json:"id"`
}

// TMDBFindResponse is the body of /find/{external_id}
type TMDBFindResponse struct {
	MovieResults []TMDBFindResult `json:"movie_results"`
	TVResults    []TMDBFindResult `json:"tv_results"`
}

// TMDBListItem is an entry of /discover and /search result pages.
// Movies carry Title and ReleaseDate, series carry Name and FirstAirDate.
type TMDBListItem struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

// TMDBPage is a paginated list response
type TMDBPage struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []TMDBListItem `json:"results"`
}

// TMDBGenre is a named genre
type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TMDBMovie is the body of /movie/{id}
type TMDBMovie struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	PosterPath   string      `json:"poster_path"`
	BackdropPath string      `json:"backdrop_path"`
	Overview     string      `json:"overview"`
	ReleaseDate  string      `json:"release_date"`
	VoteAverage  float64     `json:"vote_average"`
	Genres       []TMDBGenre `json:"genres"`
}

// TMDBSeasonSummary is a season listed on /tv/{id}
type TMDBSeasonSummary struct {
	SeasonNumber int `json:"season_number"`
	EpisodeCount int `json:"episode_count"`
}

// TMDBExternalIDs holds the ids TMDB knows for a title on other services
type TMDBExternalIDs struct {
	IMDBID string `json:"imdb_id"`
	TVDBID int    `json:"tvdb_id"`
}

// TMDBSeries is the body of /tv/{id}
type TMDBSeries struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	PosterPath   string              `json:"poster_path"`
	BackdropPath string              `json:"backdrop_path"`
	Overview     string              `json:"overview"`
	FirstAirDate string              `json:"first_air_date"`
	VoteAverage  float64             `json:"vote_average"`
	Genres       []TMDBGenre         `json:"genres"`
	Seasons      []TMDBSeasonSummary `json:"seasons"`
	ExternalIDs  TMDBExternalIDs     `json:"external_ids"`
}

// TMDBEpisode is an episode listed on /tv/{id}/season/{n}
type TMDBEpisode struct {
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
	AirDate       string `json:"air_date"`
	Overview      string `json:"overview"`
	StillPath     string `json:"still_path"`
}

// TMDBSeason is the body of /tv/{id}/season/{n}
type TMDBSeason struct {
	SeasonNumber int           `json:"season_number"`
	Episodes     []TMDBEpisode `json:"episodes"`
}
