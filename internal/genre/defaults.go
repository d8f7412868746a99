package genre

// QuizGenre is a genre offered by the preference quiz.
type QuizGenre struct {
	Name string `json:"name" doc:"Display name, submitted as-is in quiz preferences"`
	Slug string `json:"slug" doc:"Canonical slug used for catalog matching"`
}

// QuizGenres is the genre list presented to readers.
var QuizGenres = []QuizGenre{
	{Name: "Fiction", Slug: "fiction"},
	{Name: "Non-Fiction", Slug: "non-fiction"},
	{Name: "Mystery", Slug: "mystery"},
	{Name: "Thriller", Slug: "thriller"},
	{Name: "Romance", Slug: "romance"},
	{Name: "Science Fiction", Slug: "science-fiction"},
	{Name: "Fantasy", Slug: "fantasy"},
	{Name: "Biography", Slug: "biography"},
	{Name: "History", Slug: "history"},
	{Name: "Self-Help", Slug: "self-help"},
	{Name: "Literary Fiction", Slug: "literary-fiction"},
	{Name: "Horror", Slug: "horror"},
}
