package model

// ArticleRecord is an article whose publish date equals the run's target date.
type ArticleRecord struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    Date   `json:"date"`
	Link    string `json:"link"`
}
