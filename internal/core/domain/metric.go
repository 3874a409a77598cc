package domain

import "time"

// MetricPoint is one scraped snapshot of an account's headline counters.
type MetricPoint struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	AccountID  string    `json:"account_id" bson:"account_id"`
	Handle     string    `json:"handle" bson:"handle"`
	CapturedAt time.Time `json:"captured_at" bson:"captured_at"`
	Followers  int64     `json:"followers" bson:"followers"`
	Posts      int64     `json:"posts" bson:"posts"`
	Following  int64     `json:"following" bson:"following"`
	Views      int64     `json:"views" bson:"views"`
}

// Post is a single published piece of content with its engagement counters.
type Post struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	AccountID      string    `json:"account_id" bson:"account_id"`
	Handle         string    `json:"handle" bson:"handle"`
	PublishedAt    time.Time `json:"published_at" bson:"published_at"`
	Content        string    `json:"content" bson:"content"`
	Likes          int64     `json:"likes" bson:"likes"`
	Retweets       int64     `json:"retweets" bson:"retweets"`
	Views          int64     `json:"views" bson:"views"`
	EngagementRate float64   `json:"engagement_rate" bson:"engagement_rate"`
}

// Engagement returns the post's engagement rate, computing it from the raw
// counters when the scraper did not provide one.
func (p Post) Engagement() float64 {
	if p.EngagementRate > 0 {
		return p.EngagementRate
	}
	if p.Views == 0 {
		return 0
	}
	return float64(p.Likes+p.Retweets) / float64(p.Views)
}
