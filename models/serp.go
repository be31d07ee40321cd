package models

// SerpResultRow is one organic result row from the SERP provider,
// rank-ordered, at most ten per query.
type SerpResultRow struct {
	URL                      string  `json:"url"`
	Title                    string  `json:"title"`
	Description              string  `json:"description"`
	Position                 int     `json:"position"`
	Domain                   string  `json:"domain"`
	LinksCount               int     `json:"links_count"`
	EstimatedPaidTrafficCost float64 `json:"estimated_paid_traffic_cost"`
	ETV                      float64 `json:"etv"`
}
