// Package schema has models and constants for all parts of gitstreak.
package schema

// ContributionDay is a single cell of a contribution calendar.
type ContributionDay struct {
	ContributionCount int    `json:"contributionCount"`
	Date              string `json:"date"` // ISO calendar date (YYYY-MM-DD)
}

// ContributionWeek groups the day cells of one calendar week.
type ContributionWeek struct {
	ContributionDays []ContributionDay `json:"contributionDays"`
}

// ContributionCalendar holds the weeks of a contribution calendar.
type ContributionCalendar struct {
	Weeks []ContributionWeek `json:"weeks"`
}

// ContributionsCollection is the contribution section of a user node.
type ContributionsCollection struct {
	ContributionYears    []int                 `json:"contributionYears,omitempty"`
	ContributionCalendar *ContributionCalendar `json:"contributionCalendar"`
}

// GraphUser is the user node returned by the contribution query.
type GraphUser struct {
	CreatedAt               string                   `json:"createdAt"`
	ContributionsCollection *ContributionsCollection `json:"contributionsCollection"`
}

// GraphData is the data envelope of a GraphQL response.
type GraphData struct {
	User *GraphUser `json:"user"`
}

// ActivityGraph is one contribution query response, usually covering a single
// calendar year. Every nested level is a pointer so that partial payloads
// can be represented and tolerated.
type ActivityGraph struct {
	Data *GraphData `json:"data"`
}

// Weeks returns the calendar weeks, or nil when any level of the payload is missing.
func (g ActivityGraph) Weeks() []ContributionWeek {
	if g.Data == nil || g.Data.User == nil {
		return nil
	}
	coll := g.Data.User.ContributionsCollection
	if coll == nil || coll.ContributionCalendar == nil {
		return nil
	}
	return coll.ContributionCalendar.Weeks
}

// CreatedAt returns the account creation timestamp carried by the payload.
func (g ActivityGraph) CreatedAt() string {
	if g.Data == nil || g.Data.User == nil {
		return ""
	}
	return g.Data.User.CreatedAt
}

// ContributionYears returns the years with contributions, newest first.
func (g ActivityGraph) ContributionYears() []int {
	if g.Data == nil || g.Data.User == nil || g.Data.User.ContributionsCollection == nil {
		return nil
	}
	return g.Data.User.ContributionsCollection.ContributionYears
}

// NewActivityGraph builds a well-formed graph from weeks of day cells.
func NewActivityGraph(createdAt string, weeks ...ContributionWeek) ActivityGraph {
	return ActivityGraph{
		Data: &GraphData{
			User: &GraphUser{
				CreatedAt: createdAt,
				ContributionsCollection: &ContributionsCollection{
					ContributionCalendar: &ContributionCalendar{Weeks: weeks},
				},
			},
		},
	}
}

// UserDetails is the public profile summary of a GitHub account.
type UserDetails struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
}

// DisplayName returns the name, falling back to the login.
func (u UserDetails) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}
