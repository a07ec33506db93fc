package history

import "time"

const (
	activityDays  = 7
	recentLimit   = 10
	recentDateFmt = "Jan 2, 03:04 PM"
)

type Stats struct {
	TotalGenerated int `json:"totalGenerated"`
	TotalSent      int `json:"totalSent"`
	Streak         int `json:"streak"`
}

// ActivityPoint counts one calendar day: entries created and, of those, delivered.
type ActivityPoint struct {
	Name         string `json:"name"`
	Resumes      int    `json:"resumes"`
	Applications int    `json:"applications"`
}

type RecentItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Date    string `json:"date"`
	Status  Status `json:"status"`
}

type Dashboard struct {
	Stats         Stats           `json:"stats"`
	ActivityData  []ActivityPoint `json:"activityData"`
	RecentHistory []RecentItem    `json:"recentHistory"`
}

type day struct {
	y int
	m time.Month
	d int
}

func dayOf(t time.Time, loc *time.Location) day {
	y, m, d := t.In(loc).Date()
	return day{y, m, d}
}

// Summarize derives dashboard figures from entries ordered newest first.
// Calendar days are taken in now's location.
//
// Streak is the number of distinct days with at least one entry, not a run of
// consecutive days.
func Summarize(entries []Entry, now time.Time) Dashboard {
	loc := now.Location()

	stats := Stats{TotalGenerated: len(entries)}
	days := make(map[day]struct{})
	for _, e := range entries {
		if e.Status == StatusSuccess {
			stats.TotalSent++
		}
		days[dayOf(e.CreatedAt, loc)] = struct{}{}
	}
	stats.Streak = len(days)

	activity := make([]ActivityPoint, activityDays)
	index := make(map[day]int, activityDays)
	y, m, d := now.Date()
	for i := 0; i < activityDays; i++ {
		offset := activityDays - 1 - i
		bucket := time.Date(y, m, d-offset, 12, 0, 0, 0, loc)
		activity[i] = ActivityPoint{Name: bucket.Weekday().String()[:3]}
		index[dayOf(bucket, loc)] = i
	}
	for _, e := range entries {
		i, ok := index[dayOf(e.CreatedAt, loc)]
		if !ok {
			continue
		}
		activity[i].Resumes++
		if e.Status == StatusSuccess {
			activity[i].Applications++
		}
	}

	n := len(entries)
	if n > recentLimit {
		n = recentLimit
	}
	recent := make([]RecentItem, 0, n)
	for _, e := range entries[:n] {
		title := e.JobTitle
		if title == "" {
			title = PlaceholderTitle
		}
		company := e.Company
		if company == "" {
			company = PlaceholderCompany
		}
		recent = append(recent, RecentItem{
			ID:      e.ID,
			Title:   title,
			Company: company,
			Date:    e.CreatedAt.In(loc).Format(recentDateFmt),
			Status:  e.Status,
		})
	}

	return Dashboard{
		Stats:         stats,
		ActivityData:  activity,
		RecentHistory: recent,
	}
}
