package storage

import (
	"fmt"
	"time"
)

// timeLayout is how visitor timestamps are stored: UTC, sortable, and
// comparable with SQLite's datetime().
const timeLayout = "2006-01-02 15:04:05"

// VisitorMetric is one tracked page view. The IP is hashed before it
// reaches storage.
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Country   string    `json:"country,omitempty"`
}

// VisitorStats summarises the visitors table relative to a reference time.
type VisitorStats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TopPaths         []PathCount     `json:"top_paths"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
}

type PathCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

func (s *Store) RecordVisit(hashedIP, userAgent, path string, at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)`,
		hashedIP, userAgent, path, at.UTC().Format(timeLayout))
	return err
}

// VisitorStats computes dashboard figures as of now.
func (s *Store) VisitorStats(now time.Time) (*VisitorStats, error) {
	stats := &VisitorStats{}
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if err := s.db.QueryRow("SELECT COUNT(*) FROM visitors").Scan(&stats.TotalVisitors); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow("SELECT COUNT(DISTINCT hashed_ip) FROM visitors").Scan(&stats.UniqueVisitors); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM visitors WHERE timestamp >= ?",
		startOfDay.Format(timeLayout)).Scan(&stats.VisitorsToday); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM visitors WHERE timestamp >= ?",
		now.AddDate(0, 0, -7).Format(timeLayout)).Scan(&stats.VisitorsThisWeek); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path ASC
		LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Views); err != nil {
			continue
		}
		stats.TopPaths = append(stats.TopPaths, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recent, err := s.RecentVisitors(50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent
	return stats, nil
}

// RecentVisitors returns up to limit visits, newest first.
func (s *Store) RecentVisitors(limit int) ([]VisitorMetric, error) {
	rows, err := s.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp, COALESCE(country, '')
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts, &v.Country); err != nil {
			return nil, err
		}
		v.Timestamp, err = time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("visitor %d: %w", v.ID, err)
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// CleanupVisitors deletes visits older than retention and reports how many
// rows went.
func (s *Store) CleanupVisitors(now time.Time, retention time.Duration) (int64, error) {
	cutoff := now.UTC().Add(-retention).Format(timeLayout)
	result, err := s.db.Exec("DELETE FROM visitors WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
