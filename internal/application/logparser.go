package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/wikireview/internal/domain/model"
)

// commitSentinel introduces each record in the gateway's log output. The
// sentinel is followed by exactly five metadata lines (hash, author name,
// author email, iso-strict timestamp, subject) and then the touched file list.
const commitSentinel = "==COMMIT=="

// ParseLog turns raw sentinel-delimited git log output into an ordered
// sequence of CommitRecord, one per sentinel block, newest first.
//
// Blank lines inside a file list are skipped. A truncated trailing record
// (fewer than five metadata lines after the last sentinel) is discarded. An
// unparseable timestamp is a fatal error: the gateway controls the date format,
// so a parse failure means the log query itself is broken.
func ParseLog(raw string) ([]model.CommitRecord, error) {
	var records []model.CommitRecord

	lines := strings.Split(raw, "\n")
	i := 0
	for i < len(lines) {
		if strings.TrimRight(lines[i], "\r") != commitSentinel {
			i++
			continue
		}
		if i+5 >= len(lines) {
			break
		}

		rec := model.CommitRecord{
			Commit:      strings.TrimSpace(lines[i+1]),
			Author:      strings.TrimSpace(lines[i+2]),
			AuthorEmail: strings.TrimSpace(lines[i+3]),
			Subject:     strings.TrimSpace(lines[i+5]),
		}

		dateStr := strings.TrimSpace(lines[i+4])
		date, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse commit %s date %q: %w", rec.Commit, dateStr, err)
		}
		rec.Date = date

		i += 6
		for i < len(lines) && strings.TrimRight(lines[i], "\r") != commitSentinel {
			if path := strings.TrimSpace(lines[i]); path != "" {
				rec.Files = append(rec.Files, path)
			}
			i++
		}

		records = append(records, rec)
	}

	return records, nil
}
