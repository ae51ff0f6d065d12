package model

import "time"

// CommitRecord is one parsed entry from the git log. It is immutable once
// parsed; Files preserves the order git emitted the touched paths in.
type CommitRecord struct {
	Commit      string
	Author      string
	AuthorEmail string
	Date        time.Time // Always carries an explicit offset (iso-strict).
	Subject     string
	Files       []string
}
