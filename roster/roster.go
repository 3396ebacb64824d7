/*
Package roster converts raw rostered shift entries into domain users.

PURPOSE:
  A roster source (schedule export, upstream API, fixture file) supplies
  flat shift tuples grouped or groupable by user. This package does the
  grouping: one oncall.User per distinct user id, owning that user's
  shifts as validated periods, in first-seen order.

VALIDATION:
  Every entry goes through oncall.NewPeriod, so malformed bounds and
  unknown zones are rejected here, before any calculation runs. Entries
  without a zone take the caller-supplied default; an empty default means
  zoneless entries fail.

SEE ALSO:
  - oncall: Period and User construction
  - api: Uses this package at the request boundary
*/
package roster

import (
	"fmt"
	"time"

	"github.com/eakan-codes/caloohpay-web/oncall"
)

// Entry is one raw shift tuple from a roster source.
type Entry struct {
	UserID    string
	UserName  string
	UserEmail string
	Start     time.Time
	End       time.Time
	Timezone  string
}

// BuildUsers groups entries by user id, preserving the order in which
// users first appear and the order of each user's entries. defaultZone
// applies to entries without their own zone.
func BuildUsers(entries []Entry, defaultZone string) ([]*oncall.User, error) {
	type draft struct {
		name    string
		email   string
		periods []*oncall.Period
	}
	var order []string
	drafts := make(map[string]*draft)

	for i, e := range entries {
		zone := e.Timezone
		if zone == "" {
			zone = defaultZone
		}

		period, err := oncall.NewPeriod(e.Start, e.End, zone)
		if err != nil {
			return nil, fmt.Errorf("entry %d (user %s): %w", i, e.UserID, err)
		}

		if d, ok := drafts[e.UserID]; ok {
			d.periods = append(d.periods, period)
		} else {
			drafts[e.UserID] = &draft{name: e.UserName, email: e.UserEmail, periods: []*oncall.Period{period}}
			order = append(order, e.UserID)
		}
	}

	users := make([]*oncall.User, 0, len(order))
	for _, id := range order {
		d := drafts[id]
		users = append(users, oncall.NewUser(id, d.name, d.email, d.periods))
	}
	return users, nil
}
