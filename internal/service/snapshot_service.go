package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/classpad/classpad/internal/notify"
	"github.com/classpad/classpad/internal/store"
)

// SnapshotService builds the recent-activity digest that gets DM'd to
// teachers after anything notable happens.
type SnapshotService interface {
	BuildSnapshotText() (string, error)
	// SendTeacherSnapshot delivers the digest; failures are logged and
	// swallowed so callers never fail a committed operation over it.
	SendTeacherSnapshot(teacherTgID int64)
}

type snapshotService struct {
	store    *store.Store
	notifier notify.Notifier
	now      func() time.Time
}

func NewSnapshotService(s *store.Store, notifier notify.Notifier, now func() time.Time) SnapshotService {
	return &snapshotService{store: s, notifier: notifier, now: now}
}

func (s *snapshotService) BuildSnapshotText() (string, error) {
	doc, err := s.store.Read()
	if err != nil {
		return "", err
	}

	latest := make([]string, 0, len(doc.Assignments))
	for id := range doc.Assignments {
		latest = append(latest, id)
	}
	sort.Slice(latest, func(i, j int) bool {
		return doc.Assignments[latest[i]].CreatedAt > doc.Assignments[latest[j]].CreatedAt
	})
	if len(latest) > 5 {
		latest = latest[:5]
	}

	lines := []string{
		fmt.Sprintf("🔔 LMS Snapshot — %s", s.now().UTC().Format("2006-01-02 15:04 UTC")),
		fmt.Sprintf("Classes: %d | Assignments: %d", len(doc.Classes), len(doc.Assignments)),
	}
	for _, id := range latest {
		a := doc.Assignments[id]
		due := "-"
		if a.DueAt != nil && *a.DueAt != "" {
			due = *a.DueAt
		}
		lines = append(lines, fmt.Sprintf("- %s: %s (class %s) due:%s", a.AssignmentID, a.Title, a.ClassID, due))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *snapshotService) SendTeacherSnapshot(teacherTgID int64) {
	text, err := s.BuildSnapshotText()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build snapshot")
		return
	}
	if err := s.notifier.SendSnapshot(teacherTgID, text); err != nil {
		log.Warn().Err(err).Int64("teacher", teacherTgID).Msg("Snapshot send failed")
	}
}
