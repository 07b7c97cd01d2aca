package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/envsync/internal/models"
)

// fixed width so that text ordering matches time ordering
const eventTimeLayout = "2006-01-02T15:04:05.000000000Z"

func (s *Store) AppendEvent(e models.AutomationEvent) error {
	_, err := s.db.Exec(`
		INSERT INTO automation_events (id, at, slot, rule, kind, target, actual, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.At.UTC().Format(eventTimeLayout), string(e.Slot), e.Rule, string(e.Kind),
		boolToInt(e.Target), boolToInt(e.Actual), e.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first. An empty slot matches every slot.
func (s *Store) RecentEvents(slot models.Slot, limit int) ([]models.AutomationEvent, error) {
	query := "SELECT id, at, slot, rule, kind, target, actual, detail FROM automation_events"
	var args []interface{}
	if slot != "" {
		query += " WHERE slot = ?"
		args = append(args, string(slot))
	}
	query += " ORDER BY at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.AutomationEvent
	for rows.Next() {
		var (
			e              models.AutomationEvent
			at, slot, kind string
			target, actual int
		)
		if err := rows.Scan(&e.ID, &at, &slot, &e.Rule, &kind, &target, &actual, &e.Detail); err != nil {
			return nil, err
		}
		ts, err := time.Parse(eventTimeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parsing event time %q: %w", at, err)
		}
		e.At = ts.Local()
		e.Slot = models.Slot(slot)
		e.Kind = models.EventKind(kind)
		e.Target = target != 0
		e.Actual = actual != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
