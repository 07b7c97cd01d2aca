package postgres

import (
	"fmt"

	"github.com/julianstephens/envsync/internal/models"
)

func (s *Store) AppendEvent(e models.AutomationEvent) error {
	_, err := s.db.Exec(`
		INSERT INTO automation_events (id, at, slot, rule, kind, target, actual, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.At, string(e.Slot), e.Rule, string(e.Kind), e.Target, e.Actual, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first. An empty slot matches every slot.
func (s *Store) RecentEvents(slot models.Slot, limit int) ([]models.AutomationEvent, error) {
	query := "SELECT id, at, slot, rule, kind, target, actual, detail FROM automation_events"
	args := []interface{}{limit}
	if slot != "" {
		query += " WHERE slot = $2"
		args = append(args, string(slot))
	}
	query += " ORDER BY at DESC LIMIT $1"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.AutomationEvent
	for rows.Next() {
		var (
			e          models.AutomationEvent
			slot, kind string
		)
		if err := rows.Scan(&e.ID, &e.At, &slot, &e.Rule, &kind, &e.Target, &e.Actual, &e.Detail); err != nil {
			return nil, err
		}
		e.Slot = models.Slot(slot)
		e.Kind = models.EventKind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}
