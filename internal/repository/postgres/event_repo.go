package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"warriorhub/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `
	e.id, e.name, e.description, e.location, e.date_time, e.image_url,
	e.created_by_id, COALESCE(u.organization, ''), e.created_at, e.updated_at`

// invalidTextRep reports a Postgres 22P02 (invalid text representation),
// raised when a malformed id is compared against a uuid column. Callers
// treat it as not-found: a string that cannot be a uuid names no event.
func invalidTextRep(err error) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == "22P02"
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &descNull, &e.Location, &e.DateTime, &e.ImageURL,
		&e.CreatedByID, &e.Organization, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	e.DateTime = e.DateTime.UTC()
	return e, nil
}

// checkCategoryIDs verifies every requested id exists in the catalog. Run
// inside the same transaction as the write so a bad id aborts it wholesale.
func checkCategoryIDs(ctx context.Context, tx *sql.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := tx.QueryContext(ctx, `SELECT id FROM categories WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	found := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return &domain.InvalidCategoryError{CategoryID: id}
		}
	}
	return nil
}

// replaceEventCategories reconciles event_categories to exactly ids: rows not
// requested are removed, new ones added, unchanged ones left alone.
func replaceEventCategories(ctx context.Context, tx *sql.Tx, eventID string, ids []int64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM event_categories WHERE event_id = $1 AND NOT (category_id = ANY($2))`,
		eventID, pq.Array(ids)); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_categories (event_id, category_id) VALUES ($1, $2) ON CONFLICT (event_id, category_id) DO NOTHING`,
			eventID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event, categoryIDs []int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkCategoryIDs(ctx, tx, categoryIDs); err != nil {
		return err
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (id, name, description, location, date_time, image_url, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.Name, e.Description, e.Location, e.DateTime, e.ImageURL, e.CreatedByID, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return err
	}

	if err := replaceEventCategories(ctx, tx, e.ID, categoryIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	created, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events e
		JOIN users u ON u.id = e.created_by_id
		WHERE e.id = $1
	`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || invalidTextRep(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.attachCategories(ctx, []*domain.Event{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	n := 1

	add := func(clause string, value interface{}) {
		where = append(where, fmt.Sprintf(clause, n))
		args = append(args, value)
		n++
	}

	if filter.FutureOnly {
		now := filter.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		add("e.date_time >= $%d", now)
	}
	if filter.OwnerID != 0 {
		add("e.created_by_id = $%d", filter.OwnerID)
	}
	if filter.InterestedUserID != 0 {
		add("EXISTS (SELECT 1 FROM event_interests i WHERE i.event_id = e.id AND i.user_id = $%d)", filter.InterestedUserID)
	}
	if filter.Name != "" {
		add("e.name ILIKE '%%' || $%d || '%%'", filter.Name)
	}
	if filter.Location != "" {
		add("e.location ILIKE '%%' || $%d || '%%'", filter.Location)
	}
	if filter.Organization != "" {
		add("u.organization ILIKE '%%' || $%d || '%%'", filter.Organization)
	}
	if filter.CategoryID != 0 {
		add("EXISTS (SELECT 1 FROM event_categories ec WHERE ec.event_id = e.id AND ec.category_id = $%d)", filter.CategoryID)
	}
	if filter.From != nil {
		add("e.date_time >= $%d", filter.From.UTC())
	}
	if filter.To != nil {
		add("e.date_time < $%d", filter.To.UTC())
	}
	if filter.OnCivilDay != nil {
		dayStart := filter.OnCivilDay.In(domain.HST)
		dayStart = time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), 0, 0, 0, 0, domain.HST)
		add("e.date_time >= $%d", dayStart.UTC())
		add("e.date_time < $%d", dayStart.AddDate(0, 0, 1).UTC())
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users u ON u.id = e.created_by_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY e.date_time ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, fields domain.EventFields, categoryIDs []int64) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := checkCategoryIDs(ctx, tx, categoryIDs); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE events
		SET name = $2, description = $3, location = $4, date_time = $5, image_url = $6, updated_at = NOW()
		WHERE id = $1
	`, id, fields.Name, fields.Description, fields.Location, fields.DateTime, fields.ImageURL)
	if err != nil {
		if invalidTextRep(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, domain.ErrNotFound
	}

	if err := replaceEventCategories(ctx, tx, id, categoryIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if invalidTextRep(err) {
			return domain.ErrNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// attachCategories loads the category sets for the given events in one query.
func (r *eventRepository) attachCategories(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, 0, len(events))
	byID := make(map[string]*domain.Event, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
		byID[e.ID] = e
		e.Categories = []*domain.Category{}
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT ec.event_id, c.id, c.name, COALESCE(c.description, '')
		FROM event_categories ec
		JOIN categories c ON c.id = ec.category_id
		WHERE ec.event_id = ANY($1)
		ORDER BY c.name
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		c := &domain.Category{}
		if err := rows.Scan(&eventID, &c.ID, &c.Name, &c.Description); err != nil {
			return err
		}
		if e, ok := byID[eventID]; ok {
			e.Categories = append(e.Categories, c)
		}
	}
	return rows.Err()
}
