package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
)

const (
	appointmentsTable = "appointments"
	statusLookupTable = "appointment_statuses"
)

var (
	errNoStatusColumn         = errors.New("appointments has no writable status column")
	errIncompleteStatusLookup = errors.New("appointment_statuses lacks a row for a canonical status")
)

// Lookup columns that may name a status, most specific first.
var lookupLabelColumns = []string{"code", "name", "display_name", "title", "label"}

// Statuses the allocator writes. A lookup-backed layout needs a row for each.
var writableStatuses = []domain.Status{
	domain.StatusPendingConfirmation,
	domain.StatusConfirmed,
	domain.StatusCancelled,
	domain.StatusCompleted,
}

// lookupRow is one appointment_statuses row: its id and its label values in
// lookupLabelColumns order, empty when the column is absent or NULL.
type lookupRow struct {
	ID     int64
	Labels []string
}

// statusLayout describes where an appointments table keeps its status. It
// is built once per repository; queries only read from it.
type statusLayout struct {
	columns map[string]bool

	// readExpr yields the raw status text of alias "a".
	readExpr string
	join     string

	writeColumn string
	// writeViaLookup stores lookup ids in status_id.
	writeViaLookup bool

	statusIDs  map[domain.Status]int64
	idStatuses map[int64]domain.Status
}

func (l statusLayout) has(column string) bool {
	return l.columns[column]
}

// writeValue returns the value assigned to writeColumn for a status.
func (l statusLayout) writeValue(status domain.Status) any {
	if l.writeViaLookup {
		return l.statusIDs[status]
	}
	return string(status)
}

// statusOf maps a scanned row to the canonical set. A bound lookup id wins
// over the display text.
func (l statusLayout) statusOf(raw string, ref *int64) domain.Status {
	if l.writeViaLookup && ref != nil {
		if s, ok := l.idStatuses[*ref]; ok {
			return s
		}
	}
	return domain.Normalize(raw)
}

// refSelect adds the lookup id to appointment reads when it is bound.
func (l statusLayout) refSelect() string {
	if l.writeViaLookup {
		return ", a.status_id AS status_ref"
	}
	return ""
}

func (l statusLayout) idsOf(status domain.Status) []int64 {
	ids := []int64{}
	for id, s := range l.idStatuses {
		if s == status {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (l statusLayout) joinScope(db *gorm.DB) *gorm.DB {
	if l.join == "" {
		return db
	}
	return db.Joins(l.join)
}

// noLiveAppointment drops slots of schedule_slots AS s that still carry a
// non-cancelled appointment. Unknown statuses count as live.
func (l statusLayout) noLiveAppointment(db *gorm.DB) *gorm.DB {
	live := fmt.Sprintf("LOWER(TRIM(%s)) NOT IN ?", l.readExpr)
	args := []any{domain.Aliases(domain.StatusCancelled)}

	if l.writeViaLookup {
		live = fmt.Sprintf("%s AND (a.status_id IS NULL OR a.status_id NOT IN ?)", live)
		args = append(args, l.idsOf(domain.StatusCancelled))
	}

	return db.Where(fmt.Sprintf(
		"NOT EXISTS (SELECT 1 FROM %s a %s WHERE a.slot_id = s.id AND %s)",
		appointmentsTable, l.join, live,
	), args...)
}

// buildStatusLayout derives the layout from the columns of appointments, the
// columns of the optional lookup table and its rows. Column names must be
// lower case.
func buildStatusLayout(appointmentCols, lookupCols []string, rows []lookupRow) (statusLayout, error) {
	cols := toSet(appointmentCols)
	lookup := toSet(lookupCols)

	l := statusLayout{columns: cols}

	switch {
	case len(lookup) > 0 && cols["status_id"] && lookup["id"]:
		l.join = fmt.Sprintf("LEFT JOIN %s st ON st.id = a.status_id", statusLookupTable)
	case len(lookup) > 0 && cols["status_code"] && lookup["code"]:
		l.join = fmt.Sprintf("LEFT JOIN %s st ON st.code = a.status_code", statusLookupTable)
	}

	var parts []string
	if l.join != "" {
		for _, c := range []string{"display_name", "name", "title", "label", "code"} {
			if lookup[c] {
				parts = append(parts, "st."+c)
			}
		}
	}
	for _, c := range []string{"status", "status_text", "status_code"} {
		if cols[c] {
			parts = append(parts, "a."+c)
		}
	}
	if cols["status_id"] {
		parts = append(parts, "a.status_id")
	}

	switch {
	case cols["status"]:
		l.writeColumn = "status"
	case cols["status_text"]:
		l.writeColumn = "status_text"
	case cols["status_id"] && strings.Contains(l.join, "a.status_id"):
		l.writeColumn = "status_id"
		l.writeViaLookup = true
		if err := l.bindLookup(rows); err != nil {
			return statusLayout{}, err
		}
	default:
		return statusLayout{}, errNoStatusColumn
	}

	// A text write target is read first so a fresh write always wins.
	if !l.writeViaLookup {
		parts = moveToFront(parts, "a."+l.writeColumn)
	}

	casted := make([]string, 0, len(parts))
	for _, p := range parts {
		casted = append(casted, fmt.Sprintf("CAST(%s AS TEXT)", p))
	}
	casted = append(casted, "''")
	l.readExpr = fmt.Sprintf("COALESCE(%s)", strings.Join(casted, ", "))

	return l, nil
}

// bindLookup maps lookup rows to canonical statuses through the synonym
// table. The lowest id wins a write binding; every matching id reads back.
func (l *statusLayout) bindLookup(rows []lookupRow) error {
	l.statusIDs = map[domain.Status]int64{}
	l.idStatuses = map[int64]domain.Status{}

	sorted := append([]lookupRow(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, row := range sorted {
		for _, label := range row.Labels {
			s := domain.Normalize(label)
			if s == domain.StatusUnknown {
				continue
			}
			l.idStatuses[row.ID] = s
			if _, taken := l.statusIDs[s]; !taken {
				l.statusIDs[s] = row.ID
			}
			break
		}
	}

	var missing []string
	for _, s := range writableStatuses {
		if _, ok := l.statusIDs[s]; !ok {
			missing = append(missing, string(s))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errIncompleteStatusLookup, strings.Join(missing, ", "))
	}
	return nil
}

// detectStatusLayout inspects the live schema.
func detectStatusLayout(db *gorm.DB) (statusLayout, error) {
	appointmentCols, err := columnNames(db, appointmentsTable)
	if err != nil {
		return statusLayout{}, err
	}

	var (
		lookupCols []string
		rows       []lookupRow
	)
	if db.Migrator().HasTable(statusLookupTable) {
		if lookupCols, err = columnNames(db, statusLookupTable); err != nil {
			return statusLayout{}, err
		}
		if rows, err = loadLookupRows(db, toSet(lookupCols)); err != nil {
			return statusLayout{}, err
		}
	}

	return buildStatusLayout(appointmentCols, lookupCols, rows)
}

func loadLookupRows(db *gorm.DB, lookup map[string]bool) ([]lookupRow, error) {
	if !lookup["id"] {
		return nil, nil
	}

	selects := []string{"CAST(id AS BIGINT) AS id"}
	var present []string
	for _, c := range lookupLabelColumns {
		if lookup[c] {
			present = append(present, c)
			selects = append(selects, fmt.Sprintf("COALESCE(CAST(%s AS TEXT), '') AS %s", c, c))
		}
	}
	if len(present) == 0 {
		return nil, nil
	}

	var raw []map[string]any
	if err := db.Table(statusLookupTable).
		Select(strings.Join(selects, ", ")).
		Order("id").
		Find(&raw).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", statusLookupTable, err)
	}

	rows := make([]lookupRow, 0, len(raw))
	for _, m := range raw {
		id, ok := m["id"].(int64)
		if !ok {
			return nil, fmt.Errorf("load %s: unexpected id %T", statusLookupTable, m["id"])
		}
		row := lookupRow{ID: id}
		for _, c := range present {
			label, _ := m[c].(string)
			row.Labels = append(row.Labels, label)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func columnNames(db *gorm.DB, table string) ([]string, error) {
	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}

	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, strings.ToLower(t.Name()))
	}
	return names, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}

func moveToFront(parts []string, first string) []string {
	out := []string{first}
	for _, p := range parts {
		if p != first {
			out = append(out, p)
		}
	}
	return out
}
