package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/platform/obs"
)

// SQL-backed implementation of the SectionRegistry port.
type SQLSectionRegistry struct{ DB *sql.DB }

func NewSQLSectionRegistry(db *sql.DB) *SQLSectionRegistry {
	return &SQLSectionRegistry{DB: db}
}

// Return the stored registry in seed order.
func (s *SQLSectionRegistry) FetchSections(ctx context.Context) (_ *domain.Registry, err error) {
	defer obs.Time(ctx, "registry.sql.FetchSections")(&err)

	if s.DB == nil {
		return nil, errors.New("sql section registry: DB is nil")
	}

	reg := &domain.Registry{}
	index := make(map[string]int)

	sectionsQuery := `
	SELECT
		name,
		x,
		y
	FROM sections
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, sectionsQuery)
	if err != nil {
		return nil, fmt.Errorf("fetch sections: query sections table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var x, y sql.NullFloat64
		if err := rows.Scan(&name, &x, &y); err != nil {
			return nil, fmt.Errorf("fetch sections: scan section: %w", err)
		}

		rec := domain.SectionRecord{Name: name}
		if x.Valid && y.Valid {
			rec.Coordinates = &domain.Point{X: x.Float64, Y: y.Float64}
		}
		index[name] = len(reg.Sections)
		reg.Sections = append(reg.Sections, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch sections: section iteration: %w", err)
	}

	itemsQuery := `
	SELECT
		section_name,
		item
	FROM section_items
	ORDER BY section_name, position;
	`
	itemRows, err := s.DB.QueryContext(ctx, itemsQuery)
	if err != nil {
		return nil, fmt.Errorf("fetch sections: query section_items table: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var section, item string
		if err := itemRows.Scan(&section, &item); err != nil {
			return nil, fmt.Errorf("fetch sections: scan item: %w", err)
		}
		i, ok := index[section]
		if !ok {
			return nil, fmt.Errorf("fetch sections: item %q belongs to unknown section %q", item, section)
		}
		reg.Sections[i].Items = append(reg.Sections[i].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("fetch sections: item iteration: %w", err)
	}

	supportedQuery := `
	SELECT item
	FROM supported_items
	ORDER BY position;
	`
	supportedRows, err := s.DB.QueryContext(ctx, supportedQuery)
	if err != nil {
		return nil, fmt.Errorf("fetch sections: query supported_items table: %w", err)
	}
	defer supportedRows.Close()

	for supportedRows.Next() {
		var item string
		if err := supportedRows.Scan(&item); err != nil {
			return nil, fmt.Errorf("fetch sections: scan supported item: %w", err)
		}
		reg.SupportedItems = append(reg.SupportedItems, item)
	}
	if err := supportedRows.Err(); err != nil {
		return nil, fmt.Errorf("fetch sections: supported item iteration: %w", err)
	}

	return reg, nil
}
