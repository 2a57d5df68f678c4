package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entschema "entgo.io/ent/dialect/sql/schema"

	"github.com/abhisek/pathways/ent/schema"
)

const (
	coursesTable     = "courses"
	connectionsTable = "connections"
	ksbTable         = "ksb_mappings"
)

// tableDef pairs a table name with the ent schema that describes it.
type tableDef struct {
	name    string
	fields  []ent.Field
	indexes []ent.Index
	refs    map[string]string
	autoID  bool
}

func tableDefs() []tableDef {
	return []tableDef{
		{
			name:    coursesTable,
			fields:  schema.Course{}.Fields(),
			indexes: schema.Course{}.Indexes(),
		},
		{
			name:    connectionsTable,
			fields:  schema.Connection{}.Fields(),
			indexes: schema.Connection{}.Indexes(),
			refs:    schema.Connection{}.References(),
		},
		{
			name:    ksbTable,
			fields:  schema.KSBMapping{}.Fields(),
			indexes: schema.KSBMapping{}.Indexes(),
			autoID:  true,
		},
	}
}

// buildTables converts the ent field and index descriptors into migration
// tables. Referenced tables must appear before the tables pointing at them.
func buildTables(defs []tableDef) ([]*entschema.Table, error) {
	byName := make(map[string]*entschema.Table, len(defs))
	tables := make([]*entschema.Table, 0, len(defs))

	for _, def := range defs {
		t := entschema.NewTable(def.name)
		cols := make(map[string]*entschema.Column, len(def.fields))

		for _, f := range def.fields {
			d := f.Descriptor()
			if d.Err != nil {
				return nil, fmt.Errorf("%s.%s: %w", def.name, d.Name, d.Err)
			}
			c := &entschema.Column{
				Name:     d.Name,
				Type:     d.Info.Type,
				Size:     int64(d.Size),
				Nullable: d.Optional,
				Default:  d.Default,
			}
			cols[d.Name] = c
			if d.Name == "id" {
				c.Increment = def.autoID
				t.AddPrimary(c)
				continue
			}
			t.AddColumn(c)
		}

		for _, idx := range def.indexes {
			d := idx.Descriptor()
			name := d.StorageKey
			if name == "" {
				name = def.name + "_" + strings.Join(d.Fields, "_")
			}
			t.AddIndex(name, d.Unique, d.Fields)
		}

		for _, col := range slices.Sorted(maps.Keys(def.refs)) {
			ref := def.refs[col]
			target, ok := byName[ref]
			if !ok {
				return nil, fmt.Errorf("%s.%s references unknown table %s", def.name, col, ref)
			}
			t.AddForeignKey(&entschema.ForeignKey{
				Symbol:     def.name + "_" + col,
				Columns:    []*entschema.Column{cols[col]},
				RefTable:   target,
				RefColumns: []*entschema.Column{target.PrimaryKey[0]},
				OnDelete:   entschema.Cascade,
			})
		}

		byName[def.name] = t
		tables = append(tables, t)
	}
	return tables, nil
}

// migrate creates or updates every table.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables, err := buildTables(tableDefs())
	if err != nil {
		return fmt.Errorf("build tables: %w", err)
	}
	m, err := entschema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}
