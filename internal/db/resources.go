// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toeirei/uidcolumn/internal/schema"
	"github.com/toeirei/uidcolumn/internal/uid"
	"github.com/toeirei/uidcolumn/internal/uidtype"
	"github.com/uptrace/bun"
)

// ResourcesTable is the desired definition of the resources table.
var ResourcesTable = schema.Table{
	Name: "resources",
	Columns: []schema.Column{
		{Name: "id", Type: uidtype.UUIDTypeName, PrimaryKey: true},
		{Name: "parent_id", Type: uidtype.UUIDTypeName, Nullable: true},
		{Name: "trace_id", Type: uidtype.ULIDTypeName, Nullable: true},
		{Name: "name", SQLType: "VARCHAR(255)"},
		{Name: "created_at", SQLType: "TIMESTAMP"},
	},
}

// Resource is a named record keyed by a UUID, optionally nested under a
// parent and tagged with the ULID of the request that created it.
type Resource struct {
	bun.BaseModel `bun:"table:resources"`
	ID            uidtype.Null[uid.UUID] `bun:"id,pk" json:"id"`
	ParentID      uidtype.Null[uid.UUID] `bun:"parent_id" json:"parent_id"`
	TraceID       uidtype.Null[uid.ULID] `bun:"trace_id" json:"trace_id"`
	Name          string                 `bun:"name" json:"name"`
	CreatedAt     time.Time              `bun:"created_at" json:"created_at"`
}

// NewResource carries the input of CreateResource. ParentID and TraceID
// are textual ids; an empty TraceID gets a fresh ULID.
type NewResource struct {
	Name     string
	ParentID string
	TraceID  string
}

// canonicalID validates s against the named column type and returns its
// canonical database form.
func (s *Store) canonicalID(typeName, id string) (string, error) {
	col, err := s.registry.Lookup(typeName)
	if err != nil {
		return "", err
	}
	v, err := col.ToDatabaseValue(id)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", &uidtype.ConversionError{Value: id, TypeName: typeName, ToDatabase: true}
	}
	return str, nil
}

// CreateResource inserts a resource with a freshly generated id.
func (s *Store) CreateResource(ctx context.Context, in NewResource) (*Resource, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("resource name must not be empty")
	}
	col, err := s.registry.Lookup(uidtype.UUIDTypeName)
	if err != nil {
		return nil, err
	}
	generated, err := col.Generate()
	if err != nil {
		return nil, err
	}
	id, ok := generated.(uid.UUID)
	if !ok {
		return nil, fmt.Errorf("column type %s generated a %s id, resources need a uuid", uidtype.UUIDTypeName, generated.Kind())
	}

	r := &Resource{ID: uidtype.NullOf(id), Name: name, CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}

	if in.ParentID != "" {
		parent, err := s.GetResource(ctx, in.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent %s: %w", in.ParentID, err)
		}
		r.ParentID = parent.ID
	}
	if in.TraceID == "" {
		r.TraceID = uidtype.NullOf(uid.NewULID())
	} else if err := r.TraceID.Scan(in.TraceID); err != nil {
		return nil, err
	}

	if _, err := s.bun.NewInsert().Model(r).Exec(ctx); err != nil {
		return nil, MapDBError(err)
	}
	dbLogf("db: created resource %s (%s)", r.ID, r.Name)
	return r, nil
}

// GetResource returns the resource with the given id.
func (s *Store) GetResource(ctx context.Context, id string) (*Resource, error) {
	key, err := s.canonicalID(uidtype.UUIDTypeName, id)
	if err != nil {
		return nil, err
	}
	var r Resource
	if err := s.bun.NewSelect().Model(&r).Where("id = ?", key).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	return &r, nil
}

// ListResources returns all resources, oldest first.
func (s *Store) ListResources(ctx context.Context) ([]Resource, error) {
	var out []Resource
	err := s.bun.NewSelect().Model(&out).Order("created_at", "id").Scan(ctx)
	return out, MapDBError(err)
}

// ChildResources returns the direct children of parentID.
func (s *Store) ChildResources(ctx context.Context, parentID string) ([]Resource, error) {
	key, err := s.canonicalID(uidtype.UUIDTypeName, parentID)
	if err != nil {
		return nil, err
	}
	var out []Resource
	err = s.bun.NewSelect().Model(&out).Where("parent_id = ?", key).Order("created_at", "id").Scan(ctx)
	return out, MapDBError(err)
}

// FindByTrace returns the resources created under a trace id. The id may
// be given in ULID base32 or RFC 4122 form.
func (s *Store) FindByTrace(ctx context.Context, traceID string) ([]Resource, error) {
	key, err := s.canonicalID(uidtype.ULIDTypeName, traceID)
	if err != nil {
		return nil, err
	}
	var out []Resource
	err = s.bun.NewSelect().Model(&out).Where("trace_id = ?", key).Order("created_at", "id").Scan(ctx)
	return out, MapDBError(err)
}

// DeleteResource removes a resource. Children keep their parent_id.
func (s *Store) DeleteResource(ctx context.Context, id string) error {
	key, err := s.canonicalID(uidtype.UUIDTypeName, id)
	if err != nil {
		return err
	}
	res, err := s.bun.NewDelete().Model((*Resource)(nil)).Where("id = ?", key).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	dbLogf("db: deleted resource %s", key)
	return nil
}

// SchemaDiff compares the live resources table with ResourcesTable.
func (s *Store) SchemaDiff(ctx context.Context) ([]schema.Change, error) {
	live, err := schema.Inspect(ctx, s.bun, ResourcesTable.Name)
	if err != nil {
		return nil, err
	}
	return s.Renderer().Diff(ResourcesTable, live)
}
