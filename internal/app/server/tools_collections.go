package server

import (
	"context"
	"fmt"

	"pbmcp/internal/infra/pocketbase"
)

type listCollectionsArgs struct {
	Page    int    `json:"page,omitempty" jsonschema:"page number (defaults to 1)"`
	PerPage int    `json:"perPage,omitempty" jsonschema:"items per page (defaults to 30)"`
	Filter  string `json:"filter,omitempty" jsonschema:"PocketBase filter expression"`
	Sort    string `json:"sort,omitempty" jsonschema:"sort expression, e.g. -created"`
	Fields  string `json:"fields,omitempty" jsonschema:"comma separated fields to return"`
}

type getCollectionArgs struct {
	Collection string `json:"collection" jsonschema:"collection name or id"`
}

type createCollectionArgs struct {
	Name       string           `json:"name" jsonschema:"collection name"`
	Type       string           `json:"type,omitempty" jsonschema:"collection type: base, auth or view (defaults to base)"`
	Fields     []map[string]any `json:"fields,omitempty" jsonschema:"field definitions"`
	ListRule   string           `json:"listRule,omitempty" jsonschema:"API list rule"`
	ViewRule   string           `json:"viewRule,omitempty" jsonschema:"API view rule"`
	CreateRule string           `json:"createRule,omitempty" jsonschema:"API create rule"`
	UpdateRule string           `json:"updateRule,omitempty" jsonschema:"API update rule"`
	DeleteRule string           `json:"deleteRule,omitempty" jsonschema:"API delete rule"`
}

type updateCollectionArgs struct {
	Collection string         `json:"collection" jsonschema:"collection name or id"`
	Data       map[string]any `json:"data" jsonschema:"partial collection model to apply"`
}

type deleteCollectionArgs struct {
	Collection string `json:"collection" jsonschema:"collection name or id"`
}

type importCollectionsArgs struct {
	Collections   []map[string]any `json:"collections" jsonschema:"full collection models to import"`
	DeleteMissing bool             `json:"deleteMissing,omitempty" jsonschema:"delete collections and fields missing from the import"`
}

type noArgs struct{}

func (s *Server) registerCollectionTools() {
	addTool(s, "list_collections",
		"List collections with optional pagination, filtering and sorting.",
		func(ctx context.Context, in listCollectionsArgs) (string, error) {
			raw, err := s.client.ListCollections(ctx, pocketbase.ListOptions{
				Page:    in.Page,
				PerPage: in.PerPage,
				Filter:  in.Filter,
				Sort:    in.Sort,
				Fields:  in.Fields,
			})
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "get_collection",
		"Get a single collection by name or id.",
		func(ctx context.Context, in getCollectionArgs) (string, error) {
			raw, err := s.client.GetCollection(ctx, in.Collection)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "create_collection",
		"Create a new collection. Requires superuser authentication.",
		func(ctx context.Context, in createCollectionArgs) (string, error) {
			data := map[string]any{"name": in.Name}
			if in.Type != "" {
				data["type"] = in.Type
			}
			if len(in.Fields) > 0 {
				data["fields"] = in.Fields
			}
			for key, rule := range map[string]string{
				"listRule":   in.ListRule,
				"viewRule":   in.ViewRule,
				"createRule": in.CreateRule,
				"updateRule": in.UpdateRule,
				"deleteRule": in.DeleteRule,
			} {
				if rule != "" {
					data[key] = rule
				}
			}
			raw, err := s.client.CreateCollection(ctx, data)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "update_collection",
		"Update an existing collection. Requires superuser authentication.",
		func(ctx context.Context, in updateCollectionArgs) (string, error) {
			raw, err := s.client.UpdateCollection(ctx, in.Collection, in.Data)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "delete_collection",
		"Delete a collection and all its records. Requires superuser authentication.",
		func(ctx context.Context, in deleteCollectionArgs) (string, error) {
			if err := s.client.DeleteCollection(ctx, in.Collection); err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted collection %q", in.Collection), nil
		})

	addTool(s, "truncate_collection",
		"Delete every record in a collection. Requires superuser authentication.",
		func(ctx context.Context, in deleteCollectionArgs) (string, error) {
			if err := s.client.TruncateCollection(ctx, in.Collection); err != nil {
				return "", err
			}
			return fmt.Sprintf("Truncated collection %q", in.Collection), nil
		})

	addTool(s, "import_collections",
		"Bulk import collection definitions. Requires superuser authentication.",
		func(ctx context.Context, in importCollectionsArgs) (string, error) {
			if err := s.client.ImportCollections(ctx, in.Collections, in.DeleteMissing); err != nil {
				return "", err
			}
			return fmt.Sprintf("Imported %d collection(s)", len(in.Collections)), nil
		})

	addTool(s, "get_collection_scaffolds",
		"Get the default collection field scaffolds per collection type.",
		func(ctx context.Context, _ noArgs) (string, error) {
			raw, err := s.client.CollectionScaffolds(ctx)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})
}
