package server

import (
	"context"
	"fmt"

	"pbmcp/internal/domain"
	"pbmcp/internal/infra/pocketbase"
)

type listRecordsArgs struct {
	Collection string `json:"collection" jsonschema:"collection name or id"`
	Page       int    `json:"page,omitempty" jsonschema:"page number (defaults to 1)"`
	PerPage    int    `json:"perPage,omitempty" jsonschema:"items per page (defaults to 30)"`
	Filter     string `json:"filter,omitempty" jsonschema:"PocketBase filter expression"`
	Sort       string `json:"sort,omitempty" jsonschema:"sort expression, e.g. -created"`
	Expand     string `json:"expand,omitempty" jsonschema:"relations to expand"`
	Fields     string `json:"fields,omitempty" jsonschema:"comma separated fields to return"`
	SkipTotal  bool   `json:"skipTotal,omitempty" jsonschema:"skip the total counts query"`
}

type getFullListArgs struct {
	Collection string `json:"collection" jsonschema:"collection name or id"`
	Batch      int    `json:"batch,omitempty" jsonschema:"page size used while fetching (defaults to 200)"`
	Filter     string `json:"filter,omitempty" jsonschema:"PocketBase filter expression"`
	Sort       string `json:"sort,omitempty" jsonschema:"sort expression"`
	Expand     string `json:"expand,omitempty" jsonschema:"relations to expand"`
	Fields     string `json:"fields,omitempty" jsonschema:"comma separated fields to return"`
}

type getFirstListItemArgs struct {
	Collection string `json:"collection" jsonschema:"collection name or id"`
	Filter     string `json:"filter" jsonschema:"PocketBase filter expression"`
	Expand     string `json:"expand,omitempty" jsonschema:"relations to expand"`
	Fields     string `json:"fields,omitempty" jsonschema:"comma separated fields to return"`
}

type getRecordArgs struct {
	Collection string `json:"collection" jsonschema:"collection name or id"`
	ID         string `json:"id" jsonschema:"record id"`
	Expand     string `json:"expand,omitempty" jsonschema:"relations to expand"`
	Fields     string `json:"fields,omitempty" jsonschema:"comma separated fields to return"`
}

type createRecordArgs struct {
	Collection string         `json:"collection" jsonschema:"collection name or id"`
	Data       map[string]any `json:"data" jsonschema:"record fields"`
	Expand     string         `json:"expand,omitempty" jsonschema:"relations to expand in the response"`
}

type updateRecordArgs struct {
	Collection string         `json:"collection" jsonschema:"collection name or id"`
	ID         string         `json:"id" jsonschema:"record id"`
	Data       map[string]any `json:"data" jsonschema:"record fields to update"`
	Expand     string         `json:"expand,omitempty" jsonschema:"relations to expand in the response"`
}

type deleteRecordArgs struct {
	Collection string `json:"collection" jsonschema:"collection name or id"`
	ID         string `json:"id" jsonschema:"record id"`
}

type batchRecordsArgs struct {
	Collection string           `json:"collection" jsonschema:"collection name or id"`
	Records    []map[string]any `json:"records" jsonschema:"record payloads, one per sub-request"`
}

type batchDeleteArgs struct {
	Collection string   `json:"collection" jsonschema:"collection name or id"`
	IDs        []string `json:"ids" jsonschema:"record ids to delete"`
}

func (s *Server) registerRecordTools() {
	addTool(s, "list_records",
		"List records from a collection with pagination, filtering, sorting and relation expansion.",
		func(ctx context.Context, in listRecordsArgs) (string, error) {
			raw, err := s.client.ListRecords(ctx, in.Collection, pocketbase.ListOptions{
				Page:      in.Page,
				PerPage:   in.PerPage,
				Filter:    in.Filter,
				Sort:      in.Sort,
				Expand:    in.Expand,
				Fields:    in.Fields,
				SkipTotal: in.SkipTotal,
			})
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "get_full_list",
		"Fetch every record in a collection by paging until exhausted.",
		func(ctx context.Context, in getFullListArgs) (string, error) {
			raw, err := s.client.GetFullList(ctx, in.Collection, in.Batch, pocketbase.ListOptions{
				Filter: in.Filter,
				Sort:   in.Sort,
				Expand: in.Expand,
				Fields: in.Fields,
			})
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "get_first_list_item",
		"Get the first record matching a filter.",
		func(ctx context.Context, in getFirstListItemArgs) (string, error) {
			raw, err := s.client.GetFirstListItem(ctx, in.Collection, in.Filter, pocketbase.RecordOptions{
				Expand: in.Expand,
				Fields: in.Fields,
			})
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "get_record",
		"Get a single record by id.",
		func(ctx context.Context, in getRecordArgs) (string, error) {
			raw, err := s.client.GetRecord(ctx, in.Collection, in.ID, pocketbase.RecordOptions{
				Expand: in.Expand,
				Fields: in.Fields,
			})
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "create_record",
		"Create a new record in a collection.",
		func(ctx context.Context, in createRecordArgs) (string, error) {
			raw, err := s.client.CreateRecord(ctx, in.Collection, in.Data, pocketbase.RecordOptions{
				Expand: in.Expand,
			})
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "update_record",
		"Update an existing record by id.",
		func(ctx context.Context, in updateRecordArgs) (string, error) {
			raw, err := s.client.UpdateRecord(ctx, in.Collection, in.ID, in.Data, pocketbase.RecordOptions{
				Expand: in.Expand,
			})
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "delete_record",
		"Delete a record by id.",
		func(ctx context.Context, in deleteRecordArgs) (string, error) {
			if err := s.client.DeleteRecord(ctx, in.Collection, in.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted record %q from collection %q", in.ID, in.Collection), nil
		})

	addTool(s, "batch_create",
		"Create multiple records in one grouped batch request.",
		func(ctx context.Context, in batchRecordsArgs) (string, error) {
			batch := s.client.NewBatch()
			for _, record := range in.Records {
				batch.Create(in.Collection, record)
			}
			raw, err := batch.Send(ctx)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "batch_update",
		"Update multiple records in one grouped batch request. Each record payload must include its id.",
		func(ctx context.Context, in batchRecordsArgs) (string, error) {
			batch := s.client.NewBatch()
			for i, record := range in.Records {
				id, _ := record["id"].(string)
				if id == "" {
					return "", domain.E(domain.CodeInvalidArgument, "batch_update",
						fmt.Sprintf("records[%d] is missing an id", i), nil)
				}
				batch.Update(in.Collection, id, record)
			}
			raw, err := batch.Send(ctx)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "batch_delete",
		"Delete multiple records in one grouped batch request.",
		func(ctx context.Context, in batchDeleteArgs) (string, error) {
			batch := s.client.NewBatch()
			for _, id := range in.IDs {
				batch.Delete(in.Collection, id)
			}
			raw, err := batch.Send(ctx)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "batch_upsert",
		"Create or update multiple records in one grouped batch request; records with a matching id are updated.",
		func(ctx context.Context, in batchRecordsArgs) (string, error) {
			batch := s.client.NewBatch()
			for _, record := range in.Records {
				batch.Upsert(in.Collection, record)
			}
			raw, err := batch.Send(ctx)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})
}
