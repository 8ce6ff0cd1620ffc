package server

import (
	"context"
	"fmt"

	"pbmcp/internal/infra/pocketbase"
)

type listLogsArgs struct {
	Page    int    `json:"page,omitempty" jsonschema:"page number (defaults to 1)"`
	PerPage int    `json:"perPage,omitempty" jsonschema:"items per page (defaults to 30)"`
	Filter  string `json:"filter,omitempty" jsonschema:"PocketBase filter expression"`
	Sort    string `json:"sort,omitempty" jsonschema:"sort expression, e.g. -created"`
}

type getLogArgs struct {
	ID string `json:"id" jsonschema:"log entry id"`
}

type logsStatsArgs struct {
	Filter string `json:"filter,omitempty" jsonschema:"PocketBase filter expression"`
}

type runCronArgs struct {
	JobID string `json:"jobId" jsonschema:"cron job id"`
}

func (s *Server) registerLogTools() {
	addTool(s, "list_logs",
		"List request logs. Requires superuser authentication.",
		func(ctx context.Context, in listLogsArgs) (string, error) {
			raw, err := s.client.ListLogs(ctx, pocketbase.ListOptions{
				Page:    in.Page,
				PerPage: in.PerPage,
				Filter:  in.Filter,
				Sort:    in.Sort,
			})
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "get_log",
		"Get a single request log entry by id. Requires superuser authentication.",
		func(ctx context.Context, in getLogArgs) (string, error) {
			raw, err := s.client.GetLog(ctx, in.ID)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "get_logs_stats",
		"Get hourly aggregated request log statistics. Requires superuser authentication.",
		func(ctx context.Context, in logsStatsArgs) (string, error) {
			raw, err := s.client.LogsStats(ctx, in.Filter)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "list_cron_jobs",
		"List the registered cron jobs. Requires superuser authentication.",
		func(ctx context.Context, _ noArgs) (string, error) {
			raw, err := s.client.ListCrons(ctx)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "run_cron_job",
		"Trigger a cron job immediately. Requires superuser authentication.",
		func(ctx context.Context, in runCronArgs) (string, error) {
			if err := s.client.RunCron(ctx, in.JobID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Triggered cron job %q", in.JobID), nil
		})
}
