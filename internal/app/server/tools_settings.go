package server

import (
	"context"
	"fmt"
)

type getSettingsArgs struct {
	Fields string `json:"fields,omitempty" jsonschema:"comma separated fields to return"`
}

type updateSettingsArgs struct {
	Settings map[string]any `json:"settings" jsonschema:"partial settings model to apply"`
}

type testS3Args struct {
	Filesystem string `json:"filesystem,omitempty" jsonschema:"storage or backups (defaults to storage)"`
}

type testEmailArgs struct {
	Email      string `json:"email" jsonschema:"address to send the test email to"`
	Template   string `json:"template,omitempty" jsonschema:"verification, password-reset, email-change or otp (defaults to verification)"`
	Collection string `json:"collection,omitempty" jsonschema:"auth collection whose template settings are used"`
}

type createBackupArgs struct {
	Name string `json:"name,omitempty" jsonschema:"backup file name; generated when omitted"`
}

type backupKeyArgs struct {
	Key string `json:"key" jsonschema:"backup file key, e.g. pb_backup.zip"`
}

func (s *Server) registerSettingsTools() {
	addTool(s, "get_settings",
		"Get the application settings. Requires superuser authentication.",
		func(ctx context.Context, in getSettingsArgs) (string, error) {
			raw, err := s.client.Settings(ctx, in.Fields)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "update_settings",
		"Update application settings. Requires superuser authentication.",
		func(ctx context.Context, in updateSettingsArgs) (string, error) {
			raw, err := s.client.UpdateSettings(ctx, in.Settings)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "test_s3",
		"Verify the configured S3 storage connection. Requires superuser authentication.",
		func(ctx context.Context, in testS3Args) (string, error) {
			if err := s.client.TestS3(ctx, in.Filesystem); err != nil {
				return "", err
			}
			return "S3 connection verified", nil
		})

	addTool(s, "test_email",
		"Send a test email using one of the backend templates. Requires superuser authentication.",
		func(ctx context.Context, in testEmailArgs) (string, error) {
			if err := s.client.TestEmail(ctx, in.Collection, in.Email, in.Template); err != nil {
				return "", err
			}
			return fmt.Sprintf("Test email sent to %s", in.Email), nil
		})

	addTool(s, "list_backups",
		"List the available backup files. Requires superuser authentication.",
		func(ctx context.Context, _ noArgs) (string, error) {
			raw, err := s.client.ListBackups(ctx)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "create_backup",
		"Create a new full backup. Requires superuser authentication.",
		func(ctx context.Context, in createBackupArgs) (string, error) {
			if err := s.client.CreateBackup(ctx, in.Name); err != nil {
				return "", err
			}
			if in.Name == "" {
				return "Backup started", nil
			}
			return fmt.Sprintf("Backup %q started", in.Name), nil
		})

	addTool(s, "delete_backup",
		"Delete a backup file. Requires superuser authentication.",
		func(ctx context.Context, in backupKeyArgs) (string, error) {
			if err := s.client.DeleteBackup(ctx, in.Key); err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted backup %q", in.Key), nil
		})

	addTool(s, "restore_backup",
		"Restore a backup; the backend restarts afterwards. Requires superuser authentication.",
		func(ctx context.Context, in backupKeyArgs) (string, error) {
			if err := s.client.RestoreBackup(ctx, in.Key); err != nil {
				return "", err
			}
			return fmt.Sprintf("Restore of %q started", in.Key), nil
		})

	addTool(s, "get_backup_download_url",
		"Build an authenticated download URL for a backup file. Requires superuser authentication.",
		func(ctx context.Context, in backupKeyArgs) (string, error) {
			return s.client.BackupDownloadURL(ctx, in.Key)
		})

	addTool(s, "check_health",
		"Check the backend health endpoint.",
		func(ctx context.Context, _ noArgs) (string, error) {
			raw, err := s.client.Health(ctx)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})
}
