package server

import (
	"context"

	"pbmcp/internal/infra/pocketbase"
)

type getFileURLArgs struct {
	Collection string `json:"collection" jsonschema:"collection name or id"`
	RecordID   string `json:"recordId" jsonschema:"record id the file belongs to"`
	Filename   string `json:"filename" jsonschema:"stored filename"`
	Thumb      string `json:"thumb,omitempty" jsonschema:"thumbnail spec such as 100x300"`
	Download   bool   `json:"download,omitempty" jsonschema:"force an attachment response"`
	Token      string `json:"token,omitempty" jsonschema:"file token for protected files"`
}

func (s *Server) registerFileTools() {
	addTool(s, "get_file_url",
		"Build the access URL for a file stored on a record. No network call is made.",
		func(_ context.Context, in getFileURLArgs) (string, error) {
			return s.client.FileURL(in.Collection, in.RecordID, in.Filename, pocketbase.FileURLOptions{
				Thumb:    in.Thumb,
				Download: in.Download,
				Token:    in.Token,
			}), nil
		})

	addTool(s, "get_file_token",
		"Request a short-lived token for accessing protected files. Requires authentication.",
		func(ctx context.Context, _ noArgs) (string, error) {
			return s.client.FileToken(ctx)
		})
}
