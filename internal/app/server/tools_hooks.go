package server

import (
	"context"
	"encoding/json"
	"fmt"

	"pbmcp/internal/domain"
	"pbmcp/internal/infra/hookstore"
)

type listHooksArgs struct {
	Dir string `json:"dir,omitempty" jsonschema:"hooks directory override (defaults to the server's pb_hooks directory)"`
}

type readHookArgs struct {
	Filename string `json:"filename" jsonschema:"hook filename, must end with .pb.js"`
	Dir      string `json:"dir,omitempty" jsonschema:"hooks directory override"`
}

type createHookArgs struct {
	Filename string `json:"filename" jsonschema:"hook filename, must end with .pb.js"`
	Content  string `json:"content" jsonschema:"JavaScript source of the hook"`
	Dir      string `json:"dir,omitempty" jsonschema:"hooks directory override"`
}

type createHookTemplateArgs struct {
	Type       string `json:"type" jsonschema:"template type: record-validation, record-auth, custom-route, file-upload or scheduled-task"`
	Collection string `json:"collection" jsonschema:"collection or route name interpolated into the template"`
}

func (s *Server) registerHookTools() {
	addTool(s, "list_hooks",
		"List the hook script files in the pb_hooks directory.",
		func(_ context.Context, in listHooksArgs) (string, error) {
			names, err := s.hooks.List(in.Dir)
			if err != nil {
				return "", err
			}
			raw, err := json.Marshal(names)
			if err != nil {
				return "", domain.E(domain.CodeInternal, "list_hooks", "encode listing", err)
			}
			return pretty(raw), nil
		})

	addTool(s, "read_hook",
		"Read the content of a hook script file.",
		func(_ context.Context, in readHookArgs) (string, error) {
			return s.hooks.Read(in.Filename, in.Dir)
		})

	addTool(s, "create_hook",
		"Create or overwrite a hook script file.",
		func(_ context.Context, in createHookArgs) (string, error) {
			path, err := s.hooks.Write(in.Filename, in.Content, in.Dir)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Hook written to %s", path), nil
		})

	addTool(s, "delete_hook",
		"Delete a hook script file.",
		func(_ context.Context, in readHookArgs) (string, error) {
			if err := s.hooks.Delete(in.Filename, in.Dir); err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted hook %q", in.Filename), nil
		})

	addTool(s, "create_hook_template",
		"Generate boilerplate hook code for a common pattern. Returns the code without writing a file.",
		func(_ context.Context, in createHookTemplateArgs) (string, error) {
			return hookstore.RenderTemplate(hookstore.TemplateKind(in.Type), in.Collection)
		})
}
