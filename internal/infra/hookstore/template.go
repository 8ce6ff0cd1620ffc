package hookstore

import (
	"fmt"
	"strings"

	"pbmcp/internal/domain"
)

// TemplateKind selects one of the fixed hook scaffolds.
type TemplateKind string

const (
	TemplateRecordValidation TemplateKind = "record-validation"
	TemplateRecordAuth       TemplateKind = "record-auth"
	TemplateCustomRoute      TemplateKind = "custom-route"
	TemplateFileUpload       TemplateKind = "file-upload"
	TemplateScheduledTask    TemplateKind = "scheduled-task"
)

// TemplateKinds lists the accepted template selectors, in declaration order.
func TemplateKinds() []TemplateKind {
	return []TemplateKind{
		TemplateRecordValidation,
		TemplateRecordAuth,
		TemplateCustomRoute,
		TemplateFileUpload,
		TemplateScheduledTask,
	}
}

// The placeholder is substituted with the collection or route name at every
// occurrence. The snippets are JavaScript for PocketBase's JSVM, so Go
// template delimiters would collide with the syntax; plain replacement
// matches what the scripts need.
const namePlaceholder = "__NAME__"

var templates = map[TemplateKind]string{
	TemplateRecordValidation: `/// <reference path="../pb_data/types.d.ts" />

// Validate __NAME__ records before create and update.
onRecordCreateRequest((e) => {
    const title = e.record.get("title")
    if (!title || title.length < 3) {
        throw new BadRequestError("title must be at least 3 characters")
    }
    e.next()
}, "__NAME__")

onRecordUpdateRequest((e) => {
    const title = e.record.get("title")
    if (!title || title.length < 3) {
        throw new BadRequestError("title must be at least 3 characters")
    }
    e.next()
}, "__NAME__")
`,
	TemplateRecordAuth: `/// <reference path="../pb_data/types.d.ts" />

// Runs on every successful __NAME__ authentication request.
onRecordAuthRequest((e) => {
    console.log("__NAME__ auth:", e.record.id)
    e.next()
}, "__NAME__")
`,
	TemplateCustomRoute: `/// <reference path="../pb_data/types.d.ts" />

// Custom JSON endpoint registered at /api/__NAME__.
routerAdd("GET", "/api/__NAME__", (e) => {
    return e.json(200, { "message": "Hello from __NAME__" })
})
`,
	TemplateFileUpload: `/// <reference path="../pb_data/types.d.ts" />

// Inspect files uploaded to __NAME__ records.
onRecordCreateRequest((e) => {
    const files = e.record.get("file")
    if (files && files.length > 10) {
        throw new BadRequestError("__NAME__ accepts at most 10 files per record")
    }
    e.next()
}, "__NAME__")
`,
	TemplateScheduledTask: `/// <reference path="../pb_data/types.d.ts" />

// Scheduled task "__NAME__", runs every 30 minutes.
cronAdd("__NAME__", "*/30 * * * *", () => {
    console.log("running scheduled task __NAME__")
})
`,
}

// RenderTemplate fills the scaffold for kind with the given collection or
// route name.
func RenderTemplate(kind TemplateKind, name string) (string, error) {
	const op = "create_hook_template"
	tpl, ok := templates[kind]
	if !ok {
		return "", domain.E(domain.CodeInvalidArgument, op,
			fmt.Sprintf("unknown template type %q", kind), nil)
	}
	if strings.TrimSpace(name) == "" {
		return "", domain.E(domain.CodeInvalidArgument, op, "name is required", nil)
	}
	return strings.ReplaceAll(tpl, namePlaceholder, name), nil
}
