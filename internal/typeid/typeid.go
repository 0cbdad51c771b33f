package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixUser     = "user"
	PrefixTemplate = "tpl"
	PrefixLayer    = "layer"
	PrefixIcon     = "icon"
	PrefixPreview  = "prv"
	PrefixExport   = "exp"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewUserID() string     { return New(PrefixUser) }
func NewTemplateID() string { return New(PrefixTemplate) }
func NewLayerID() string    { return New(PrefixLayer) }
func NewIconID() string     { return New(PrefixIcon) }
func NewPreviewID() string  { return New(PrefixPreview) }
func NewExportID() string   { return New(PrefixExport) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
